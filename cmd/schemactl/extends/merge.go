package extends

// Merge combines a parent definition with a child definition into a new one.
// Neither input is modified.
//
//   - Fields: parent fields whose name the child does not redeclare come
//     first in their original order, followed by every child field.
//   - Orderings, Groups, Fieldsets: parent entries then child entries.
//   - Options, Components, InitialValue, Extra: deep merge, child keys win,
//     slices on both sides concatenate.
//   - Extends is dropped. Type comes from the child.
func Merge(parent, child *Definition) *Definition {
	if parent == nil && child == nil {
		return nil
	}
	if parent == nil {
		out := child.Clone()
		out.Extends = nil
		return out
	}
	if child == nil {
		out := parent.Clone()
		out.Extends = nil
		return out
	}

	out := &Definition{
		Name:  pick(child.Name, parent.Name),
		Type:  pick(child.Type, parent.Type),
		Title: pick(child.Title, parent.Title),
	}
	out.Fields = mergeFields(parent.Fields, child.Fields)
	out.Orderings = concat(parent.Orderings, child.Orderings)
	out.Groups = concat(parent.Groups, child.Groups)
	out.Fieldsets = concat(parent.Fieldsets, child.Fieldsets)
	out.Options = mergeMaps(parent.Options, child.Options)
	out.Components = mergeMaps(parent.Components, child.Components)
	out.InitialValue = deepMerge(parent.InitialValue, child.InitialValue)
	out.Extra = mergeMaps(parent.Extra, child.Extra)
	return out
}

func pick(child, parent string) string {
	if child != "" {
		return child
	}
	return parent
}

// mergeFields overrides parent fields by name. A field without a name never
// matches another one.
func mergeFields(parent, child []Field) []Field {
	if parent == nil && child == nil {
		return nil
	}
	redeclared := make(map[string]struct{}, len(child))
	for _, f := range child {
		if f.Name != "" {
			redeclared[f.Name] = struct{}{}
		}
	}
	out := make([]Field, 0, len(parent)+len(child))
	for _, f := range parent {
		if _, ok := redeclared[f.Name]; ok && f.Name != "" {
			continue
		}
		out = append(out, f.clone())
	}
	for _, f := range child {
		out = append(out, f.clone())
	}
	return out
}

func concat(parent, child []any) []any {
	if parent == nil && child == nil {
		return nil
	}
	out := make([]any, 0, len(parent)+len(child))
	out = append(out, cloneSlice(parent)...)
	out = append(out, cloneSlice(child)...)
	return out
}

func mergeMaps(parent, child map[string]any) map[string]any {
	if parent == nil {
		return cloneMap(child)
	}
	if child == nil {
		return cloneMap(parent)
	}
	out := cloneMap(parent)
	for k, cv := range child {
		if pv, ok := out[k]; ok {
			out[k] = deepMerge(pv, cv)
		} else {
			out[k] = cloneValue(cv)
		}
	}
	return out
}

// deepMerge merges two opaque values. Maps merge key by key, slices
// concatenate, anything else is replaced by the child when the child is set.
func deepMerge(parent, child any) any {
	if child == nil {
		return cloneValue(parent)
	}
	switch c := child.(type) {
	case map[string]any:
		if p, ok := parent.(map[string]any); ok {
			return mergeMaps(p, c)
		}
	case []any:
		if p, ok := parent.([]any); ok {
			return concat(p, c)
		}
	}
	return cloneValue(child)
}
