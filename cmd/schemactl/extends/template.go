package extends

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// TemplateResolver turns an abstract literal whose string values contain
// template expressions into a parameterized resolver.
//
// Every string in the body except the name is rendered with Go template
// syntax against:
//
//	{{ .params.<name> }}  resolved parameters (declared defaults applied)
//	{{ .root.name }}      name of the document being resolved
//	{{ .root.title }}     its title
//	{{ .root.type }}      its declared type
//
// decls is strict: unknown parameters and missing required ones are errors.
func TemplateResolver(def *Definition, decls ParamDefs) *Resolver {
	body := def.Clone()
	return NewResolver(def.Name, func(root *Definition, params Parameters) (*Definition, error) {
		values, err := applyParamDefs(decls, params.Values)
		if err != nil {
			return nil, err
		}
		data := map[string]any{
			"params": values,
			"root": map[string]any{
				"name":  root.Name,
				"title": root.Title,
				"type":  root.Type,
			},
		}
		return applyTemplates(body, data)
	})
}

// applyTemplates returns a deep copy of d with all string values
// substituted. The name is left alone so the result still matches the
// extends target that asked for it.
func applyTemplates(d *Definition, data map[string]any) (*Definition, error) {
	out := d.Clone()
	var err error

	if out.Title, err = substituteString(d.Title, data); err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	for i, f := range out.Fields {
		if out.Fields[i].Name, err = substituteString(f.Name, data); err != nil {
			return nil, fmt.Errorf("fields[%d].name: %w", i, err)
		}
		if out.Fields[i].Type, err = substituteString(f.Type, data); err != nil {
			return nil, fmt.Errorf("fields[%d].type: %w", i, err)
		}
		attrs, err := substituteValue(f.Attrs, data)
		if err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", i, err)
		}
		out.Fields[i].Attrs, _ = attrs.(map[string]any)
	}

	// Nested extends may be templated too, so parameters flow into
	// ancestors of the abstract.
	for i, r := range out.Extends {
		if out.Extends[i].Target, err = substituteString(r.Target, data); err != nil {
			return nil, fmt.Errorf("extends[%d]: %w", i, err)
		}
		if r.Params.Values != nil {
			v, err := substituteValue(r.Params.Values, data)
			if err != nil {
				return nil, fmt.Errorf("extends[%d].parameters: %w", i, err)
			}
			out.Extends[i].Params.Values, _ = v.(map[string]any)
		}
	}

	bags := []struct {
		name string
		val  *map[string]any
	}{
		{"options", &out.Options},
		{"components", &out.Components},
		{"extra", &out.Extra},
	}
	for _, b := range bags {
		if *b.val == nil {
			continue
		}
		v, err := substituteValue(*b.val, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		*b.val, _ = v.(map[string]any)
	}

	if out.InitialValue, err = substituteValue(out.InitialValue, data); err != nil {
		return nil, fmt.Errorf("initialValue: %w", err)
	}

	lists := []struct {
		name string
		val  *[]any
	}{
		{"orderings", &out.Orderings},
		{"groups", &out.Groups},
		{"fieldsets", &out.Fieldsets},
	}
	for _, l := range lists {
		if *l.val == nil {
			continue
		}
		v, err := substituteValue(*l.val, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.name, err)
		}
		*l.val, _ = v.([]any)
	}

	return out, nil
}

// substituteValue walks an opaque value and substitutes every string in it.
func substituteValue(v any, data map[string]any) (any, error) {
	switch x := v.(type) {
	case string:
		return substituteString(x, data)
	case map[string]any:
		if x == nil {
			return x, nil
		}
		out := make(map[string]any, len(x))
		for _, k := range sortedKeys(x) {
			s, err := substituteValue(x[k], data)
			if err != nil {
				return nil, fmt.Errorf("[%s]: %w", k, err)
			}
			out[k] = s
		}
		return out, nil
	case []any:
		if x == nil {
			return x, nil
		}
		out := make([]any, len(x))
		for i, item := range x {
			s, err := substituteValue(item, data)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = s
		}
		return out, nil
	default:
		return v, nil
	}
}

// substituteString applies Go template substitution to s. Returns s
// unchanged if it contains no template markers.
//
// missingkey=error makes a reference to an unresolved parameter an explicit
// error rather than "<no value>".
func substituteString(s string, data map[string]any) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	t, err := template.New("").Option("missingkey=error").Parse(s)
	if err != nil {
		return "", fmt.Errorf("template parse error in %q: %w", s, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execute error in %q: %w", s, err)
	}
	return buf.String(), nil
}

// HasTemplates reports whether any string in d (other than its name)
// contains a template expression.
func HasTemplates(d *Definition) bool {
	found := false
	var visit func(v any)
	visit = func(v any) {
		if found {
			return
		}
		switch x := v.(type) {
		case string:
			found = strings.Contains(x, "{{")
		case map[string]any:
			for _, item := range x {
				visit(item)
			}
		case []any:
			for _, item := range x {
				visit(item)
			}
		}
	}
	visit(d.Title)
	for _, f := range d.Fields {
		visit(f.Name)
		visit(f.Type)
		visit(f.Attrs)
	}
	for _, r := range d.Extends {
		visit(r.Target)
		visit(r.Params.Values)
	}
	visit(d.Options)
	visit(d.Components)
	visit(d.InitialValue)
	visit(d.Orderings)
	visit(d.Groups)
	visit(d.Fieldsets)
	visit(d.Extra)
	return found
}
