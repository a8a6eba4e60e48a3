package extends

import (
	"fmt"
	"sort"
)

// Parameters is the bag handed to a resolver. It is declared either as a
// boolean or as an object, so at most one of Flag and Values is normally set.
// The zero value means "no parameters".
type Parameters struct {
	Flag   *bool
	Values map[string]any
}

// BoolParams returns Parameters declared as a bare boolean.
func BoolParams(b bool) Parameters {
	return Parameters{Flag: &b}
}

// MapParams returns Parameters declared as an object.
func MapParams(values map[string]any) Parameters {
	return Parameters{Values: values}
}

// IsZero reports whether no parameters were declared.
func (p Parameters) IsZero() bool {
	return p.Flag == nil && p.Values == nil
}

// Get returns the value of a single parameter.
func (p Parameters) Get(key string) (any, bool) {
	v, ok := p.Values[key]
	return v, ok
}

func (p Parameters) clone() Parameters {
	out := Parameters{Values: cloneMap(p.Values)}
	if p.Flag != nil {
		b := *p.Flag
		out.Flag = &b
	}
	return out
}

// mergeParams combines the parameters of an extends entry with the
// module-level defaults registered alongside the abstract.
//
// Module-level defaults win over instance parameters on the same key. The
// global configuration of a plugin takes precedence over an individual
// extends site. A boolean declared at the instance is kept as the Flag.
func mergeParams(instance, module Parameters) Parameters {
	if module.IsZero() {
		return instance
	}
	out := Parameters{Flag: instance.Flag}
	if out.Flag == nil {
		out.Flag = module.Flag
	}
	if instance.Values == nil && module.Values == nil {
		return out
	}
	out.Values = make(map[string]any, len(instance.Values)+len(module.Values))
	for k, v := range instance.Values {
		out.Values[k] = v
	}
	for k, v := range module.Values {
		out.Values[k] = v
	}
	return out
}

// ParamDefs declares the parameters a template resolver accepts, mapping
// each name to its default value.
//
//   - nil value  → the parameter is required; the caller MUST supply it.
//   - non-nil    → the parameter is optional with that value as its default.
type ParamDefs map[string]any

// applyParamDefs validates caller-supplied values against the declarations,
// fills in defaults for omitted optional parameters and returns the final
// flat map.
func applyParamDefs(defs ParamDefs, caller map[string]any) (map[string]any, error) {
	// Strict: anything not declared is an error.
	for _, k := range sortedKeys(caller) {
		if _, declared := defs[k]; !declared {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, k)
		}
	}

	result := make(map[string]any, len(defs))
	for _, name := range sortedKeys(defs) {
		if v, provided := caller[name]; provided {
			result[name] = v
		} else if def := defs[name]; def != nil {
			result[name] = def
		} else {
			return nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
	}
	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
