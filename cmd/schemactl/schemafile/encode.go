package schemafile

import (
	"encoding/json"
	"fmt"
	"io"

	"schema-tools/cmd/schemactl/extends"

	"gopkg.in/yaml.v3"
)

// Encode writes defs as a mapping-form document that Parse reads back.
func Encode(w io.Writer, defs []*extends.Definition, format Format) error {
	switch format {
	case FormatJSON:
		types := make([]map[string]any, 0, len(defs))
		for _, d := range defs {
			types = append(types, definitionMap(d))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"types": types})

	default:
		doc := yamlDocument{Types: make([]yamlDefinition, 0, len(defs))}
		for _, d := range defs {
			yd, err := yamlFromDefinition(d)
			if err != nil {
				return fmt.Errorf("encode %s: %w", d.Name, err)
			}
			doc.Types = append(doc.Types, yd)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
}

// EncodeOne writes a single definition without the surrounding document.
func EncodeOne(w io.Writer, def *extends.Definition, format Format) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(definitionMap(def))
	}
	yd, err := yamlFromDefinition(def)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yd); err != nil {
		return err
	}
	return enc.Close()
}

func yamlFromDefinition(d *extends.Definition) (yamlDefinition, error) {
	yd := yamlDefinition{
		Name:         d.Name,
		Type:         d.Type,
		Title:        d.Title,
		Fieldsets:    d.Fieldsets,
		Groups:       d.Groups,
		Orderings:    d.Orderings,
		Options:      d.Options,
		Components:   d.Components,
		InitialValue: d.InitialValue,
		Extra:        extraWithoutKnownKeys(d.Extra),
	}
	for _, f := range d.Fields {
		yd.Fields = append(yd.Fields, yamlField{Name: f.Name, Type: f.Type, Attrs: f.Attrs})
	}
	if len(d.Extends) > 0 {
		if err := yd.Extends.Encode(referenceValues(d.Extends)); err != nil {
			return yamlDefinition{}, fmt.Errorf("extends: %w", err)
		}
	}
	return yd, nil
}

func definitionMap(d *extends.Definition) map[string]any {
	m := make(map[string]any, len(d.Extra)+8)
	for k, v := range extraWithoutKnownKeys(d.Extra) {
		m[k] = v
	}
	m["name"] = d.Name
	m["type"] = d.Type
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Fields != nil {
		fields := make([]map[string]any, 0, len(d.Fields))
		for _, f := range d.Fields {
			fm := make(map[string]any, len(f.Attrs)+2)
			for k, v := range f.Attrs {
				fm[k] = v
			}
			fm["name"] = f.Name
			if f.Type != "" {
				fm["type"] = f.Type
			}
			fields = append(fields, fm)
		}
		m["fields"] = fields
	}
	if len(d.Extends) > 0 {
		m["extends"] = referenceValues(d.Extends)
	}
	setIf(m, "fieldsets", d.Fieldsets, len(d.Fieldsets) > 0)
	setIf(m, "groups", d.Groups, len(d.Groups) > 0)
	setIf(m, "orderings", d.Orderings, len(d.Orderings) > 0)
	setIf(m, "options", d.Options, len(d.Options) > 0)
	setIf(m, "components", d.Components, len(d.Components) > 0)
	setIf(m, "initialValue", d.InitialValue, d.InitialValue != nil)
	return m
}

func setIf(m map[string]any, key string, v any, ok bool) {
	if ok {
		m[key] = v
	}
}

// referenceValues renders references in the shortest form Parse accepts.
func referenceValues(refs []extends.Reference) []any {
	out := make([]any, 0, len(refs))
	for _, r := range refs {
		if r.Params.IsZero() {
			out = append(out, r.Target)
			continue
		}
		entry := map[string]any{"type": r.Target}
		if r.Params.Flag != nil {
			entry["parameters"] = *r.Params.Flag
		} else {
			entry["parameters"] = r.Params.Values
		}
		out = append(out, entry)
	}
	return out
}

var knownKeys = map[string]bool{
	"name": true, "type": true, "title": true, "extends": true, "parameters": true,
	"fields": true, "fieldsets": true, "groups": true, "orderings": true,
	"options": true, "components": true, "initialValue": true,
}

// extraWithoutKnownKeys drops keys that would collide with typed fields on
// output.
func extraWithoutKnownKeys(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		if !knownKeys[k] {
			out[k] = v
		}
	}
	return out
}
