package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"schema-tools/cmd/schemactl/extends"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a schema file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// ParseFormat maps a format name ("yaml", "yml", "json", "jsonc") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json", "jsonc":
		return FormatJSON, nil
	default:
		return FormatYAML, fmt.Errorf("unknown format %q (want yaml or json)", s)
	}
}

// FormatFromPath picks the format from a file extension; anything that is
// not .json or .jsonc is read as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Document is the Go-level representation of a parsed schema file.
//
// Two forms are supported:
//   - Mapping form (preferred): a mapping with "types" and "defaults" keys.
//   - Shorthand form: a bare sequence, interpreted as types only.
type Document struct {
	Path  string
	Types []extends.Type

	// Defaults holds module-level parameters per abstract name. They win over
	// the parameters of individual extends entries.
	Defaults map[string]extends.Parameters
}

// ---- Internal YAML parsing structs ----------------------------------------
//
// These mirror the extends types but carry YAML struct tags and handle the
// polymorphic `extends` and `parameters` keys. They are converted before
// being returned to callers.

type yamlDocument struct {
	Types    []yamlDefinition     `yaml:"types,omitempty"`
	Defaults map[string]yaml.Node `yaml:"defaults,omitempty"`
}

type yamlDefinition struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Title string `yaml:"title,omitempty"`

	// Extends and Parameters are held as yaml.Node (not *yaml.Node) so an
	// absent key can be told apart by Kind == 0.
	Extends    yaml.Node `yaml:"extends,omitempty"`
	Parameters yaml.Node `yaml:"parameters,omitempty"`

	Fields       []yamlField    `yaml:"fields,omitempty"`
	Fieldsets    []any          `yaml:"fieldsets,omitempty"`
	Groups       []any          `yaml:"groups,omitempty"`
	Orderings    []any          `yaml:"orderings,omitempty"`
	Options      map[string]any `yaml:"options,omitempty"`
	Components   map[string]any `yaml:"components,omitempty"`
	InitialValue any            `yaml:"initialValue,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

type yamlField struct {
	Name  string         `yaml:"name"`
	Type  string         `yaml:"type,omitempty"`
	Attrs map[string]any `yaml:",inline"`
}

// ---- Parse -----------------------------------------------------------------

// Parse parses a schema file in either mapping or shorthand form. JSON input
// may contain comments and trailing commas.
func Parse(in []byte, format Format) (Document, error) {
	return parse(in, format, "<doc>")
}

// ParseFile reads and parses a schema file, choosing the format from its
// extension.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return parse(data, FormatFromPath(path), path)
}

func parse(in []byte, format Format, path string) (Document, error) {
	root, err := rootNode(in, format)
	if err != nil {
		return Document{}, fmt.Errorf("phase=parse path=%s: %w", path, err)
	}

	var yd yamlDocument
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&yd.Types); err != nil {
			return Document{}, fmt.Errorf("phase=parse path=%s: %w", path, err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&yd); err != nil {
			return Document{}, fmt.Errorf("phase=parse path=%s: %w", path, err)
		}
	default:
		return Document{}, fmt.Errorf("phase=parse path=%s: unexpected root kind %d", path, root.Kind)
	}

	doc, err := convertDocument(yd)
	if err != nil {
		return Document{}, fmt.Errorf("phase=parse path=%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// rootNode returns the top-level node of in. JSON is decoded with
// encoding/json once comments and trailing commas are stripped, then
// re-encoded as a node so both formats share one conversion.
func rootNode(in []byte, format Format) (*yaml.Node, error) {
	if format == FormatJSON {
		in = jsonc.ToJSON(in)
		if len(bytes.TrimSpace(in)) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		var v any
		if err := json.Unmarshal(in, &v); err != nil {
			return nil, err
		}
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return &node, nil
	}

	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return nil, err
	}
	if len(docNode.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return docNode.Content[0], nil
}

// ---- Convert: yaml types → extends types -----------------------------------

func convertDocument(yd yamlDocument) (Document, error) {
	doc := Document{}
	for i, yt := range yd.Types {
		t, err := convertType(yt)
		if err != nil {
			name := yt.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return Document{}, fmt.Errorf("type %s: %w", name, err)
		}
		doc.Types = append(doc.Types, t)
	}

	if len(yd.Defaults) > 0 {
		doc.Defaults = make(map[string]extends.Parameters, len(yd.Defaults))
		for name, node := range yd.Defaults {
			p, err := convertParams(&node)
			if err != nil {
				return Document{}, fmt.Errorf("defaults %s: %w", name, err)
			}
			doc.Defaults[name] = p
		}
	}
	return doc, nil
}

// convertType returns a *Definition, or a template *Resolver for an abstract
// that declares parameters or uses template expressions.
func convertType(yt yamlDefinition) (extends.Type, error) {
	def, err := convertDefinition(yt)
	if err != nil {
		return nil, err
	}

	var decls extends.ParamDefs
	if yt.Parameters.Kind != 0 {
		if def.Kind() != extends.KindAbstract {
			return nil, fmt.Errorf("'parameters' can only be declared on abstract types")
		}
		if err := yt.Parameters.Decode(&decls); err != nil {
			return nil, fmt.Errorf("parameters: %w", err)
		}
		stringKeys(decls)
	}

	if def.Kind() == extends.KindAbstract && (decls != nil || extends.HasTemplates(def)) {
		return extends.TemplateResolver(def, decls), nil
	}
	return def, nil
}

func convertDefinition(yt yamlDefinition) (*extends.Definition, error) {
	def := &extends.Definition{
		Name:         yt.Name,
		Type:         yt.Type,
		Title:        yt.Title,
		Options:      stringKeys(yt.Options),
		Components:   stringKeys(yt.Components),
		InitialValue: normalizeKeys(yt.InitialValue),
		Orderings:    stringKeysSlice(yt.Orderings),
		Groups:       stringKeysSlice(yt.Groups),
		Fieldsets:    stringKeysSlice(yt.Fieldsets),
	}
	if len(yt.Extra) > 0 {
		def.Extra = stringKeys(yt.Extra)
	}

	if yt.Fields != nil {
		def.Fields = make([]extends.Field, 0, len(yt.Fields))
		for _, yf := range yt.Fields {
			f := extends.Field{Name: yf.Name, Type: yf.Type}
			if len(yf.Attrs) > 0 {
				f.Attrs = stringKeys(yf.Attrs)
			}
			def.Fields = append(def.Fields, f)
		}
	}

	if yt.Extends.Kind != 0 {
		refs, err := convertExtends(&yt.Extends)
		if err != nil {
			return nil, fmt.Errorf("extends: %w", err)
		}
		def.Extends = refs
	}
	return def, nil
}

// convertExtends converts a polymorphic `extends` node:
//
//	extends: seo                                  → one reference
//	extends: [seo, timestamps]                    → references in order
//	extends: { type: seo, parameters: {...} }     → one parameterized reference
//	extends: [seo, { type: og, parameters: true }] → mixed
func convertExtends(node *yaml.Node) ([]extends.Reference, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		ref, err := convertReference(node)
		if err != nil {
			return nil, err
		}
		return []extends.Reference{ref}, nil

	case yaml.MappingNode:
		ref, err := convertReference(node)
		if err != nil {
			return nil, err
		}
		return []extends.Reference{ref}, nil

	case yaml.SequenceNode:
		refs := make([]extends.Reference, 0, len(node.Content))
		for i, item := range node.Content {
			ref, err := convertReference(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			refs = append(refs, ref)
		}
		return refs, nil

	default:
		return nil, fmt.Errorf("expected name, mapping or sequence, got YAML kind %d", node.Kind)
	}
}

func convertReference(node *yaml.Node) (extends.Reference, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" || node.Tag == "!!null" {
			return extends.Reference{}, fmt.Errorf("empty type name")
		}
		return extends.Ref(node.Value), nil

	case yaml.MappingNode:
		var ref extends.Reference
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "type":
				ref.Target = val.Value
			case "parameters":
				p, err := convertParams(val)
				if err != nil {
					return extends.Reference{}, fmt.Errorf("parameters: %w", err)
				}
				ref.Params = p
			default:
				return extends.Reference{}, fmt.Errorf("unknown key %q in extends entry", key.Value)
			}
		}
		if ref.Target == "" {
			return extends.Reference{}, fmt.Errorf("extends entry is missing 'type'")
		}
		return ref, nil

	default:
		return extends.Reference{}, fmt.Errorf("extends entry must be a name or a mapping, got YAML kind %d", node.Kind)
	}
}

// convertParams converts a parameters node, declared either as a boolean or
// as a mapping. A null node means no parameters.
func convertParams(node *yaml.Node) (extends.Parameters, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return extends.Parameters{}, nil
		}
		var b bool
		if err := node.Decode(&b); err != nil {
			return extends.Parameters{}, fmt.Errorf("expected boolean or mapping, got %q", node.Value)
		}
		return extends.BoolParams(b), nil

	case yaml.MappingNode:
		var values map[string]any
		if err := node.Decode(&values); err != nil {
			return extends.Parameters{}, err
		}
		if values == nil {
			values = map[string]any{}
		}
		return extends.MapParams(stringKeys(values)), nil

	default:
		return extends.Parameters{}, fmt.Errorf("expected boolean or mapping, got YAML kind %d", node.Kind)
	}
}

// normalizeKeys rewrites the map[interface{}]interface{} values yaml.v3
// produces for mappings with non-string keys, so nested mappings deep-merge
// and encode as JSON.
func normalizeKeys(v any) any {
	switch v := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalizeKeys(val)
		}
		return out
	case map[string]any:
		return stringKeys(v)
	case []any:
		return stringKeysSlice(v)
	default:
		return v
	}
}

func stringKeys(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeKeys(v)
	}
	return m
}

func stringKeysSlice(s []any) []any {
	for i, v := range s {
		s[i] = normalizeKeys(v)
	}
	return s
}

// ---- Public build functions ------------------------------------------------

// LoadFiles parses every path in order.
func LoadFiles(paths ...string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		doc, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// TypesFromDocuments concatenates the types of all documents in order and
// attaches each document's module-level defaults to the abstract they name.
// Defaults for an unknown type, a non-parameterized type, or the same type
// twice are errors.
func TypesFromDocuments(docs ...Document) ([]extends.Type, error) {
	var types []extends.Type
	index := make(map[string]int)
	for _, doc := range docs {
		for _, t := range doc.Types {
			index[t.TypeName()] = len(types)
			types = append(types, t)
		}
	}

	applied := make(map[string]string)
	for _, doc := range docs {
		path := doc.Path
		if path == "" {
			path = "<doc>"
		}
		for _, name := range sortedNames(doc.Defaults) {
			if prev, dup := applied[name]; dup {
				return nil, fmt.Errorf("phase=parse path=%s: defaults for %q already declared in %s", path, name, prev)
			}
			i, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("phase=parse path=%s: defaults for unknown type %q", path, name)
			}
			r, ok := types[i].(*extends.Resolver)
			if !ok {
				return nil, fmt.Errorf("phase=parse path=%s: defaults for %q: type takes no parameters", path, name)
			}
			types[i] = r.WithDefaults(doc.Defaults[name])
			applied[name] = path
		}
	}
	return types, nil
}

// BuildFromDocuments resolves the types of already-parsed documents.
func BuildFromDocuments(engine *extends.Engine, docs ...Document) ([]*extends.Definition, error) {
	types, err := TypesFromDocuments(docs...)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("phase=parse path=<doc>: no types declared")
	}
	return engine.Resolve(types)
}

// Build parses a single document and resolves it.
func Build(in []byte, format Format) ([]*extends.Definition, error) {
	doc, err := Parse(in, format)
	if err != nil {
		return nil, err
	}
	return BuildFromDocuments(extends.NewEngine(), doc)
}

// BuildFiles parses every file in order and resolves them together.
func BuildFiles(engine *extends.Engine, paths ...string) ([]*extends.Definition, error) {
	docs, err := LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	return BuildFromDocuments(engine, docs...)
}

func sortedNames(m map[string]extends.Parameters) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
