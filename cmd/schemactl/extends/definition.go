package extends

// Kind classifies a definition for resolution purposes.
// Only documents are resolved, only abstracts act as pure merge sources,
// and everything else passes through untouched.
type Kind int

const (
	KindObject Kind = iota
	KindDocument
	KindAbstract
)

// Declared type strings with a meaning to the engine.
const (
	TypeDocument = "document"
	TypeAbstract = "abstract"
	TypeObject   = "object"
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return TypeDocument
	case KindAbstract:
		return TypeAbstract
	default:
		return TypeObject
	}
}

// KindOf maps a declared type string to its Kind.
func KindOf(typ string) Kind {
	switch typ {
	case TypeDocument:
		return KindDocument
	case TypeAbstract:
		return KindAbstract
	default:
		return KindObject
	}
}

// Type is one entry of the raw input list: either a *Definition or a
// *Resolver. The unexported marker keeps the set closed.
type Type interface {
	TypeName() string
	isType()
}

// Definition is a schema definition as declared by its author.
// It is intentionally format-agnostic: no serialization tags.
type Definition struct {
	Name  string
	Type  string // "document", "abstract", "object" or any other object-like type
	Title string

	Fields  []Field
	Extends []Reference

	Options      map[string]any
	Components   map[string]any
	InitialValue any

	Orderings []any
	Groups    []any
	Fieldsets []any

	// Extra holds every other property. The engine never interprets it and
	// merges it like Options.
	Extra map[string]any
}

// Field is a single field of a definition. Only Name matters to the engine;
// Attrs carries validation, UI options and the like.
type Field struct {
	Name  string
	Type  string
	Attrs map[string]any
}

// Reference is a normalized extends entry.
type Reference struct {
	Target string
	Params Parameters
}

// Ref is shorthand for a parameterless Reference.
func Ref(target string) Reference {
	return Reference{Target: target}
}

func (d *Definition) TypeName() string { return d.Name }
func (d *Definition) isType()          {}

// Kind returns the Kind derived from the declared type string.
func (d *Definition) Kind() Kind { return KindOf(d.Type) }

// FieldNames returns the names of the definition's fields in order.
func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the field with the given name, or false if not found.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Clone returns a deep copy of d. Nested maps and slices are copied so the
// clone can be changed without touching d.
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	out := *d
	if d.Fields != nil {
		out.Fields = make([]Field, len(d.Fields))
		for i, f := range d.Fields {
			out.Fields[i] = f.clone()
		}
	}
	if d.Extends != nil {
		out.Extends = make([]Reference, len(d.Extends))
		for i, r := range d.Extends {
			out.Extends[i] = Reference{Target: r.Target, Params: r.Params.clone()}
		}
	}
	out.Options = cloneMap(d.Options)
	out.Components = cloneMap(d.Components)
	out.InitialValue = cloneValue(d.InitialValue)
	out.Orderings = cloneSlice(d.Orderings)
	out.Groups = cloneSlice(d.Groups)
	out.Fieldsets = cloneSlice(d.Fieldsets)
	out.Extra = cloneMap(d.Extra)
	return &out
}

func (f Field) clone() Field {
	f.Attrs = cloneMap(f.Attrs)
	return f
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		return cloneSlice(x)
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}
