package extends

import "fmt"

// ResolverFunc produces an abstract definition. root is always the original,
// unmerged document that started the current resolution, never an
// intermediate merge result.
type ResolverFunc func(root *Definition, params Parameters) (*Definition, error)

// Resolver is an abstract definition behind one callable shape. It is built
// either from a static literal (StaticResolver) or from a function
// (NewResolver); the walker only ever calls Invoke.
type Resolver struct {
	name     string
	static   *Definition
	fn       ResolverFunc
	defaults Parameters
}

// StaticResolver lifts an abstract literal into a resolver that returns it
// regardless of root and parameters.
func StaticResolver(def *Definition) *Resolver {
	return &Resolver{name: def.Name, static: def}
}

// NewResolver wraps a parameterized abstract registered under name.
func NewResolver(name string, fn ResolverFunc) *Resolver {
	return &Resolver{name: name, fn: fn}
}

// WithDefaults returns a copy of r carrying module-level defaults, the
// parameters given when the plugin registering the abstract was configured.
// They override instance parameters on the same key (see mergeParams).
func (r *Resolver) WithDefaults(p Parameters) *Resolver {
	out := *r
	out.defaults = p.clone()
	return &out
}

// Defaults returns the module-level defaults of r.
func (r *Resolver) Defaults() Parameters { return r.defaults }

// IsStatic reports whether r wraps a literal.
func (r *Resolver) IsStatic() bool { return r.static != nil }

func (r *Resolver) TypeName() string { return r.name }
func (r *Resolver) isType()          {}

// Invoke produces the abstract definition for root. Instance parameters are
// merged with the module-level defaults before the function is called. The
// function receives a copy of root; the caller's document is never modified.
func (r *Resolver) Invoke(root *Definition, params Parameters) (*Definition, error) {
	if r.static != nil {
		return r.static, nil
	}
	if r.fn == nil {
		return nil, fmt.Errorf("%w: resolver %q has no function", ErrInvalidDefinition, r.name)
	}
	return r.fn(root.Clone(), mergeParams(params, r.defaults))
}

// store resolves extends targets. Resolvers are consulted in registration
// order before the concrete documents.
type store struct {
	resolvers []*Resolver
	documents map[string]*Definition
}

func newStore() *store {
	return &store{documents: make(map[string]*Definition)}
}

// resolve returns the definition registered as name, or nil if nothing
// matches. A resolver result only counts when its name equals the target.
func (s *store) resolve(name string, root *Definition, params Parameters) (*Definition, error) {
	for _, r := range s.resolvers {
		if r.name != name {
			continue
		}
		def, err := r.Invoke(root, params)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrResolverFailed, name, err)
		}
		if def != nil && def.Name == name {
			return def, nil
		}
	}
	if doc, ok := s.documents[name]; ok {
		return doc, nil
	}
	return nil, nil
}
