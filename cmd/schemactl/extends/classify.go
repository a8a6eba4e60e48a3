package extends

import "fmt"

// classification is the result of partitioning the raw input list.
type classification struct {
	store     *store
	documents []*Definition // in input order
	objects   []*Definition // passthrough, in input order
}

// classify walks the raw list once. Resolvers are registered as they are,
// abstract literals are lifted with StaticResolver, documents are indexed
// and everything else is kept for passthrough.
//
// Names share one namespace across all buckets; a repeated name fails before
// any merge runs.
func classify(types []Type) (*classification, error) {
	c := &classification{store: newStore()}
	seen := make(map[string]struct{}, len(types))

	for i, t := range types {
		if t == nil || isNilType(t) {
			return nil, &ResolveError{Phase: "classify", Type: fmt.Sprintf("<#%d>", i), Err: ErrInvalidDefinition}
		}
		name := t.TypeName()
		if name == "" {
			return nil, &ResolveError{Phase: "classify", Type: fmt.Sprintf("<#%d>", i), Err: fmt.Errorf("%w: missing name", ErrInvalidDefinition)}
		}
		if _, dup := seen[name]; dup {
			return nil, &ResolveError{Phase: "classify", Type: name, Err: ErrDuplicateType}
		}
		seen[name] = struct{}{}

		switch x := t.(type) {
		case *Resolver:
			c.store.resolvers = append(c.store.resolvers, x)
		case *Definition:
			switch x.Kind() {
			case KindAbstract:
				c.store.resolvers = append(c.store.resolvers, StaticResolver(x))
			case KindDocument:
				c.store.documents[name] = x
				c.documents = append(c.documents, x)
			case KindObject:
				c.objects = append(c.objects, x)
			}
		}
	}
	return c, nil
}

// isNilType catches typed nil pointers stored in the interface.
func isNilType(t Type) bool {
	switch x := t.(type) {
	case *Definition:
		return x == nil
	case *Resolver:
		return x == nil
	}
	return false
}
