package extends

import "log/slog"

// Engine resolves extends relationships. It holds no state between calls,
// so one Engine may be used concurrently.
type Engine struct {
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output during resolution.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve classifies types, flattens every document through its extends
// chain and returns the merged documents followed by the passthrough
// objects. Abstracts are never returned.
//
// Any failure aborts the whole call; no partial output is produced.
func (e *Engine) Resolve(types []Type) ([]*Definition, error) {
	c, err := classify(types)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("classified types",
		"documents", len(c.documents),
		"abstracts", len(c.store.resolvers),
		"objects", len(c.objects),
	)

	out := make([]*Definition, 0, len(c.documents)+len(c.objects))
	for _, doc := range c.documents {
		w := &walker{store: c.store, root: doc, logger: e.logger}
		merged, err := w.flatten(doc, map[string]struct{}{doc.Name: {}})
		if err != nil {
			return nil, err
		}
		out = append(out, merged.Clone())
	}
	for _, obj := range c.objects {
		out = append(out, obj.Clone())
	}
	return out, nil
}

// With returns a function that appends additional to whatever types it is
// given and resolves the combined list. It is the seam between a larger
// configuration pipeline and the engine.
func (e *Engine) With(additional []Type) func(previous []Type) ([]*Definition, error) {
	return func(previous []Type) ([]*Definition, error) {
		all := make([]Type, 0, len(previous)+len(additional))
		all = append(all, previous...)
		all = append(all, additional...)
		return e.Resolve(all)
	}
}

var defaultEngine = NewEngine()

// ResolveExtends resolves types with a silent engine. See Engine.Resolve.
func ResolveExtends(types []Type) ([]*Definition, error) {
	return defaultEngine.Resolve(types)
}

// WithExtends is the curried form of ResolveExtends. See Engine.With.
func WithExtends(additional []Type) func(previous []Type) ([]*Definition, error) {
	return defaultEngine.With(additional)
}

// Types converts definitions to the input element type.
func Types(defs ...*Definition) []Type {
	out := make([]Type, len(defs))
	for i, d := range defs {
		out[i] = d
	}
	return out
}
