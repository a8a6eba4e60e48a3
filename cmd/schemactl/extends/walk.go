package extends

import (
	"fmt"
	"log/slog"
)

// walker resolves the ancestry of one root document. A fresh walker (and
// visited set) is used per root; nothing is shared between roots except the
// read-only store.
type walker struct {
	store  *store
	root   *Definition
	logger *slog.Logger
}

// flatten returns node with all of its ancestors folded in.
//
// Extends entries are handled in declaration order. Each parent is resolved
// against the original root, flattened with the same visited set, and folded
// into the accumulated base, so a later entry lands after (and wins over) an
// earlier one. The node itself is merged last.
//
// visited is never unwound: within one root every name may be reached once.
func (w *walker) flatten(node *Definition, visited map[string]struct{}) (*Definition, error) {
	if len(node.Extends) == 0 {
		return node, nil
	}

	var base *Definition
	for _, ref := range node.Extends {
		if err := w.enter(node, ref.Target, visited); err != nil {
			return nil, err
		}

		parent, err := w.store.resolve(ref.Target, w.root, ref.Params)
		if err != nil {
			return nil, w.fail(node, ref.Target, err)
		}
		if parent == nil {
			return nil, w.fail(node, ref.Target, ErrUnknownParent)
		}

		flat, err := w.flatten(parent, visited)
		if err != nil {
			return nil, err
		}
		base = Merge(base, flat)

		w.logger.Debug("merged ancestor",
			"root", w.root.Name,
			"type", node.Name,
			"parent", parent.Name,
			"parent_kind", parent.Kind().String(),
			"fields", len(base.Fields),
		)
	}
	return Merge(base, node), nil
}

// enter marks target as visited, rejecting self-extension and cycles.
func (w *walker) enter(node *Definition, target string, visited map[string]struct{}) error {
	if target == "" {
		return w.fail(node, target, fmt.Errorf("%w: empty extends target", ErrInvalidDefinition))
	}
	if target == node.Name {
		return w.fail(node, target, ErrSelfExtension)
	}
	if _, ok := visited[target]; ok {
		return w.fail(node, target, ErrCircularDependency)
	}
	visited[target] = struct{}{}
	return nil
}

func (w *walker) fail(node *Definition, target string, err error) error {
	return &ResolveError{
		Phase:  "walk",
		Type:   node.Name,
		Kind:   node.Kind(),
		Origin: w.root.Name,
		Target: target,
		Err:    err,
	}
}
