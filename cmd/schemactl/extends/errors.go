package extends

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateType      = errors.New("duplicate type")
	ErrSelfExtension      = errors.New("type extends itself")
	ErrCircularDependency = errors.New("circular dependency")
	ErrUnknownParent      = errors.New("unknown parent type")
	ErrInvalidDefinition  = errors.New("invalid definition")
	ErrResolverFailed     = errors.New("resolver failed")
	ErrUnknownParam       = errors.New("unknown param")
	ErrMissingParam       = errors.New("missing required param")
)

// ResolveError carries the context of a failed resolution. Every failure
// returned by this package is a *ResolveError wrapping one of the sentinels
// above, so callers can use errors.Is for the condition and errors.As for the
// names involved.
type ResolveError struct {
	Phase  string // "classify" or "walk"
	Type   string // the type being classified, or the type declaring extends
	Kind   Kind
	Origin string // root document of the walk, when different from Type
	Target string // the extends target involved, if any
	Err    error
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase=%s type=%s", e.Phase, e.Type)
	if e.Phase == "walk" {
		fmt.Fprintf(&b, " kind=%s", e.Kind)
	}
	if e.Origin != "" && e.Origin != e.Type {
		fmt.Fprintf(&b, " origin=%s", e.Origin)
	}
	if e.Target != "" {
		fmt.Fprintf(&b, " target=%s", e.Target)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ResolveError) Unwrap() error { return e.Err }

// ExitCode lets command-line callers report resolution failures distinctly.
func (e *ResolveError) ExitCode() int { return 2 }
