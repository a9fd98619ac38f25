package domain

import "errors"

// Structural hierarchy violations. These are deterministic validation
// failures: they are detected before any write is attempted and are never
// retried. Callers match them with errors.Is; the wrapped message names the
// offending constraint.
var (
	ErrDepthExceeded     = errors.New("maximum hierarchy depth exceeded")
	ErrNameConflict      = errors.New("sibling name conflict")
	ErrSelfParent        = errors.New("workgroup cannot be its own parent")
	ErrCircularReference = errors.New("circular parent reference")
)
