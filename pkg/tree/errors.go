package tree

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotADirectory is returned when children are requested from a node
	// that is not a directory. The node stays usable as a leaf.
	ErrNotADirectory = errors.New("not a directory")

	// ErrAccessDenied is returned when a directory listing fails with a
	// permission error. Listing may be retried later; the node is treated
	// as childless for this attempt.
	ErrAccessDenied = errors.New("access denied")

	// ErrNoParent is returned by Parent on the filesystem root. Callers
	// treat it as a terminal no-op, not a failure.
	ErrNoParent = errors.New("no parent directory")

	// ErrNotFound is returned when a reroot target is not reachable from
	// the current root through already-loaded children.
	ErrNotFound = errors.New("node not reachable under current root")
)

// StatError wraps a failed stat call for a node. The node remains in the
// tree as a typeless leaf; nothing about the traversal is aborted because
// one path turned unreadable (race deletions are normal here).
type StatError struct {
	Path string
	Err  error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("stat %s: %v", e.Path, e.Err)
}

func (e *StatError) Unwrap() error {
	return e.Err
}
