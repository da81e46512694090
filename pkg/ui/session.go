package ui

import (
	"strconv"

	"github.com/vanderheijden86/arbor/pkg/debug"
	"github.com/vanderheijden86/arbor/pkg/tree"
	"github.com/vanderheijden86/arbor/pkg/view"
)

// Session is the explicit context threaded through every action handler:
// the active tree, the viewport window over it, and the live traversal
// cursor. It enforces the invalidation order structural changes require:
// the cursor and buffer are dropped before any tree mutation frees nodes,
// so neither ever holds a reference into a freed subtree.
type Session struct {
	Tree   *tree.Tree
	Window *view.Window
	Cursor *tree.Cursor

	policy tree.Policy
	// oneShot requests a single ModePreloadedPlusOne pass; after the
	// cursor built for it is retired the session drops back to
	// ModePreloaded so collapsed state sticks.
	oneShot bool

	sortCriterion tree.SortCriterion
	sortAscending bool
}

// NewSession opens a session rooted at path with an initial depth-limited
// expansion pass. depth <= 0 means unlimited.
func NewSession(path string, depth int, showHidden bool) (*Session, error) {
	t, err := tree.New(path)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Tree:          t,
		Window:        view.New(),
		sortAscending: true,
	}
	s.policy = tree.Policy{Mode: tree.ModeDepthLimit, MaxDepth: depth, ShowHidden: showHidden}
	if depth <= 0 {
		s.policy.Mode = tree.ModeUnrestricted
	}
	s.Cursor = tree.NewCursor(t.Root(), s.policy)
	return s, nil
}

// invalidate drops the live cursor and buffer. Must run before any
// operation that can free nodes.
func (s *Session) invalidate() {
	s.Cursor = nil
	s.Window.Reset()
}

// refresh builds a fresh cursor for the current root. After the initial
// depth pass and any one-shot deepening, steady state is ModePreloaded:
// re-traversals show exactly what is loaded, without implicit disk reads.
func (s *Session) refresh() {
	mode := tree.ModePreloaded
	if s.oneShot {
		mode = tree.ModePreloadedPlusOne
		s.oneShot = false
	}
	s.policy.Mode = mode
	s.Cursor = tree.NewCursor(s.Tree.Root(), s.policy)
}

// Rebuild discards the current pass and starts a new one under the same
// policy (used when the policy itself was edited in place).
func (s *Session) Rebuild() {
	s.invalidate()
	s.Cursor = tree.NewCursor(s.Tree.Root(), s.policy)
}

// Ascend moves the root to its parent. Returns false at the filesystem
// root.
func (s *Session) Ascend() bool {
	s.invalidate()
	moved := s.Tree.Ascend()
	s.refresh()
	debug.Log("ascend -> %s (moved=%v)", s.Tree.Root().Path(), moved)
	return moved
}

// Descend reroots at target, releasing everything outside its subtree.
func (s *Session) Descend(target *tree.Node) error {
	s.invalidate()
	err := s.Tree.Descend(target)
	s.refresh()
	if err == nil {
		debug.Log("descend -> %s", s.Tree.Root().Path())
	}
	return err
}

// ChangeRoot reroots at an arbitrary loaded node under the root.
func (s *Session) ChangeRoot(target *tree.Node) error {
	s.invalidate()
	err := s.Tree.ChangeRoot(target)
	s.refresh()
	return err
}

// SetDepth switches to a depth-limited expansion pass. depth <= 0 means
// unlimited.
func (s *Session) SetDepth(depth int) {
	s.invalidate()
	if depth <= 0 {
		s.policy.Mode = tree.ModeUnrestricted
		s.policy.MaxDepth = 0
	} else {
		s.policy.Mode = tree.ModeDepthLimit
		s.policy.MaxDepth = depth
	}
	s.Cursor = tree.NewCursor(s.Tree.Root(), s.policy)
}

// ExpandOne deepens the loaded frontier by one level on the next pass.
func (s *Session) ExpandOne() {
	s.invalidate()
	s.oneShot = true
	s.refresh()
}

// CollapseChildren frees the loaded subtree below node and re-traverses.
// The node itself survives and may be re-expanded later (a fresh listing).
func (s *Session) CollapseChildren(node *tree.Node) {
	s.invalidate()
	if node != nil {
		node.FreeChildren(nil)
	}
	s.refresh()
}

// Sort reorders loaded siblings tree-wide and re-traverses.
func (s *Session) Sort(criterion tree.SortCriterion, ascending bool) {
	s.sortCriterion = criterion
	s.sortAscending = ascending
	s.invalidate()
	s.Tree.Sort(criterion, ascending)
	s.refresh()
}

// SortCriterion returns the active sort field.
func (s *Session) SortCriterion() tree.SortCriterion { return s.sortCriterion }

// SortAscending returns the active sort direction.
func (s *Session) SortAscending() bool { return s.sortAscending }

// ShowHidden reports whether dot-entries are produced.
func (s *Session) ShowHidden() bool { return s.policy.ShowHidden }

// ToggleHidden flips dot-entry visibility and re-traverses.
func (s *Session) ToggleHidden() {
	s.invalidate()
	s.policy.ShowHidden = !s.policy.ShowHidden
	s.Cursor = tree.NewCursor(s.Tree.Root(), s.policy)
}

// DepthLabel describes the expansion policy for the status bar.
func (s *Session) DepthLabel() string {
	switch s.policy.Mode {
	case tree.ModeUnrestricted:
		return "depth:∞"
	case tree.ModeDepthLimit:
		return "depth:" + strconv.Itoa(s.policy.MaxDepth)
	default:
		return "depth:loaded"
	}
}
