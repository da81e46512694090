package tree

import (
	"fmt"
	"log"
	"path/filepath"
)

// Tree owns the active root node and the path-keyed node index. All
// structural transitions (ascend, descend, reroot) go through it so the
// single-node-per-path and free-with-preserve invariants hold across them.
//
// Tree is not safe for concurrent use; the explorer drives it from a single
// update cycle per input event.
type Tree struct {
	root  *Node
	nodes map[string]*Node
}

// New creates a tree rooted at path. The root is created immediately; its
// metadata and children are still fetched lazily.
func New(path string) (*Tree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", path, err)
	}
	t := &Tree{nodes: make(map[string]*Node)}
	t.root = t.node(abs)
	return t, nil
}

// Root returns the current root node.
func (t *Tree) Root() *Node { return t.root }

// Lookup returns the live node for path, or nil if no node for that path
// exists in the active tree.
func (t *Tree) Lookup(path string) *Node { return t.nodes[path] }

// Size returns the number of live nodes in the index.
func (t *Tree) Size() int { return len(t.nodes) }

// node returns the live node for path, creating and indexing one if needed.
// This is the only place nodes are allocated: every lookup for a path that
// is already live hands back the existing object, which is what makes the
// merge-on-ascend automatic.
func (t *Tree) node(path string) *Node {
	if n, ok := t.nodes[path]; ok {
		return n
	}
	n := &Node{path: path, tree: t}
	t.nodes[path] = n
	return n
}

// forget removes a released node from the index.
func (t *Tree) forget(n *Node) {
	delete(t.nodes, n.path)
}

// Ascend moves the root to its parent directory. Returns false when the
// root is already at the filesystem root; that is a no-op, not an error.
//
// If the parent's listing no longer contains the old root (the directory
// changed underneath us), the stale subtree is released before the new
// root is installed so it cannot linger outside the tree.
func (t *Tree) Ascend() bool {
	p, err := t.root.Parent()
	if err != nil {
		// ErrNoParent: already at the top.
		return false
	}

	old := t.root
	if !p.hasChild(old) {
		log.Printf("warning: %s vanished from %s while ascending, dropping its subtree", old.path, p.path)
		old.FreeChildren(nil)
		t.forget(old)
	}
	t.root = p
	return true
}

// Descend makes target, a loaded descendant of the current root, the new
// root. Every sibling subtree along the path from the old root down to
// target is released; target's own loaded subtree is left intact. Returns
// ErrNotFound when target is not reachable through already-loaded children
// (the caller must have loaded the path to it first).
func (t *Tree) Descend(target *Node) error {
	if target == nil {
		return fmt.Errorf("descend: %w", ErrNotFound)
	}
	if target == t.root {
		return nil
	}
	if !t.reachable(t.root, target) {
		return fmt.Errorf("descend %s: %w", target.path, ErrNotFound)
	}
	t.reroot(target)
	return nil
}

// ChangeRoot is Descend for a directly-selected node anywhere under the
// root (a user-picked "set as root"). A no-op when target already is the
// root. The reachability check doubles as the guard against degenerate
// input: an ancestor of the current root is not reachable and is rejected
// rather than freed out from under itself.
func (t *Tree) ChangeRoot(target *Node) error {
	return t.Descend(target)
}

// Sort reorders every loaded child list in the tree.
func (t *Tree) Sort(criterion SortCriterion, ascending bool) {
	t.root.SortChildren(criterion, ascending)
}

// reachable does a depth-first search for target over already-loaded
// children. It never lists a directory.
func (t *Tree) reachable(from, target *Node) bool {
	for _, c := range from.children {
		if c == target || t.reachable(c, target) {
			return true
		}
	}
	return false
}

// reroot promotes target to the new, parentless root. The recursive free
// walks the whole old subtree once, skipping and detaching target when it
// is encountered, then releases the old root node itself.
func (t *Tree) reroot(target *Node) {
	old := t.root
	kept := old.FreeChildren(target)
	if kept == nil {
		// reachable() said yes, so this cannot happen short of a bug;
		// fail safe by keeping target anyway.
		log.Printf("warning: reroot did not encounter %s during free", target.path)
		target.parent = nil
	}
	old.parent = nil
	t.forget(old)
	t.root = target
}
