// Package tree holds the in-memory filesystem tree: lazily-populated nodes,
// the pre-order traversal cursor that flattens a subtree into render entries,
// and the Tree type that owns the active root and performs structural
// transitions (ascend, descend, reroot).
//
// Every node is registered in a path-keyed index owned by its Tree, so at
// most one Node exists per path within the active tree. Creation, the
// merge-on-ascend, and subtree preservation on reroot are all index edits;
// duplicate nodes for one path are unrepresentable.
package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Node is the in-memory representation of one filesystem path.
// Stat metadata and children are fetched on first access and never
// auto-refreshed: the tree is a point-in-time snapshot per expansion.
type Node struct {
	path string // absolute, immutable once created
	tree *Tree

	parent   *Node
	children []*Node
	listed   bool // children is valid; distinguishes "listed and empty" from "not yet listed"

	info    fs.FileInfo
	statErr error
	statted bool
}

// Path returns the node's absolute path.
func (n *Node) Path() string { return n.path }

// Name returns the node's basename.
func (n *Node) Name() string { return filepath.Base(n.path) }

// ParentRef returns the cached parent back-reference without deriving one.
// Nil for the active root and for nodes whose parent was never constructed.
func (n *Node) ParentRef() *Node { return n.parent }

// Listed reports whether the node's children have been read from disk.
func (n *Node) Listed() bool { return n.listed }

// LoadedChildren returns the cached child list without triggering a read.
// Nil means "not yet listed".
func (n *Node) LoadedChildren() []*Node {
	if !n.listed {
		return nil
	}
	return n.children
}

// Stat returns the cached metadata snapshot, fetching it on first call.
// Failures are cached too: a node that raced with deletion stays a typeless
// leaf for the lifetime of this snapshot.
func (n *Node) Stat() (fs.FileInfo, error) {
	if n.statted {
		return n.info, n.statErr
	}
	n.statted = true
	info, err := os.Lstat(n.path)
	if err != nil {
		n.statErr = &StatError{Path: n.path, Err: err}
		return nil, n.statErr
	}
	n.info = info
	return info, nil
}

// IsDir reports whether the node is a directory. Symlinks are not followed
// (Lstat), so a symlink to a directory is always a leaf; that keeps symlink
// cycles out of the traversal entirely.
func (n *Node) IsDir() bool {
	info, err := n.Stat()
	return err == nil && info.IsDir()
}

// Children returns the cached child list, performing a single directory
// read on first call. The read deduplicates against the tree's node index:
// if a live node already exists for an entry's path (the ascend case), that
// node is adopted instead of allocating a duplicate.
//
// Returns ErrNotADirectory or ErrAccessDenied on listing failures; both
// leave the node unlisted so a later attempt may retry.
func (n *Node) Children() ([]*Node, error) {
	if n.listed {
		return n.children, nil
	}
	info, err := n.Stat()
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", n.path, ErrNotADirectory)
	}

	dirents, err := os.ReadDir(n.path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%s: %w", n.path, ErrAccessDenied)
		}
		return nil, fmt.Errorf("%s: %w", n.path, err)
	}

	children := make([]*Node, 0, len(dirents))
	for _, d := range dirents {
		child := n.tree.node(filepath.Join(n.path, d.Name()))
		child.parent = n
		children = append(children, child)
	}
	n.children = children
	n.listed = true
	return n.children, nil
}

// Parent returns the node's parent, constructing it lazily when needed.
// The freshly constructed parent lists its own children, and the index
// guarantees the entry matching this node's path is this node itself, so
// identity survives the ascent (in-flight entries keep pointing at the
// node the user is standing on).
//
// Returns ErrNoParent at the filesystem root.
func (n *Node) Parent() (*Node, error) {
	if n.parent != nil {
		return n.parent, nil
	}
	dir := filepath.Dir(n.path)
	if dir == n.path {
		return nil, fmt.Errorf("%s: %w", n.path, ErrNoParent)
	}

	p := n.tree.node(dir)
	// Listing failures are tolerated: the caller checks membership and
	// handles a parent that could not (or no longer does) contain us.
	_, _ = p.Children()
	return p, nil
}

// hasChild reports whether c is among the node's loaded children.
func (n *Node) hasChild(c *Node) bool {
	for _, child := range n.children {
		if child == c {
			return true
		}
	}
	return false
}

// FreeChildren releases the node's loaded subtree and returns the node to
// the unlisted state. If preserve is non-nil and found anywhere in the
// subtree, its own subtree is left intact: the node is detached (parent
// pointer cleared) instead of released, and returned to the caller.
func (n *Node) FreeChildren(preserve *Node) *Node {
	var kept *Node
	for _, c := range n.children {
		c.release(preserve, &kept)
	}
	n.children = nil
	n.listed = false
	return kept
}

// release drops the node and its subtree from the tree index, skipping and
// detaching the preserved node wherever it is encountered.
func (n *Node) release(preserve *Node, kept **Node) {
	if n == preserve {
		n.parent = nil
		*kept = n
		return
	}
	for _, c := range n.children {
		c.release(preserve, kept)
	}
	n.children = nil
	n.listed = false
	n.parent = nil
	n.tree.forget(n)
}

// SortCriterion selects the comparison key for sibling ordering.
type SortCriterion int

const (
	SortByName SortCriterion = iota
	SortBySize
	SortByModTime
	SortByExtension
)

// String returns the criterion name as shown in the status bar.
func (s SortCriterion) String() string {
	switch s {
	case SortBySize:
		return "size"
	case SortByModTime:
		return "modified"
	case SortByExtension:
		return "ext"
	default:
		return "name"
	}
}

// SortChildren recursively reorders already-loaded children. Unlisted nodes
// are left alone (sorting never forces a directory read). The sort is
// stable, so equal keys keep their on-disk order.
func (n *Node) SortChildren(criterion SortCriterion, ascending bool) {
	if !n.listed {
		return
	}
	sort.SliceStable(n.children, func(i, j int) bool {
		less := compareNodes(n.children[i], n.children[j], criterion)
		if ascending {
			return less
		}
		return compareNodes(n.children[j], n.children[i], criterion)
	})
	for _, c := range n.children {
		c.SortChildren(criterion, ascending)
	}
}

func compareNodes(a, b *Node, criterion SortCriterion) bool {
	switch criterion {
	case SortBySize:
		return statSize(a) < statSize(b)
	case SortByModTime:
		ai, errA := a.Stat()
		bi, errB := b.Stat()
		if errA != nil || errB != nil {
			return errA == nil && errB != nil
		}
		return ai.ModTime().Before(bi.ModTime())
	case SortByExtension:
		ae, be := filepath.Ext(a.path), filepath.Ext(b.path)
		if ae != be {
			return ae < be
		}
		return a.Name() < b.Name()
	default:
		return a.Name() < b.Name()
	}
}

func statSize(n *Node) int64 {
	info, err := n.Stat()
	if err != nil {
		return -1
	}
	return info.Size()
}
