package tree

import "strings"

// Mode is the expansion policy driving a traversal.
type Mode int

const (
	// ModeUnrestricted expands every directory encountered.
	ModeUnrestricted Mode = iota
	// ModePreloaded expands a directory only if its children are already
	// cached. Never triggers a disk read.
	ModePreloaded
	// ModeDepthLimit expands directories only while their children would
	// stay within Policy.MaxDepth. Deeper directories are leaves for this
	// pass, even when their children are cached.
	ModeDepthLimit
	// ModePreloadedPlusOne expands everything already cached plus exactly
	// one fresh listing at the loaded frontier. Nodes discovered by such a
	// one-shot read are not expanded further.
	ModePreloadedPlusOne
)

// Policy bundles the expansion mode with its parameters.
type Policy struct {
	Mode       Mode
	MaxDepth   int  // used by ModeDepthLimit; children deeper than this are not produced
	ShowHidden bool // when false, dot-entries other than the root are skipped
}

// Entry is one traversal output item: a non-owning node reference plus the
// positional metadata rendering needs. First and Last are recomputed per
// traversal from the loaded child list; they are never persisted on the
// node. Selected is owned by the viewport buffer.
type Entry struct {
	Node     *Node
	Depth    int
	First    bool
	Last     bool
	Selected bool
}

type stackItem struct {
	Entry
	fresh bool // discovered by a one-shot listing this traversal
}

// Cursor is a pull-based pre-order DFS enumerator over a node subtree.
// Children are pushed in reverse so popping reproduces left-to-right
// sibling order. Once exhausted a cursor is dead: a structural change
// means building a new cursor, never resuming an old one.
type Cursor struct {
	stack  []stackItem
	policy Policy
}

// NewCursor starts a traversal at root under the given policy.
func NewCursor(root *Node, policy Policy) *Cursor {
	c := &Cursor{policy: policy}
	if root != nil {
		c.stack = append(c.stack, stackItem{
			Entry: Entry{Node: root, First: true, Last: true},
		})
	}
	return c
}

// Next pops and returns the next entry in pre-order, expanding the popped
// node's children onto the stack when the policy permits. Listing failures
// are swallowed: the node is a leaf for this pass and traversal continues.
// Returns false once the traversal is exhausted.
func (c *Cursor) Next() (Entry, bool) {
	if len(c.stack) == 0 {
		return Entry{}, false
	}
	top := len(c.stack) - 1
	it := c.stack[top]
	c.stack = c.stack[:top]

	if c.shouldExpand(it) {
		wasListed := it.Node.listed
		if kids, err := it.Node.Children(); err == nil {
			c.push(kids, it.Depth+1, !wasListed)
		}
	}
	return it.Entry, true
}

// push places children on the stack in reverse order, computing First/Last
// from the child list as loaded. Hidden entries are dropped here when the
// policy says so, after sibling flags are derived from the visible set.
// fresh marks children that came out of a listing performed during this
// traversal; ModePreloadedPlusOne stops at them.
func (c *Cursor) push(kids []*Node, depth int, fresh bool) {
	visible := kids
	if !c.policy.ShowHidden {
		visible = visible[:0:0]
		for _, k := range kids {
			if !strings.HasPrefix(k.Name(), ".") {
				visible = append(visible, k)
			}
		}
	}
	for i := len(visible) - 1; i >= 0; i-- {
		c.stack = append(c.stack, stackItem{
			Entry: Entry{
				Node:  visible[i],
				Depth: depth,
				First: i == 0,
				Last:  i == len(visible)-1,
			},
			fresh: fresh,
		})
	}
}

func (c *Cursor) shouldExpand(it stackItem) bool {
	if !it.Node.IsDir() {
		return false
	}
	switch c.policy.Mode {
	case ModeUnrestricted:
		return true
	case ModePreloaded:
		return it.Node.listed
	case ModeDepthLimit:
		return it.Depth < c.policy.MaxDepth
	case ModePreloadedPlusOne:
		return it.Node.listed || !it.fresh
	default:
		return false
	}
}
