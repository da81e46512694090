package tree

import (
	"os"
	"path/filepath"
	"testing"
)

func collect(c *Cursor) []Entry {
	var out []Entry
	for {
		e, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}

func TestPreOrderUnrestricted(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModeUnrestricted}))

	want := []struct {
		name  string
		depth int
		first bool
		last  bool
	}{
		{filepath.Base(root), 0, true, true},
		{"a", 1, true, false},
		{"bdir", 1, false, true},
		{"c", 2, true, true},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		e := entries[i]
		if e.Node.Name() != w.name || e.Depth != w.depth || e.First != w.first || e.Last != w.last {
			t.Errorf("entry %d = %s depth=%d first=%v last=%v, want %+v",
				i, e.Node.Name(), e.Depth, e.First, e.Last, w)
		}
	}
}

func TestDepthLimitTreatsDeepDirsAsLeaves(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	// Cache bdir's children first: the limit must hold even then.
	kids, _ := tr.Root().Children()
	if _, err := kids[1].Children(); err != nil {
		t.Fatal(err)
	}

	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModeDepthLimit, MaxDepth: 1}))
	for _, e := range entries {
		if e.Node.Name() == "c" {
			t.Fatal("depth limit 1 must not produce grandchildren")
		}
	}
	if len(entries) != 3 {
		t.Errorf("expected root+2 children, got %d entries", len(entries))
	}
}

func TestPreloadedNeverReadsDisk(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModePreloaded}))
	if len(entries) != 1 {
		t.Fatalf("unlisted root must be a leaf under ModePreloaded, got %d entries", len(entries))
	}
	if tr.Root().Listed() {
		t.Error("ModePreloaded listed a directory")
	}

	tr.Root().Children()
	entries = collect(NewCursor(tr.Root(), Policy{Mode: ModePreloaded}))
	if len(entries) != 3 {
		t.Errorf("expected root+2 loaded children, got %d", len(entries))
	}
	if tr.Lookup(filepath.Join(root, "bdir")).Listed() {
		t.Error("ModePreloaded listed an unlisted child directory")
	}
}

func TestPreloadedPlusOneDeepensFrontierByOneLevel(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	// Pass 1: only the root gets its one-shot listing; the children it
	// discovers stay unexpanded.
	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModePreloadedPlusOne}))
	if len(entries) != 3 {
		t.Fatalf("first pass: got %d entries, want 3", len(entries))
	}
	bdir := tr.Lookup(filepath.Join(root, "bdir"))
	if bdir.Listed() {
		t.Fatal("first pass must not list freshly discovered directories")
	}

	// Pass 2: the frontier moved down one level, so bdir gets listed now.
	entries = collect(NewCursor(tr.Root(), Policy{Mode: ModePreloadedPlusOne}))
	if len(entries) != 4 {
		t.Fatalf("second pass: got %d entries, want 4", len(entries))
	}
	if !bdir.Listed() {
		t.Error("second pass should have listed bdir")
	}
}

func TestListingFailureBecomesLeaf(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	// Replace bdir in the live tree with a node whose path is a file;
	// expansion must swallow the failure and continue with a.
	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModeUnrestricted}))
	if len(entries) != 4 {
		t.Fatalf("fixture traversal wrong: %d entries", len(entries))
	}

	// Now race-delete bdir's contents and bdir itself after the root is
	// listed but before bdir expands.
	tr2 := mustTree(t, root)
	tr2.Root().Children()
	if err := os.RemoveAll(filepath.Join(root, "bdir")); err != nil {
		t.Fatal(err)
	}
	entries = collect(NewCursor(tr2.Root(), Policy{Mode: ModeUnrestricted}))
	// bdir still appears (it was in the listing snapshot) but yields no
	// children and kills nothing else.
	if len(entries) != 3 {
		t.Errorf("got %d entries after race deletion, want 3", len(entries))
	}
}

func TestSymlinkedDirectoriesAreNotFollowed(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "real"), 0o755); err != nil {
		t.Fatal(err)
	}
	// A self-referential symlink loop: root/real/loop -> root
	if err := os.Symlink(root, filepath.Join(root, "real", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tr := mustTree(t, root)
	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModeUnrestricted}))
	// root, real, loop - and no infinite descent through the loop.
	if len(entries) != 3 {
		t.Fatalf("symlink dir was followed: %d entries", len(entries))
	}
}

func TestHiddenEntriesFiltered(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{".hidden", "visible", ".git"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	tr := mustTree(t, root)

	entries := collect(NewCursor(tr.Root(), Policy{Mode: ModeUnrestricted}))
	if len(entries) != 2 {
		t.Fatalf("hidden entries leaked: %d entries", len(entries))
	}
	// The only visible child is both first and last of its sibling set.
	if !entries[1].First || !entries[1].Last {
		t.Error("sibling flags must be computed over the visible set")
	}

	entries = collect(NewCursor(tr.Root(), Policy{Mode: ModeUnrestricted, ShowHidden: true}))
	if len(entries) != 4 {
		t.Errorf("ShowHidden: got %d entries, want 4", len(entries))
	}
}

func TestExhaustionIsTerminal(t *testing.T) {
	tr := mustTree(t, t.TempDir())
	c := NewCursor(tr.Root(), Policy{Mode: ModeUnrestricted})
	collect(c)
	if _, ok := c.Next(); ok {
		t.Error("exhausted cursor yielded another entry")
	}
}
