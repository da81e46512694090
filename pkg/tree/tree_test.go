package tree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAscendDescendRoundTrip(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	kids, _ := tr.Root().Children()
	bdir := kids[1]
	bdir.Children()

	if err := tr.Descend(bdir); err != nil {
		t.Fatalf("Descend: %v", err)
	}
	if tr.Root() != bdir {
		t.Fatal("descend did not install target as root")
	}
	if bdir.ParentRef() != nil {
		t.Error("new root must be parentless")
	}

	if !tr.Ascend() {
		t.Fatal("Ascend returned false below the filesystem root")
	}
	if tr.Root().Path() != root {
		t.Errorf("ascend restored root %s, want %s", tr.Root().Path(), root)
	}
	// The node object for bdir must be referentially the same: no
	// duplicate allocation across the round trip.
	if tr.Lookup(bdir.Path()) != bdir {
		t.Error("round trip allocated a duplicate for bdir")
	}
	if !tr.Root().hasChild(bdir) {
		t.Error("bdir missing from restored root's children")
	}
	// And its subtree survived untouched.
	if got := bdir.LoadedChildren(); len(got) != 1 || got[0].Name() != "c" {
		t.Error("bdir's subtree was lost in the round trip")
	}
}

func TestDescendUnreachableTarget(t *testing.T) {
	rootA := makeFixture(t)
	trA := mustTree(t, rootA)
	trB := mustTree(t, makeFixture(t))

	trA.Root().Children()
	stranger := trB.Root()

	if err := trA.Descend(stranger); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign node, got %v", err)
	}

	// Not-yet-loaded descendants are unreachable too: the caller must
	// have loaded the path down to the target first (bdir was never
	// listed here, so a bare node for c is not linked anywhere).
	orphan := trA.node(filepath.Join(rootA, "bdir", "c"))
	if err := trA.Descend(orphan); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unloaded descendant, got %v", err)
	}
}

func TestChangeRootPreservesTargetSubtree(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, root)

	kids, _ := tr.Root().Children()
	a, bdir := kids[0], kids[1]
	bkids, _ := bdir.Children()
	c := bkids[0]

	if err := tr.ChangeRoot(bdir); err != nil {
		t.Fatalf("ChangeRoot: %v", err)
	}

	if got := bdir.LoadedChildren(); len(got) != 1 || got[0] != c {
		t.Error("reroot freed the target's own subtree")
	}
	if tr.Lookup(a.Path()) != nil {
		t.Error("sibling subtree still reachable after reroot")
	}
	if tr.Lookup(root) != nil {
		t.Error("old root still in the index after reroot")
	}
	if tr.Size() != 2 {
		t.Errorf("index should hold exactly bdir and c, has %d nodes", tr.Size())
	}
}

func TestChangeRootToSelfIsNoop(t *testing.T) {
	tr := mustTree(t, makeFixture(t))
	tr.Root().Children()
	before := tr.Size()

	if err := tr.ChangeRoot(tr.Root()); err != nil {
		t.Fatalf("ChangeRoot(root): %v", err)
	}
	if tr.Size() != before {
		t.Error("no-op reroot mutated the tree")
	}
}

func TestChangeRootRejectsAncestor(t *testing.T) {
	root := makeFixture(t)
	tr := mustTree(t, filepath.Join(root, "bdir"))
	bdir := tr.Root()

	parent, err := bdir.Parent()
	if err != nil {
		t.Fatal(err)
	}
	// The parent exists in the tree but is not a descendant of the
	// current root; rerooting to it must be rejected, not free the root
	// out from under itself.
	if err := tr.ChangeRoot(parent); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for ancestor target, got %v", err)
	}
	if tr.Root() != bdir {
		t.Error("rejected reroot still replaced the root")
	}
}

func TestAscendAtFilesystemRoot(t *testing.T) {
	tr := mustTree(t, "/")
	if tr.Ascend() {
		t.Error("Ascend at / must report already-at-top")
	}
	if tr.Root().Path() != "/" {
		t.Error("root changed on a no-op ascend")
	}
}

func TestDeepReroot(t *testing.T) {
	// root/x/y/z: reroot straight from root to z must free x's and y's
	// siblings at every level while keeping z intact.
	root := t.TempDir()
	deep := filepath.Join(root, "x", "y", "z")
	mkdirAll(t, deep)
	mkdirAll(t, filepath.Join(root, "sib1"))
	mkdirAll(t, filepath.Join(root, "x", "sib2"))
	mkdirAll(t, filepath.Join(root, "x", "y", "sib3"))

	tr := mustTree(t, root)
	n := tr.Root()
	var z *Node
	for _, name := range []string{"x", "y", "z"} {
		kids, err := n.Children()
		if err != nil {
			t.Fatal(err)
		}
		n = nil
		for _, k := range kids {
			if k.Name() == name {
				n = k
			}
		}
		if n == nil {
			t.Fatalf("missing %s", name)
		}
		z = n
	}

	if err := tr.ChangeRoot(z); err != nil {
		t.Fatalf("ChangeRoot: %v", err)
	}
	for _, gone := range []string{
		filepath.Join(root, "sib1"),
		filepath.Join(root, "x", "sib2"),
		filepath.Join(root, "x", "y", "sib3"),
		filepath.Join(root, "x"),
		root,
	} {
		if tr.Lookup(gone) != nil {
			t.Errorf("%s survived the reroot", gone)
		}
	}
	if tr.Root() != z || z.ParentRef() != nil {
		t.Error("z is not the parentless root")
	}
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}
