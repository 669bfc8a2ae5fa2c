package btree

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"

	"vqlite/pager"
	"vqlite/row"
)

func openTree(t *testing.T, fs afero.Fs, path string) *Tree {
	t.Helper()
	p, err := pager.Open(fs, path, nil)
	if err != nil {
		t.Fatalf("pager.Open: %v", err)
	}
	tree, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tree
}

func scan(t *testing.T, tree *Tree) []row.Row {
	t.Helper()
	c, err := tree.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	var got []row.Row
	for !c.EndOfTable {
		r, err := c.Row()
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		got = append(got, r)
		if err := c.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	return got
}

func insertRow(t *testing.T, tree *Tree, id uint32) {
	t.Helper()
	r := row.Row{ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id)}
	if err := tree.Insert(id, r); err != nil {
		t.Fatalf("Insert(%d): %v", id, err)
	}
}

// Property 1: round-trip for a finite sequence of distinct-key inserts.
func TestRoundTripOutOfOrderInserts(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := openTree(t, fs, "roundtrip.db")

	keys := []uint32{50, 10, 70, 30, 60, 20, 40}
	for _, k := range keys {
		insertRow(t, tree, k)
	}

	got := scan(t, tree)
	want := []uint32{10, 20, 30, 40, 50, 60, 70}
	if len(got) != len(want) {
		t.Fatalf("scan returned %d rows, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("row %d: id = %d, want %d", i, got[i].ID, id)
		}
		if got[i].Username != fmt.Sprintf("user%d", id) {
			t.Errorf("row %d: username = %q", i, got[i].Username)
		}
	}
}

// Property 2: duplicate rejection leaves the tree unaltered.
func TestDuplicateKeyRejected(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := openTree(t, fs, "dup.db")

	insertRow(t, tree, 1)
	err := tree.Insert(1, row.Row{ID: 1, Username: "dup", Email: "dup@example.com"})
	if err == nil {
		t.Fatal("expected duplicate-key error")
	}
	var dupErr *DuplicateKeyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error = %v, want *DuplicateKeyError", err)
	}
	if dupErr.Key != 1 {
		t.Errorf("DuplicateKeyError.Key = %d, want 1", dupErr.Key)
	}

	got := scan(t, tree)
	if len(got) != 1 {
		t.Fatalf("row count = %d after rejected duplicate, want 1", len(got))
	}
}

// Property 3: inserts committed in one process run are visible in a
// subsequent run against the same backing file.
func TestPersistenceAcrossReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	p1, err := pager.Open(fs, "persist.db", nil)
	if err != nil {
		t.Fatalf("pager.Open: %v", err)
	}
	tree1, err := New(p1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	insertRow(t, tree1, 1)
	insertRow(t, tree1, 2)
	if err := p1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := pager.Open(fs, "persist.db", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	tree2, err := New(p2)
	if err != nil {
		t.Fatalf("New on reopen: %v", err)
	}
	got := scan(t, tree2)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("rows after reopen = %+v, want ids [1 2]", got)
	}
}

// S3: 14 sequential inserts (0..13) cause a leaf split into a two-level
// tree: internal (size 1), left leaf {0..6}, right leaf {7..13}, separator
// key 6.
func TestLeafSplitProducesTwoLevelTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := openTree(t, fs, "split.db")

	for i := uint32(0); i < 14; i++ {
		insertRow(t, tree, i)
	}

	out, err := tree.Print()
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := "- internal (size 1)\n" +
		"  - leaf (size 7)\n" +
		"    - 0\n" +
		"    - 1\n" +
		"    - 2\n" +
		"    - 3\n" +
		"    - 4\n" +
		"    - 5\n" +
		"    - 6\n" +
		"  - key 6\n" +
		"  - leaf (size 7)\n" +
		"    - 7\n" +
		"    - 8\n" +
		"    - 9\n" +
		"    - 10\n" +
		"    - 11\n" +
		"    - 12\n" +
		"    - 13\n"
	if out != want {
		t.Errorf(".btree output mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}

	got := scan(t, tree)
	if len(got) != 14 {
		t.Fatalf("row count = %d, want 14", len(got))
	}
	for i, r := range got {
		if r.ID != uint32(i) {
			t.Errorf("row %d: id = %d, want %d", i, r.ID, i)
		}
	}
}

func TestConstants(t *testing.T) {
	want := "ROW_SIZE: 291\n" +
		"COMMON_NODE_HEADER_SIZE: 6\n" +
		"LEAF_NODE_HEADER_SIZE: 14\n" +
		"LEAF_NODE_CELL_SIZE: 295\n" +
		"LEAF_NODE_AVAILABLE_CELL_SPACE: 4082\n" +
		"LEAF_NODE_MAX_CELLS: 13\n" +
		"INTERNAL_NODE_CELL_SIZE: 8\n" +
		"INTERNAL_NODE_MAX_CELLS: 3"
	if got := Constants(); got != want {
		t.Errorf("Constants() =\n%s\nwant:\n%s", got, want)
	}
}
