package pager

import (
	"testing"

	"github.com/spf13/afero"
)

func openMem(t *testing.T, path string) *Pager {
	t.Helper()
	p, err := Open(afero.NewMemMapFs(), path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return p
}

// Test opening an empty pager file.
func TestOpenEmptyFile(t *testing.T) {
	p := openMem(t, "empty.db")
	defer p.Close()

	if p.NumPages() != 0 {
		t.Errorf("expected 0 pages, got %d", p.NumPages())
	}
}

// Test that Get beyond TableMaxPages returns an error.
func TestGetPageOutOfBounds(t *testing.T) {
	p := openMem(t, "oob.db")
	defer p.Close()

	if _, err := p.Get(TableMaxPages); err == nil {
		t.Errorf("expected error on Get(%d)", TableMaxPages)
	}
}

// Get on a brand-new page one past EOF allocates it and bumps NumPages.
func TestGetAllocatesNewPage(t *testing.T) {
	p := openMem(t, "alloc.db")
	defer p.Close()

	pg, err := p.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if pg.PageNum != 0 {
		t.Errorf("PageNum = %d, want 0", pg.PageNum)
	}
	if p.NumPages() != 1 {
		t.Errorf("NumPages = %d, want 1", p.NumPages())
	}

	pg2, err := p.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if pg2.PageNum != 1 {
		t.Errorf("PageNum = %d, want 1", pg2.PageNum)
	}
	if p.NumPages() != 2 {
		t.Errorf("NumPages = %d, want 2", p.NumPages())
	}
}

// Writes to a resident page survive Close+reopen against the same fs.
func TestFlushAndReopen(t *testing.T) {
	fs := afero.NewMemMapFs()

	p, err := Open(fs, "roundtrip.db", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pg, err := p.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	pg.Data[0] = 0xAB
	pg.Data[PageSize-1] = 0xCD
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := Open(fs, "roundtrip.db", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p2.Close()

	if p2.NumPages() != 1 {
		t.Fatalf("NumPages = %d, want 1", p2.NumPages())
	}
	pg2, err := p2.Get(0)
	if err != nil {
		t.Fatalf("Get(0) after reopen: %v", err)
	}
	if pg2.Data[0] != 0xAB || pg2.Data[PageSize-1] != 0xCD {
		t.Errorf("round-tripped page contents mismatch")
	}
}

// A file length that isn't a multiple of PageSize is treated as corrupt.
func TestOpenCorruptLength(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := fs.OpenFile("corrupt.db", openFlags, 0600)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.Write(make([]byte, PageSize+17)); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	if _, err := Open(fs, "corrupt.db", nil); err == nil {
		t.Errorf("expected error opening file with corrupt length")
	}
}
