// Package pager owns the on-disk byte layout of a vqlite database file: a
// flat sequence of fixed-size pages, cached in a bounded set of in-memory
// slots and written back on close.
package pager

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const openFlags = os.O_RDWR | os.O_CREATE

const (
	// PageSize is the fixed size, in bytes, of every page in the file.
	PageSize = 4096
	// TableMaxPages bounds how many page slots the pager will ever hold
	// resident at once. There is no eviction: once full, Get fails.
	TableMaxPages = 100
)

// Page is a single resident 4096-byte buffer, indexed by its page number in
// the backing file.
type Page struct {
	Data    [PageSize]byte
	PageNum uint32
}

// Pager owns the file handle, the file's current length in pages, and the
// fixed-capacity slot array. It does not track a dirty bit: every resident
// page is flushed on Close, since all writes happen through a page that the
// pager itself handed out.
type Pager struct {
	file     afero.File
	numPages int
	pages    [TableMaxPages]*Page
	log      *zap.Logger
}

// Open opens path for read/write, creating it if it does not exist, and
// computes the current page count from the file's length. A length that is
// not an exact multiple of PageSize indicates a corrupt file and is a fatal
// error.
func Open(fs afero.Fs, path string, log *zap.Logger) (*Pager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := fs.OpenFile(path, openFlags, 0600)
	if err != nil {
		log.Error("open database file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("pager: open %q: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		log.Error("stat database file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("pager: stat %q: %w", path, err)
	}
	fileLength := fi.Size()
	if fileLength%PageSize != 0 {
		err := fmt.Errorf("pager: %q has length %d, not a multiple of page size %d (corrupt file)", path, fileLength, PageSize)
		log.Error("corrupt database file", zap.String("path", path), zap.Int64("length", fileLength))
		return nil, err
	}
	return &Pager{
		file:     f,
		numPages: int(fileLength / PageSize),
		log:      log,
	}, nil
}

// NumPages reports how many pages the file currently spans.
func (p *Pager) NumPages() int { return p.numPages }

// Get returns a mutable view of page pageNum, lazily loading it from disk
// (or zero-initializing it, if pageNum is exactly one past the current end
// of file) on first access.
func (p *Pager) Get(pageNum uint32) (*Page, error) {
	if pageNum >= TableMaxPages {
		err := fmt.Errorf("pager: page %d out of bounds (max %d pages)", pageNum, TableMaxPages)
		p.log.Error("page out of bounds", zap.Uint32("page", pageNum))
		return nil, err
	}
	if p.pages[pageNum] == nil {
		pg := &Page{PageNum: pageNum}
		if int(pageNum) < p.numPages {
			if err := p.readPage(pg); err != nil {
				p.log.Error("read page", zap.Uint32("page", pageNum), zap.Error(err))
				return nil, err
			}
		}
		if int(pageNum) == p.numPages {
			p.numPages++
		}
		p.pages[pageNum] = pg
	}
	return p.pages[pageNum], nil
}

func (p *Pager) readPage(pg *Page) error {
	off := int64(pg.PageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("pager: seek page %d: %w", pg.PageNum, err)
	}
	if _, err := io.ReadFull(p.file, pg.Data[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("pager: read page %d: %w", pg.PageNum, err)
	}
	return nil
}

// Flush writes the resident page pageNum back to its slot in the file. It
// is a fatal error to flush a slot that has never been loaded.
func (p *Pager) Flush(pageNum uint32) error {
	pg := p.pages[pageNum]
	if pg == nil {
		return fmt.Errorf("pager: flush page %d: no such page resident", pageNum)
	}
	off := int64(pageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("pager: seek page %d: %w", pageNum, err)
	}
	if _, err := p.file.Write(pg.Data[:]); err != nil {
		return fmt.Errorf("pager: write page %d: %w", pageNum, err)
	}
	return nil
}

// Close flushes every resident page, in ascending page-number order, then
// closes the underlying file. The REPL calls it on `.exit` and at end of
// input; a Fatal-class error exits the process without calling it.
func (p *Pager) Close() error {
	for i := 0; i < p.numPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(uint32(i)); err != nil {
			p.log.Error("flush page on close", zap.Int("page", i), zap.Error(err))
			return err
		}
	}
	if err := p.file.Close(); err != nil {
		return fmt.Errorf("pager: close: %w", err)
	}
	return nil
}
