package btree

import "vqlite/row"

// Cursor is a (page, cell) position into a leaf, used for both searching
// and in-order scanning.
type Cursor struct {
	tree       *Tree
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Start returns a cursor positioned at the first cell of the left-most
// leaf. EndOfTable is true immediately if that leaf has no cells (an empty
// table).
func (t *Tree) Start() (*Cursor, error) {
	pageNum := RootPageNum
	for {
		page, err := t.pager.Get(pageNum)
		if err != nil {
			return nil, err
		}
		if nodeType(page) == Leaf {
			break
		}
		pageNum = internalChild(page, 0)
	}
	page, err := t.pager.Get(pageNum)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		tree:       t,
		PageNum:    pageNum,
		CellNum:    0,
		EndOfTable: leafNumCells(page) == 0,
	}, nil
}

// Find descends from the root to the leaf that should contain key, and
// returns a cursor positioned either on a cell holding key (a duplicate) or
// on the slot at which key should be inserted.
func (t *Tree) Find(key uint32) (*Cursor, error) {
	pageNum := RootPageNum
	for {
		page, err := t.pager.Get(pageNum)
		if err != nil {
			return nil, err
		}
		if nodeType(page) == Leaf {
			idx := leafFind(page, key)
			return &Cursor{tree: t, PageNum: pageNum, CellNum: idx}, nil
		}
		pageNum = internalChildForKey(page, key)
	}
}

// Advance moves the cursor to the next cell in key order, following
// next-leaf links across leaf boundaries. It sets EndOfTable once the last
// leaf is exhausted.
func (c *Cursor) Advance() error {
	page, err := c.tree.pager.Get(c.PageNum)
	if err != nil {
		return err
	}
	c.CellNum++
	if c.CellNum < leafNumCells(page) {
		return nil
	}
	next := leafNextLeaf(page)
	if next == 0 {
		c.EndOfTable = true
		return nil
	}
	c.PageNum = next
	c.CellNum = 0
	return nil
}

// Row returns the row at the cursor's current position.
func (c *Cursor) Row() (row.Row, error) {
	page, err := c.tree.pager.Get(c.PageNum)
	if err != nil {
		return row.Row{}, err
	}
	return leafValue(page, c.CellNum)
}
