// Package btree implements vqlite's on-disk B+-tree: ordered search,
// insertion with leaf/internal split and root creation, and an in-order
// cursor scan. The root page is always page 0 for the life of the tree;
// splitting the root copies its contents to a freshly allocated page and
// reinitializes page 0 as the new root, so no other page ever has to learn
// a new root page number.
package btree

import (
	"sort"

	"vqlite/pager"
	"vqlite/row"
)

// RootPageNum is the fixed page number of the tree's root, for its entire
// lifetime.
const RootPageNum uint32 = 0

// Tree is a B+-tree index backed by a pager.
type Tree struct {
	pager *pager.Pager
}

// New opens the tree rooted at the pager's page 0, initializing a fresh
// empty leaf root if the file has no pages yet.
func New(p *pager.Pager) (*Tree, error) {
	t := &Tree{pager: p}
	if p.NumPages() == 0 {
		page, err := p.Get(RootPageNum)
		if err != nil {
			return nil, err
		}
		initializeLeaf(page)
		setIsRoot(page, true)
	}
	return t, nil
}

func (t *Tree) allocatePage() (uint32, error) {
	// One page number past the highest currently used index; Get handles
	// the allocation when asked for exactly that index.
	pageNum := uint32(t.pager.NumPages())
	if _, err := t.pager.Get(pageNum); err != nil {
		return 0, err
	}
	return pageNum, nil
}

// Insert adds key/r to the tree. It fails with *DuplicateKeyError if key is
// already present; the tree is left unchanged in that case.
func (t *Tree) Insert(key uint32, r row.Row) error {
	c, err := t.Find(key)
	if err != nil {
		return err
	}
	leafPage, err := t.pager.Get(c.PageNum)
	if err != nil {
		return err
	}
	if c.CellNum < leafNumCells(leafPage) && leafKey(leafPage, c.CellNum) == key {
		return &DuplicateKeyError{Key: key}
	}
	return t.leafInsert(c.PageNum, c.CellNum, key, r)
}

func (t *Tree) leafInsert(pageNum uint32, cellNum uint32, key uint32, r row.Row) error {
	page, err := t.pager.Get(pageNum)
	if err != nil {
		return err
	}
	if leafNumCells(page) < LeafNodeMaxCells {
		return leafInsertAt(page, cellNum, key, r)
	}
	return t.leafSplitAndInsert(pageNum, cellNum, key, r)
}

// leafSplitAndInsert splits a full leaf, inserting key/r at the logical
// position insertIdx within the 14-cell virtual sequence (13 existing cells
// plus the new one), and propagates the split upward.
func (t *Tree) leafSplitAndInsert(oldPageNum uint32, insertIdx uint32, key uint32, r row.Row) error {
	oldPage, err := t.pager.Get(oldPageNum)
	if err != nil {
		return err
	}

	n := leafNumCells(oldPage) // == LeafNodeMaxCells
	oldMaxBeforeSplit := leafKey(oldPage, n-1)

	type oldCell struct {
		key uint32
		val [row.Size]byte
	}
	oldCells := make([]oldCell, n)
	for i := uint32(0); i < n; i++ {
		oldCells[i].key = leafKey(oldPage, i)
		copy(oldCells[i].val[:], leafValueBytes(oldPage, i))
	}

	newPageNum, err := t.allocatePage()
	if err != nil {
		return err
	}
	newPage, err := t.pager.Get(newPageNum)
	if err != nil {
		return err
	}
	initializeLeaf(newPage)
	setLeafNextLeaf(newPage, leafNextLeaf(oldPage))
	setLeafNextLeaf(oldPage, newPageNum)
	setParent(newPage, parent(oldPage))

	var newVal [row.Size]byte
	if err := row.Serialize(r, newVal[:]); err != nil {
		return err
	}

	total := n + 1
	splitPoint := (total + 1) / 2 // ceil(total/2): 7 for total=14

	get := func(vi uint32) (uint32, []byte) {
		switch {
		case vi < insertIdx:
			return oldCells[vi].key, oldCells[vi].val[:]
		case vi == insertIdx:
			return key, newVal[:]
		default:
			return oldCells[vi-1].key, oldCells[vi-1].val[:]
		}
	}

	for vi := uint32(0); vi < total; vi++ {
		k, v := get(vi)
		if vi < splitPoint {
			setLeafKey(oldPage, vi, k)
			copy(leafValueBytes(oldPage, vi), v)
		} else {
			idx := vi - splitPoint
			setLeafKey(newPage, idx, k)
			copy(leafValueBytes(newPage, idx), v)
		}
	}
	setLeafNumCells(oldPage, splitPoint)
	setLeafNumCells(newPage, total-splitPoint)

	if isRoot(oldPage) {
		leftPageNum, err := t.allocatePage()
		if err != nil {
			return err
		}
		leftPage, err := t.pager.Get(leftPageNum)
		if err != nil {
			return err
		}
		leftPage.Data = oldPage.Data
		setIsRoot(leftPage, false)
		leftMax, err := maxKey(t.pager, leftPage)
		if err != nil {
			return err
		}
		return t.createNewRoot(oldPageNum, leftPageNum, newPageNum, leftMax)
	}

	parentPageNum := parent(oldPage)
	newMaxAfterSplit, err := maxKey(t.pager, oldPage)
	if err != nil {
		return err
	}
	parentPage, err := t.pager.Get(parentPageNum)
	if err != nil {
		return err
	}
	internalUpdateKey(parentPage, oldMaxBeforeSplit, newMaxAfterSplit)
	return t.internalInsert(parentPageNum, newPageNum)
}

// createNewRoot reinitializes rootPageNum (always page 0) as a fresh
// internal node with a single separator cell pointing at leftPageNum, and
// rightPageNum as its right child. Used both when a leaf root splits and
// when an internal root splits.
func (t *Tree) createNewRoot(rootPageNum, leftPageNum, rightPageNum uint32, key uint32) error {
	rootPage, err := t.pager.Get(rootPageNum)
	if err != nil {
		return err
	}
	for i := range rootPage.Data {
		rootPage.Data[i] = 0
	}
	initializeInternal(rootPage)
	setIsRoot(rootPage, true)
	setInternalNumKeys(rootPage, 1)
	setInternalChild(rootPage, 0, leftPageNum)
	setInternalKey(rootPage, 0, key)
	setInternalRightChild(rootPage, rightPageNum)

	leftPage, err := t.pager.Get(leftPageNum)
	if err != nil {
		return err
	}
	setParent(leftPage, rootPageNum)
	rightPage, err := t.pager.Get(rightPageNum)
	if err != nil {
		return err
	}
	setParent(rightPage, rootPageNum)
	return nil
}

// internalInsert splices childPageNum into parentPageNum's cells (or right
// child), splitting the parent if it is already full.
func (t *Tree) internalInsert(parentPageNum, childPageNum uint32) error {
	parentPage, err := t.pager.Get(parentPageNum)
	if err != nil {
		return err
	}
	childPage, err := t.pager.Get(childPageNum)
	if err != nil {
		return err
	}
	childMax, err := maxKey(t.pager, childPage)
	if err != nil {
		return err
	}
	setParent(childPage, parentPageNum)

	if internalNumKeys(parentPage) < InternalNodeMaxCells {
		n := internalNumKeys(parentPage)
		rightChildPageNum := internalRightChild(parentPage)
		rightChildPage, err := t.pager.Get(rightChildPageNum)
		if err != nil {
			return err
		}
		rightChildMax, err := maxKey(t.pager, rightChildPage)
		if err != nil {
			return err
		}
		if childMax > rightChildMax {
			setInternalChild(parentPage, n, rightChildPageNum)
			setInternalKey(parentPage, n, rightChildMax)
			setInternalNumKeys(parentPage, n+1)
			setInternalRightChild(parentPage, childPageNum)
		} else {
			idx := internalFindChildIndex(parentPage, childMax)
			internalInsertCellAt(parentPage, idx, childPageNum, childMax)
		}
		return nil
	}
	return t.internalSplitAndInsert(parentPageNum, childPageNum, childMax)
}

type splitEntry struct {
	child uint32
	key   uint32
}

// internalSplitAndInsert splits a full internal node, folding its existing
// cells, its right child, and the incoming child into one ordered sequence
// of INTERNAL_NODE_MAX_CELLS+2 entries, then dividing that sequence around
// its middle entry: the middle entry's key is promoted to the grandparent
// (or becomes the new root's single separator), its child becomes the left
// half's right child, and everything past it moves to a new sibling.
func (t *Tree) internalSplitAndInsert(oldPageNum, newChildPageNum, newChildKey uint32) error {
	oldPage, err := t.pager.Get(oldPageNum)
	if err != nil {
		return err
	}
	oldMaxBeforeSplit, err := maxKey(t.pager, oldPage)
	if err != nil {
		return err
	}
	// The child split that led here may already have moved this node's old
	// maximum into the incoming child.
	if newChildKey > oldMaxBeforeSplit {
		oldMaxBeforeSplit = newChildKey
	}

	n := internalNumKeys(oldPage)
	entries := make([]splitEntry, 0, n+1)
	for i := uint32(0); i < n; i++ {
		entries = append(entries, splitEntry{internalChild(oldPage, i), internalKey(oldPage, i)})
	}
	rightChildPageNum := internalRightChild(oldPage)
	rightChildPage, err := t.pager.Get(rightChildPageNum)
	if err != nil {
		return err
	}
	rightChildMax, err := maxKey(t.pager, rightChildPage)
	if err != nil {
		return err
	}
	entries = append(entries, splitEntry{rightChildPageNum, rightChildMax})

	insertPos := sort.Search(len(entries), func(i int) bool { return entries[i].key >= newChildKey })
	entries = append(entries, splitEntry{})
	copy(entries[insertPos+1:], entries[insertPos:len(entries)-1])
	entries[insertPos] = splitEntry{newChildPageNum, newChildKey}

	l := len(entries)
	mid := l / 2
	leftEntries := entries[:mid]
	promoted := entries[mid]
	rightEntries := entries[mid+1 : l-1]
	rightmost := entries[l-1]

	isRootSplit := isRoot(oldPage)

	siblingPageNum, err := t.allocatePage()
	if err != nil {
		return err
	}
	siblingPage, err := t.pager.Get(siblingPageNum)
	if err != nil {
		return err
	}
	initializeInternal(siblingPage)

	var leftPageNum uint32
	var leftPage *pager.Page
	if isRootSplit {
		leftPageNum, err = t.allocatePage()
		if err != nil {
			return err
		}
		leftPage, err = t.pager.Get(leftPageNum)
		if err != nil {
			return err
		}
		leftPage.Data = oldPage.Data
		setIsRoot(leftPage, false)
	} else {
		leftPageNum = oldPageNum
		leftPage = oldPage
	}

	setInternalNumKeys(leftPage, uint32(len(leftEntries)))
	for i, e := range leftEntries {
		setInternalChild(leftPage, uint32(i), e.child)
		setInternalKey(leftPage, uint32(i), e.key)
	}
	setInternalRightChild(leftPage, promoted.child)
	if err := t.reparentAll(leftPageNum, append(append([]splitEntry{}, leftEntries...), promoted)); err != nil {
		return err
	}

	setInternalNumKeys(siblingPage, uint32(len(rightEntries)))
	for i, e := range rightEntries {
		setInternalChild(siblingPage, uint32(i), e.child)
		setInternalKey(siblingPage, uint32(i), e.key)
	}
	setInternalRightChild(siblingPage, rightmost.child)
	if err := t.reparentAll(siblingPageNum, append(append([]splitEntry{}, rightEntries...), rightmost)); err != nil {
		return err
	}

	promotedKey := promoted.key

	if isRootSplit {
		setParent(leftPage, 0)
		setParent(siblingPage, 0)
		return t.createNewRoot(oldPageNum, leftPageNum, siblingPageNum, promotedKey)
	}

	grandparentPageNum := parent(oldPage)
	setParent(siblingPage, grandparentPageNum)

	grandparentPage, err := t.pager.Get(grandparentPageNum)
	if err != nil {
		return err
	}
	leftMax, err := maxKey(t.pager, leftPage)
	if err != nil {
		return err
	}
	internalUpdateKey(grandparentPage, oldMaxBeforeSplit, leftMax)
	return t.internalInsert(grandparentPageNum, siblingPageNum)
}

func (t *Tree) reparentAll(newParent uint32, entries []splitEntry) error {
	for _, e := range entries {
		child, err := t.pager.Get(e.child)
		if err != nil {
			return err
		}
		setParent(child, newParent)
	}
	return nil
}
