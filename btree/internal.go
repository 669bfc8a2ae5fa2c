package btree

import (
	"encoding/binary"
	"sort"

	"vqlite/pager"
)

func initializeInternal(p *pager.Page) {
	setNodeType(p, Internal)
	setIsRoot(p, false)
	setInternalNumKeys(p, 0)
	setInternalRightChild(p, 0)
}

func internalNumKeys(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[InternalNodeNumKeysOffset : InternalNodeNumKeysOffset+InternalNodeNumKeysSize])
}

func setInternalNumKeys(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[InternalNodeNumKeysOffset:InternalNodeNumKeysOffset+InternalNodeNumKeysSize], n)
}

func internalRightChild(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[InternalNodeRightChildOffset : InternalNodeRightChildOffset+InternalNodeRightChildSize])
}

func setInternalRightChild(p *pager.Page, child uint32) {
	binary.LittleEndian.PutUint32(p.Data[InternalNodeRightChildOffset:InternalNodeRightChildOffset+InternalNodeRightChildSize], child)
}

func internalCellOffset(i uint32) uint32 {
	return InternalNodeHeaderSize + i*InternalNodeCellSize
}

func internalChild(p *pager.Page, i uint32) uint32 {
	n := internalNumKeys(p)
	if i == n {
		return internalRightChild(p)
	}
	off := internalCellOffset(i) + InternalNodeChildOffset
	return binary.LittleEndian.Uint32(p.Data[off : off+InternalNodeChildSize])
}

func setInternalChild(p *pager.Page, i uint32, child uint32) {
	off := internalCellOffset(i) + InternalNodeChildOffset
	binary.LittleEndian.PutUint32(p.Data[off:off+InternalNodeChildSize], child)
}

func internalKey(p *pager.Page, i uint32) uint32 {
	off := internalCellOffset(i) + InternalNodeKeyOffset
	return binary.LittleEndian.Uint32(p.Data[off : off+InternalNodeKeySize])
}

func setInternalKey(p *pager.Page, i uint32, key uint32) {
	off := internalCellOffset(i) + InternalNodeKeyOffset
	binary.LittleEndian.PutUint32(p.Data[off:off+InternalNodeKeySize], key)
}

func internalCellBytes(p *pager.Page, i uint32) []byte {
	off := internalCellOffset(i)
	return p.Data[off : off+InternalNodeCellSize]
}

// internalFindChildIndex returns the smallest cell index i with
// key(i) >= key, or numKeys if no such cell exists (meaning the right
// child holds the subtree for key).
func internalFindChildIndex(p *pager.Page, key uint32) uint32 {
	n := internalNumKeys(p)
	idx := sort.Search(int(n), func(i int) bool {
		return internalKey(p, uint32(i)) >= key
	})
	return uint32(idx)
}

// internalChildForKey descends one level: returns the child page that
// should contain key.
func internalChildForKey(p *pager.Page, key uint32) uint32 {
	idx := internalFindChildIndex(p, key)
	return internalChild(p, idx)
}

// internalUpdateKey rewrites the separator cell whose key equals oldKey to
// newKey, used when a child's maximum key changes after a split.
func internalUpdateKey(p *pager.Page, oldKey, newKey uint32) {
	n := internalNumKeys(p)
	idx := internalFindChildIndex(p, oldKey)
	if idx < n && internalKey(p, idx) == oldKey {
		setInternalKey(p, idx, newKey)
	}
}

// internalInsertCellAt shifts cells at positions >= idx right by one and
// writes (child, key) at idx. The caller must have already verified there
// is room (numKeys < InternalNodeMaxCells).
func internalInsertCellAt(p *pager.Page, idx uint32, child uint32, key uint32) {
	n := internalNumKeys(p)
	for i := n; i > idx; i-- {
		copy(internalCellBytes(p, i), internalCellBytes(p, i-1))
	}
	setInternalNumKeys(p, n+1)
	setInternalChild(p, idx, child)
	setInternalKey(p, idx, key)
}
