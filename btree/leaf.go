package btree

import (
	"encoding/binary"
	"sort"

	"vqlite/pager"
	"vqlite/row"
)

func initializeLeaf(p *pager.Page) {
	setNodeType(p, Leaf)
	setIsRoot(p, false)
	setLeafNumCells(p, 0)
	setLeafNextLeaf(p, 0)
}

func leafNumCells(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+LeafNodeNumCellsSize])
}

func setLeafNumCells(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+LeafNodeNumCellsSize], n)
}

func leafNextLeaf(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[LeafNodeNextLeafOffset : LeafNodeNextLeafOffset+LeafNodeNextLeafSize])
}

func setLeafNextLeaf(p *pager.Page, next uint32) {
	binary.LittleEndian.PutUint32(p.Data[LeafNodeNextLeafOffset:LeafNodeNextLeafOffset+LeafNodeNextLeafSize], next)
}

func leafCellOffset(i uint32) uint32 {
	return LeafNodeHeaderSize + i*LeafNodeCellSize
}

func leafKey(p *pager.Page, i uint32) uint32 {
	off := leafCellOffset(i) + LeafNodeKeyOffset
	return binary.LittleEndian.Uint32(p.Data[off : off+LeafNodeKeySize])
}

func setLeafKey(p *pager.Page, i uint32, key uint32) {
	off := leafCellOffset(i) + LeafNodeKeyOffset
	binary.LittleEndian.PutUint32(p.Data[off:off+LeafNodeKeySize], key)
}

func leafValueBytes(p *pager.Page, i uint32) []byte {
	off := leafCellOffset(i) + LeafNodeKeySize
	return p.Data[off : off+LeafNodeValueSize]
}

func leafValue(p *pager.Page, i uint32) (row.Row, error) {
	return row.Deserialize(leafValueBytes(p, i))
}

func setLeafValue(p *pager.Page, i uint32, r row.Row) error {
	return row.Serialize(r, leafValueBytes(p, i))
}

func leafCellBytes(p *pager.Page, i uint32) []byte {
	off := leafCellOffset(i)
	return p.Data[off : off+LeafNodeCellSize]
}

// leafFind binary-searches the leaf's strictly-increasing keys for the
// smallest index i with key(i) >= key. The result is either the index of
// an existing cell with that key (a duplicate) or the index at which key
// should be inserted (possibly equal to numCells, meaning append).
func leafFind(p *pager.Page, key uint32) uint32 {
	n := leafNumCells(p)
	idx := sort.Search(int(n), func(i int) bool {
		return leafKey(p, uint32(i)) >= key
	})
	return uint32(idx)
}

// leafInsertAt shifts cells at positions >= idx right by one slot and
// writes the new key/row at idx. The caller must have already verified
// there is room (numCells < LeafNodeMaxCells).
func leafInsertAt(p *pager.Page, idx uint32, key uint32, r row.Row) error {
	n := leafNumCells(p)
	for i := n; i > idx; i-- {
		copy(leafCellBytes(p, i), leafCellBytes(p, i-1))
	}
	setLeafNumCells(p, n+1)
	setLeafKey(p, idx, key)
	return setLeafValue(p, idx, r)
}
