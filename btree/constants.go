package btree

import (
	"vqlite/pager"
	"vqlite/row"
)

// Common node header layout: every page, leaf or internal, starts with
// these three fields.
const (
	NodeTypeOffset = 0
	NodeTypeSize   = 1

	IsRootOffset = NodeTypeOffset + NodeTypeSize
	IsRootSize   = 1

	ParentPointerOffset = IsRootOffset + IsRootSize
	ParentPointerSize   = 4

	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize // 6
)

// Leaf node header and cell layout.
const (
	LeafNodeNextLeafOffset = CommonNodeHeaderSize
	LeafNodeNextLeafSize   = 4

	LeafNodeNumCellsOffset = LeafNodeNextLeafOffset + LeafNodeNextLeafSize
	LeafNodeNumCellsSize   = 4

	LeafNodeHeaderSize = CommonNodeHeaderSize + LeafNodeNextLeafSize + LeafNodeNumCellsSize // 14

	LeafNodeKeySize   = 4
	LeafNodeKeyOffset = 0
	LeafNodeValueSize = row.Size
	// RowSize is the on-disk row width, re-exported for .constants.
	RowSize = row.Size

	LeafNodeCellSize = LeafNodeKeySize + LeafNodeValueSize // 295

	LeafNodeAvailableCellSpace = pager.PageSize - LeafNodeHeaderSize // 4082

	// LeafNodeMaxCells is fixed by the available space in a page, computed
	// once here rather than per call.
	LeafNodeMaxCells = LeafNodeAvailableCellSpace / LeafNodeCellSize // 13
)

// Internal node header and cell layout. InternalNodeMaxCells is a
// deliberately small, hand-picked cap (not derived from page capacity) so
// that modest test fixtures exercise internal-node splitting.
const (
	InternalNodeNumKeysOffset = CommonNodeHeaderSize
	InternalNodeNumKeysSize   = 4

	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize
	InternalNodeRightChildSize   = 4

	InternalNodeHeaderSize = CommonNodeHeaderSize + InternalNodeNumKeysSize + InternalNodeRightChildSize // 14

	InternalNodeChildSize   = 4
	InternalNodeChildOffset = 0
	InternalNodeKeySize     = 4
	InternalNodeKeyOffset   = InternalNodeChildOffset + InternalNodeChildSize

	InternalNodeCellSize = InternalNodeChildSize + InternalNodeKeySize // 8

	InternalNodeMaxCells = 3
)

const (
	nodeTypeInternal = 0
	nodeTypeLeaf     = 1
)
