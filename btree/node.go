package btree

import (
	"encoding/binary"

	"vqlite/pager"
)

// NodeType distinguishes a leaf page from an internal page.
type NodeType uint8

const (
	Internal NodeType = nodeTypeInternal
	Leaf     NodeType = nodeTypeLeaf
)

func nodeType(p *pager.Page) NodeType {
	return NodeType(p.Data[NodeTypeOffset])
}

func setNodeType(p *pager.Page, t NodeType) {
	p.Data[NodeTypeOffset] = byte(t)
}

func isRoot(p *pager.Page) bool {
	return p.Data[IsRootOffset] == 1
}

func setIsRoot(p *pager.Page, root bool) {
	if root {
		p.Data[IsRootOffset] = 1
	} else {
		p.Data[IsRootOffset] = 0
	}
}

func parent(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[ParentPointerOffset : ParentPointerOffset+ParentPointerSize])
}

func setParent(p *pager.Page, parentPage uint32) {
	binary.LittleEndian.PutUint32(p.Data[ParentPointerOffset:ParentPointerOffset+ParentPointerSize], parentPage)
}

// maxKey returns the largest key stored in the subtree rooted at p: for a
// leaf, its last cell's key. For an internal node, the last cell's key
// only bounds the second-to-last child's subtree; the true maximum lives
// under its right child, so this recurses down the right-child spine to
// the right-most leaf.
func maxKey(pgr *pager.Pager, p *pager.Page) (uint32, error) {
	for nodeType(p) == Internal {
		next, err := pgr.Get(internalRightChild(p))
		if err != nil {
			return 0, err
		}
		p = next
	}
	n := leafNumCells(p)
	return leafKey(p, n-1), nil
}
