package btree

import (
	"fmt"
	"strings"
)

// Print renders the whole tree as an indented outline, the way `.btree`
// does: each level of nesting is indented two more spaces than its parent.
func (t *Tree) Print() (string, error) {
	var b strings.Builder
	if err := t.printNode(&b, RootPageNum, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func indent(b *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		b.WriteString("  ")
	}
}

func (t *Tree) printNode(b *strings.Builder, pageNum uint32, level int) error {
	page, err := t.pager.Get(pageNum)
	if err != nil {
		return err
	}
	if nodeType(page) == Leaf {
		n := leafNumCells(page)
		indent(b, level)
		fmt.Fprintf(b, "- leaf (size %d)\n", n)
		for i := uint32(0); i < n; i++ {
			indent(b, level+1)
			fmt.Fprintf(b, "- %d\n", leafKey(page, i))
		}
		return nil
	}

	n := internalNumKeys(page)
	indent(b, level)
	fmt.Fprintf(b, "- internal (size %d)\n", n)
	for i := uint32(0); i < n; i++ {
		if err := t.printNode(b, internalChild(page, i), level+1); err != nil {
			return err
		}
		indent(b, level+1)
		fmt.Fprintf(b, "- key %d\n", internalKey(page, i))
	}
	return t.printNode(b, internalRightChild(page), level+1)
}

// Constants renders the `.constants` layout report, in the exact order and
// wording spec.md §6 fixes.
func Constants() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(&b, "COMMON_NODE_HEADER_SIZE: %d\n", CommonNodeHeaderSize)
	fmt.Fprintf(&b, "LEAF_NODE_HEADER_SIZE: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(&b, "LEAF_NODE_CELL_SIZE: %d\n", LeafNodeCellSize)
	fmt.Fprintf(&b, "LEAF_NODE_AVAILABLE_CELL_SPACE: %d\n", LeafNodeAvailableCellSpace)
	fmt.Fprintf(&b, "LEAF_NODE_MAX_CELLS: %d\n", LeafNodeMaxCells)
	fmt.Fprintf(&b, "INTERNAL_NODE_CELL_SIZE: %d\n", InternalNodeCellSize)
	fmt.Fprintf(&b, "INTERNAL_NODE_MAX_CELLS: %d\n", InternalNodeMaxCells)
	return strings.TrimRight(b.String(), "\n")
}
