// Package column describes a table's columns and computes their on-disk
// offsets, adapted from l4zy9uy-vqlite's column/column.go and
// table.BuildTableMeta. vqlite's own table has exactly one schema (see
// row.Row), so this package now exists to make that schema's byte layout
// independently checkable rather than to support arbitrary CREATE TABLE
// statements.
package column

import "fmt"

// Type identifies how a column's bytes are interpreted.
type Type int

const (
	TypeInt Type = iota
	TypeText
)

// Column is one field of a schema before offsets are assigned.
type Column struct {
	Name      string
	Type      Type
	MaxLength uint32 // required for TypeText; ignored for TypeInt
}

// Schema is an ordered list of columns, laid out contiguously starting at
// offset 0 with no padding.
type Schema []Column

// Layout is a Column after BuildLayout has assigned it an offset and byte
// width.
type Layout struct {
	Name     string
	Type     Type
	Offset   uint32
	ByteSize uint32
}

// BuildLayout assigns contiguous offsets to each column in order and
// returns the layouts alongside the total row width.
func BuildLayout(schema Schema) ([]Layout, uint32, error) {
	var layouts []Layout
	var offset uint32

	for _, col := range schema {
		switch col.Type {
		case TypeInt:
			layouts = append(layouts, Layout{Name: col.Name, Type: TypeInt, Offset: offset, ByteSize: 4})
			offset += 4
		case TypeText:
			if col.MaxLength == 0 {
				return nil, 0, fmt.Errorf("column: TEXT column %q must have MaxLength > 0", col.Name)
			}
			layouts = append(layouts, Layout{Name: col.Name, Type: TypeText, Offset: offset, ByteSize: col.MaxLength})
			offset += col.MaxLength
		default:
			return nil, 0, fmt.Errorf("column: unsupported type for %q", col.Name)
		}
	}
	if offset == 0 {
		return nil, 0, fmt.Errorf("column: schema must have at least one column")
	}
	return layouts, offset, nil
}
