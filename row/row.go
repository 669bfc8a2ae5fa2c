// Package row defines vqlite's single fixed row schema and its byte-exact
// serialization, adapted from l4zy9uy-vqlite's generic column/row codec
// down to the one schema this table ever stores.
package row

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Column offsets and widths, contiguous with no padding. A column.Schema
// built from these three columns (id: int, username: text(32), email:
// text(255)) would compute exactly these offsets; they are spelled out
// here as constants because the table's schema is fixed for the life of
// the program.
const (
	IDOffset = 0
	IDSize   = 4

	UsernameOffset    = IDOffset + IDSize
	MaxUsernameLength = 32

	EmailOffset    = UsernameOffset + MaxUsernameLength
	MaxEmailLength = 255

	// Size is the total on-disk width of a row: 4 + 32 + 255.
	Size = EmailOffset + MaxEmailLength
)

// Row is one record: a numeric primary key plus two NUL-terminated string
// fields.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Serialize writes r into dst, which must be exactly Size bytes. Username
// and Email are copied left-justified into their fixed-width fields; any
// remaining bytes in the field are left zero, which Deserialize strips as
// the C-string terminator.
func Serialize(r Row, dst []byte) error {
	if len(dst) != Size {
		return fmt.Errorf("row: serialize: dst has %d bytes, want %d", len(dst), Size)
	}
	if len(r.Username) > MaxUsernameLength {
		return fmt.Errorf("row: username %q exceeds %d bytes", r.Username, MaxUsernameLength)
	}
	if len(r.Email) > MaxEmailLength {
		return fmt.Errorf("row: email %q exceeds %d bytes", r.Email, MaxEmailLength)
	}

	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[IDOffset:IDOffset+IDSize], r.ID)
	copy(dst[UsernameOffset:UsernameOffset+MaxUsernameLength], r.Username)
	copy(dst[EmailOffset:EmailOffset+MaxEmailLength], r.Email)
	return nil
}

// Deserialize reads a Row out of src, which must be exactly Size bytes.
func Deserialize(src []byte) (Row, error) {
	if len(src) != Size {
		return Row{}, fmt.Errorf("row: deserialize: src has %d bytes, want %d", len(src), Size)
	}
	id := binary.LittleEndian.Uint32(src[IDOffset : IDOffset+IDSize])
	username := trimNUL(src[UsernameOffset : UsernameOffset+MaxUsernameLength])
	email := trimNUL(src[EmailOffset : EmailOffset+MaxEmailLength])
	return Row{ID: id, Username: username, Email: email}, nil
}

func trimNUL(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}

// Format renders a row the way SELECT prints it: "<id> <username> <email>".
func (r Row) Format() string {
	return fmt.Sprintf("%d %s %s", r.ID, r.Username, r.Email)
}
