package btree

import "fmt"

// DuplicateKeyError is returned by Insert when the key is already present.
// It is an ExecuteError in spec terms: printed to the REPL user, and the
// loop continues — it is never fatal.
type DuplicateKeyError struct {
	Key uint32
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key (%d) already exists in table", e.Key)
}
