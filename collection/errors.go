package collection

import (
	"errors"
	"fmt"
)

// ErrReservedField is returned when an update tries to overwrite IDField.
var ErrReservedField = errors.New("field '" + IDField + "' is reserved")

// WriteError reports a hash write that the backend did not acknowledge.
//
// Reply holds the raw backend response. Err is set instead when the write
// failed before the backend could answer.
type WriteError struct {
	Collection string
	ID         int64
	Reply      string
	Err        error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not write record %d for %s: %s", e.ID, e.Collection, e.Err.Error())
	}
	return fmt.Sprintf("could not write record %d for %s. The server says %s", e.ID, e.Collection, e.Reply)
}

func (e *WriteError) Unwrap() error { return e.Err }
