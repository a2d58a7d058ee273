package migrate

import (
	"fmt"

	"scylla-migration/internal/source"
)

// UnitError is the failure of one unit of work: one source row and every
// write that depends on it.
type UnitError struct {
	Kind source.Kind
	ID   string
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("migrate %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

func unitErr(kind source.Kind, id string, err error) error {
	return &UnitError{Kind: kind, ID: id, Err: err}
}
