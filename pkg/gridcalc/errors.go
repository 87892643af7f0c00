package gridcalc

import (
	"errors"
	"fmt"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// EditError reports a rejected write to a cell.
type EditError struct {
	Address models.Address
	Op      string // "set", "apply", "load"
	Err     error
}

func (e *EditError) Error() string {
	label := ref.FormatAddress(e.Address)
	if !e.Address.Valid() {
		label = fmt.Sprintf("(%d, %d)", e.Address.Row, e.Address.Col)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, label, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

// NewEditError creates a new EditError.
func NewEditError(a models.Address, op string, err error) *EditError {
	return &EditError{
		Address: a,
		Op:      op,
		Err:     err,
	}
}
