package machine

import (
	"errors"
	"fmt"
)

// Boundary and input faults. Boundary faults are only raised in strict
// mode; input faults are always fatal.
var (
	ErrPointerUnderflow = errors.New("data pointer underflow")
	ErrPointerOverflow  = errors.New("data pointer overflow")
	ErrCellOverflow     = errors.New("data cell overflow")
	ErrCellUnderflow    = errors.New("data cell underflow")
	ErrInputFailed      = errors.New("input read failed")
)

// Fault is a fatal runtime error carrying the source line of the
// instruction that raised it.
type Fault struct {
	Err  error
	Line int
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v on line %d", f.Err, f.Line)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
