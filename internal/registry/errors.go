package registry

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the registries, the adapters and their callers.
// Match with errors.Is; the concrete error is usually an *OpError.
var (
	ErrArity                 = errors.New("arity mismatch")
	ErrShapeMismatch         = errors.New("shape mismatch")
	ErrDTypeMismatch         = errors.New("dtype mismatch")
	ErrUnsupportedDType      = errors.New("unsupported dtype")
	ErrInplaceNotAllowed     = errors.New("in-place aliasing not allowed")
	ErrInvalidSchema         = errors.New("invalid schema")
	ErrDuplicateSchema       = errors.New("duplicate schema")
	ErrDuplicateRegistration = errors.New("duplicate operator registration")
	ErrDuplicateGradientRule = errors.New("duplicate gradient rule")
	ErrNotFound              = errors.New("operator not found")
	ErrNoGradientDefined     = errors.New("no gradient defined")
	ErrSealed                = errors.New("registry is sealed")
	ErrOverwrittenInput      = errors.New("gradient input overwritten by a later op")
)

// OpError names the operator and the constraint a failure violated.
type OpError struct {
	Op         string // Operator type, e.g. "Tanh"
	Constraint string // What was violated, e.g. "inputs: want 1, got 2"
	Err        error  // One of the sentinel errors above
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Constraint)
}

// Unwrap returns the sentinel error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Errorf builds an *OpError for op wrapping err with a formatted constraint.
func Errorf(op string, err error, format string, args ...any) error {
	return &OpError{Op: op, Constraint: fmt.Sprintf(format, args...), Err: err}
}
