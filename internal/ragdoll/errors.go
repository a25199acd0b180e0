package ragdoll

import "fmt"

// Error is a precondition failure meant for the user. Operators report its
// message and cancel; every other error is returned to the caller.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
