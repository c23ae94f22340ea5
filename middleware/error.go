package middleware

import "fmt"

// A CallError reports a failed call into the middleware. Construction-time
// call failures abort construction of the owning object; teardown-time
// failures are logged and swallowed by the caller.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("middleware: %s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewCallError wraps err as a failure of the named middleware operation.
func NewCallError(op string, err error) *CallError {
	return &CallError{Op: op, Err: err}
}
