package file

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Error carries a client facing detail message and unwraps to one of the
// sentinel kinds above.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }
func (e *Error) Unwrap() error { return e.Kind }

func InvalidInput(detail string) error { return &Error{Kind: ErrInvalidInput, Detail: detail} }
func NotFound(detail string) error     { return &Error{Kind: ErrNotFound, Detail: detail} }
