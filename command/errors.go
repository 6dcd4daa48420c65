package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported matches every UnsupportedOperationError
	ErrUnsupported = errors.New("operation not supported")

	// ErrInvalidConnectionType matches every InvalidConnectionTypeError
	ErrInvalidConnectionType = errors.New("invalid connection type")
)

// UnsupportedOperationError is returned by the parameter and prepare surface.
// Statements are always fully textual.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported: statements are executed as plain text", e.Op)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}

// InvalidConnectionTypeError is returned when a command is handed something
// other than a session.Session.
type InvalidConnectionTypeError struct {
	Type string
}

func (e *InvalidConnectionTypeError) Error() string {
	return fmt.Sprintf("connection must be a session.Session, got %s", e.Type)
}

func (e *InvalidConnectionTypeError) Is(target error) bool {
	return target == ErrInvalidConnectionType
}
