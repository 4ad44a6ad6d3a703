package object

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a missing object.
var ErrNotFound = errors.New("object not found")

// ErrFormat reports a malformed object, header, or codec payload.
var ErrFormat = errors.New("malformed object")

// ErrIntegrity reports a declared payload length that does not match the
// actual byte count.
var ErrIntegrity = errors.New("object length mismatch")

func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
