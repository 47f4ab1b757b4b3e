package animation

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownWidget   = errors.New("animation: unknown widget type")
	ErrDuplicateWidget = errors.New("animation: widget type already registered")
	ErrFieldIDRequired = errors.New("animation: field id required")
	ErrFieldIDReserved = errors.New("animation: field id collides with a reserved token")
	ErrFieldIDInvalid  = errors.New("animation: field id contains surrounding space or one of | = [ ]")
	ErrFieldDuplicate  = errors.New("animation: duplicate field id")
)

// NotFoundError is returned when a definition or binding cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
