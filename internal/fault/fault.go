// Package fault defines the error taxonomy shared by the viewer packages.
package fault

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks setup problems that cannot be fixed at runtime:
// an empty texture set, zero-sized images, a degenerate card or invalid settings.
var ErrConfiguration = errors.New("configuration error")

// ErrIndexOutOfRange marks a broken invariant between the blend computation
// and the texture set. It is a programming error, never user-facing.
var ErrIndexOutOfRange = errors.New("index out of range")

// AssetLoadError reports a texture that failed to load during startup.
type AssetLoadError struct {
	Index int
	Path  string
	Err   error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading texture %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// Configf returns an error wrapping ErrConfiguration.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IndexErrorf returns an error wrapping ErrIndexOutOfRange.
func IndexErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIndexOutOfRange, fmt.Sprintf(format, args...))
}
