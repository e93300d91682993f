// SPDX-License-Identifier: EPL-2.0

package sndbuf

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound indicates the resource could not be located or read.
	ErrResourceNotFound = errors.New("resource unavailable")

	// ErrDecode indicates the resource bytes are not valid encoded audio.
	ErrDecode = errors.New("decode failed")

	// ErrUnsupportedFormat indicates a channel count the device cannot take.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrConvert indicates a resample or downmix step failed.
	ErrConvert = errors.New("conversion failed")

	// ErrDevice indicates the device failed to allocate or fill a buffer.
	ErrDevice = errors.New("audio device error")

	ErrNilStore      = errors.New("resource store is required")
	ErrNilDevice     = errors.New("audio device is required")
	ErrInvalidOption = errors.New("invalid loader option")
)

// LoadError describes a failed Load. Err wraps both the category sentinel
// and the underlying cause.
type LoadError struct {
	Op       string // read, decode, convert, format, alloc, upload
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("sndbuf: %s %q: %v", e.Op, e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func newLoadError(op, resource string, kind, cause error) *LoadError {
	return &LoadError{
		Op:       op,
		Resource: resource,
		Err:      fmt.Errorf("%w: %w", kind, cause),
	}
}
