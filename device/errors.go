// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrUnknownBuffer = errors.New("unknown buffer")
	ErrInvalidFormat = errors.New("invalid buffer format")
	ErrInvalidRate   = errors.New("invalid sample rate")
	ErrMisaligned    = errors.New("sample count is not a multiple of the channel count")
	ErrExhausted     = errors.New("buffer names exhausted")
)
