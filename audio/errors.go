// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrReleased            = errors.New("pcm buffer already released")
	ErrInvalidChannels     = errors.New("channel count must be positive")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	ErrMisaligned          = errors.New("sample count must be multiple of channels")
)
