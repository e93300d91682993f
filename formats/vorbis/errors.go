// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	// ErrInvalidStream indicates the data is not a decodable Ogg Vorbis stream
	ErrInvalidStream = errors.New("invalid ogg vorbis stream")
)
