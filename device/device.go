// SPDX-License-Identifier: EPL-2.0

package device

import (
	"github.com/ik5/sndbuf/audio"
)

// BufferID names a buffer held by a device.
type BufferID uint32

// NoBuffer is never handed out by a device.
const NoBuffer BufferID = 0

// Device is the audio subsystem side of the loader: it allocates buffer
// names and accepts sample uploads into them.
type Device interface {
	// GenBuffer allocates a new, empty buffer.
	GenBuffer() (BufferID, error)
	// BufferData copies samples into the buffer. The device must not keep
	// a reference to samples after returning.
	BufferData(id BufferID, format audio.Format, samples []int16, sampleRate int) error
}

// Deleter is implemented by devices that can free a buffer name.
type Deleter interface {
	DeleteBuffer(id BufferID) error
}
