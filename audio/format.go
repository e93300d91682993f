// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Format tags the sample layout of a device buffer. The values match the
// OpenAL AL_FORMAT_* enumeration so they can be handed to an AL binding as is.
type Format int

const (
	FormatUnknown Format = 0
	Mono16        Format = 0x1101
	Stereo16      Format = 0x1103
)

// FormatForChannels maps a channel count to its 16-bit device format.
func FormatForChannels(channels int) (Format, error) {
	switch channels {
	case 1:
		return Mono16, nil
	case 2:
		return Stereo16, nil
	}

	return FormatUnknown, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
}

// Channels returns the channel count of f, or 0 for an unknown format.
func (f Format) Channels() int {
	switch f {
	case Mono16:
		return 1
	case Stereo16:
		return 2
	}

	return 0
}

func (f Format) Valid() bool { return f.Channels() > 0 }

func (f Format) String() string {
	switch f {
	case Mono16:
		return "mono16"
	case Stereo16:
		return "stereo16"
	}

	return fmt.Sprintf("format(%#x)", int(f))
}
