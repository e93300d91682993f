// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM primitives shared by the decoders, the
// devices and the loader.
//
// This package contains:
//   - PCM, an interleaved 16-bit sample block owned by a Pool
//   - Pool, the allocator decoders take PCM memory from
//   - Format, the device sample layout (Mono16, Stereo16)
//   - Decoder and Registry for decoder selection
//   - Resample and Downmix conversions
//
// # Ownership
//
// A PCM is bound to the Pool it came from. Release hands the memory back to
// that pool and nowhere else, and it succeeds only once:
//
//	pcm, err := decoder.Decode(data)
//	if err != nil {
//	    return err
//	}
//	defer pcm.Release()
//
// After Release the samples must not be touched. A second Release returns
// ErrReleased.
//
// # Formats
//
// Format values match the OpenAL AL_FORMAT_MONO16 and AL_FORMAT_STEREO16
// constants. FormatForChannels maps a channel count to a Format and fails
// with ErrUnsupportedChannels for anything but 1 or 2.
//
// # Conversions
//
// Resample changes the sample rate with Catmull-Rom cubic interpolation, and
// applies a one-pole low-pass filter first when downsampling:
//
//	out, err := audio.Resample(pcm, 44100)
//
// Downmix averages all channels into one:
//
//	mono, err := audio.Downmix(pcm)
//
// Both return a new PCM from the input's pool; the caller releases both.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("ogg", vorbis.Decoder{})
//	decoder, ok := registry.Lookup("sounds/jump.ogg")
package audio
