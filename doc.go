// SPDX-License-Identifier: EPL-2.0

// Package sndbuf loads compressed audio resources into device sample buffers.
//
// A Loader reads a resource from a resource.Store, decodes it to 16-bit PCM
// and uploads the samples into a freshly allocated buffer of a device.Device.
// The returned device.BufferID belongs to the caller.
//
// # Quick Start
//
//	bank := device.NewBank()
//	loader, err := sndbuf.New(resource.Dir("assets"), bank)
//	if err != nil {
//		return err
//	}
//
//	id, err := loader.Load("sounds/click.ogg")
//	if err != nil {
//		return err
//	}
//
// # Supported Formats
//
// Ogg Vorbis is decoded by default via formats/vorbis. WithRegistry picks a
// decoder by file extension instead:
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// Mono audio is uploaded as audio.Mono16 and stereo as audio.Stereo16. Other
// channel counts fail with ErrUnsupportedFormat unless WithDownmix is set.
//
// # Conversion
//
// WithDownmix and WithTargetRate convert the decoded samples before upload,
// using audio.Downmix and audio.Resample.
//
// # Errors
//
// Load failures are *LoadError values. Use errors.Is with
// ErrResourceNotFound, ErrDecode, ErrConvert, ErrUnsupportedFormat or
// ErrDevice to tell them apart. The underlying cause stays in the chain too.
//
// # Memory
//
// Encoded bytes and decoded samples are pooled. Load releases every
// intermediate buffer before returning, on success and on failure.
package sndbuf
