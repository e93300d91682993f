// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis resources into 16-bit PCM.
//
// This package uses github.com/jfreymuth/oggvorbis. It is the default
// decoder of the sndbuf loader.
//
// # Decoding
//
// The whole resource is decoded at once:
//
//	data, _ := os.ReadFile("jump.ogg")
//	pcm, err := vorbis.Decoder{}.Decode(data)
//	if err != nil {
//	    // errors.Is(err, vorbis.ErrInvalidStream)
//	}
//	defer pcm.Release()
//
// The decoder's float32 output in [-1.0, 1.0] is scaled to int16 with
// utils.Float32ToInt16. Stereo samples stay interleaved:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// # Memory
//
// The PCM comes from Decoder.Pool (audio.DefaultPool when nil) and must be
// returned with PCM.Release once it has been copied elsewhere. When the
// stream length is known, the buffer is sized up front.
//
// # Limitations
//
//   - Decoding only, no encoding
//   - No streaming; the resource is decoded in full
package vorbis
