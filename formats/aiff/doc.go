// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF files using github.com/go-audio/aiff.
//
//	pcm, err := aiff.Decoder{}.Decode(data)
//	if err != nil {
//	    return err
//	}
//	defer pcm.Release()
//
// Only 16-bit samples are accepted (ErrOnlyPCM16bitSupported). Samples keep
// the file's channel count and are interleaved.
package aiff
