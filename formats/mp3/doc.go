// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 resources into 16-bit PCM using
// github.com/hajimehoshi/go-mp3.
//
//	pcm, err := mp3.Decoder{}.Decode(data)
//	if err != nil {
//	    return err
//	}
//	defer pcm.Release()
//
// go-mp3 always produces interleaved stereo, so the PCM has two channels
// even for mono sources. Use audio.Downmix when a mono buffer is needed.
package mp3
