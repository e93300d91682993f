// SPDX-License-Identifier: EPL-2.0

// Package pcmconv fills PCM buffers from go-audio integer buffers.
package pcmconv

import (
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sndbuf/audio"
)

// AppendInts appends 16-bit integer samples to pcm, clamping stray values.
func AppendInts(pcm *audio.PCM, data []int) {
	var chunk [1024]int16

	for len(data) > 0 {
		n := min(len(data), len(chunk))
		for i, v := range data[:n] {
			chunk[i] = int16(min(max(v, math.MinInt16), math.MaxInt16))
		}

		pcm.Append(chunk[:n]...)
		data = data[n:]
	}
}

// FromIntBuffer copies a 16-bit go-audio buffer into a PCM from pool.
func FromIntBuffer(pool *audio.Pool, buf *goaudio.IntBuffer) (*audio.PCM, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: missing format", audio.ErrInvalidChannels)
	}

	pcm, err := pool.Get(buf.Format.NumChannels, buf.Format.SampleRate, len(buf.Data))
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if len(buf.Data)%buf.Format.NumChannels != 0 {
		_ = pcm.Release()
		return nil, audio.ErrMisaligned
	}

	AppendInts(pcm, buf.Data)

	return pcm, nil
}

// ToIntBuffer converts pcm to a go-audio buffer for encoders.
func ToIntBuffer(pcm *audio.PCM) *goaudio.IntBuffer {
	data := make([]int, len(pcm.Samples()))
	for i, s := range pcm.Samples() {
		data[i] = int(s)
	}

	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: pcm.Channels(),
			SampleRate:  pcm.SampleRate(),
		},
		Data:           data,
		SourceBitDepth: 16,
	}
}
