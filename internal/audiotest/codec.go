// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides counting fakes of the loader's collaborators.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ik5/sndbuf/audio"
)

// ErrBadClip is returned by Decoder for data not produced by EncodeClip.
var ErrBadClip = errors.New("not a test clip")

var clipMagic = []byte("CLIP")

// EncodeClip packs samples into the trivial container understood by Decoder:
// "CLIP", channels (uint16), rate (uint32), then little-endian int16 samples.
func EncodeClip(channels, sampleRate int, samples []int16) []byte {
	buf := new(bytes.Buffer)
	buf.Write(clipMagic)
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// SineClip is EncodeClip over frames of a 440 Hz tone on every channel.
func SineClip(channels, sampleRate, frames int) []byte {
	samples := make([]int16, frames*channels)
	for f := range frames {
		v := int16(math.Sin(2*math.Pi*440*float64(f)/float64(sampleRate)) * 16000)
		for c := range channels {
			samples[f*channels+c] = v
		}
	}

	return EncodeClip(channels, sampleRate, samples)
}

// Decoder decodes EncodeClip data into PCM from its own pool and counts calls.
type Decoder struct {
	pool  *audio.Pool
	calls atomic.Int64
}

func NewDecoder() *Decoder {
	return &Decoder{pool: audio.NewPool()}
}

func (d *Decoder) Decode(data []byte) (*audio.PCM, error) {
	d.calls.Add(1)

	const header = 10
	if len(data) < header || !bytes.Equal(data[:4], clipMagic) {
		return nil, ErrBadClip
	}

	channels := int(binary.LittleEndian.Uint16(data[4:6]))
	rate := int(binary.LittleEndian.Uint32(data[6:10]))
	body := data[header:]

	if len(body)%2 != 0 {
		return nil, fmt.Errorf("%w: odd payload", ErrBadClip)
	}

	pcm, err := d.pool.Get(channels, rate, len(body)/2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadClip, err)
	}

	for i := 0; i < len(body); i += 2 {
		pcm.Append(int16(binary.LittleEndian.Uint16(body[i:])))
	}

	return pcm, nil
}

// Calls returns how many times Decode ran.
func (d *Decoder) Calls() int64 { return d.calls.Load() }

// Pool returns the decoder's pool; Outstanding reports unreleased PCM.
func (d *Decoder) Pool() *audio.Pool { return d.pool }
