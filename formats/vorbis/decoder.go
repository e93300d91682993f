// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/utils"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

var newReader = func(r io.Reader) (oggReader, error) {
	return oggvorbis.NewReader(r)
}

const (
	// chunkSize is the number of float32 values decoded per Read
	chunkSize = 4096

	// maxEmptyReads bounds consecutive reads that return no data and no error
	maxEmptyReads = 100

	// maxLengthHint caps the samples preallocated from the declared length,
	// which is read from the last page and may be anything
	maxLengthHint = 1 << 20
)

// Decoder decodes a whole Ogg Vorbis resource into 16-bit PCM.
// The PCM is taken from Pool, or from audio.DefaultPool when Pool is nil.
type Decoder struct {
	Pool *audio.Pool
}

func (d Decoder) pool() *audio.Pool {
	if d.Pool != nil {
		return d.Pool
	}

	return audio.DefaultPool
}

func (d Decoder) Decode(data []byte) (*audio.PCM, error) {
	dec, err := newReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return d.decodeReader(dec)
}

func (d Decoder) decodeReader(dec oggReader) (*audio.PCM, error) {
	channels := dec.Channels()
	sampleRate := dec.SampleRate()

	pcm, err := d.pool().Get(channels, sampleRate, capacityHint(dec.Length(), channels))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	if err := readAll(dec, pcm); err != nil {
		_ = pcm.Release()
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return pcm, nil
}

// capacityHint turns the declared length in frames into a bounded sample
// count. Length is 0 when unknown.
func capacityHint(length int64, channels int) int {
	if length <= 0 || channels <= 0 {
		return 0
	}

	if length > maxLengthHint/int64(channels) {
		return maxLengthHint
	}

	return int(length) * channels
}

// readAll drains dec into pcm. Read returns interleaved values, not frames.
func readAll(dec oggReader, pcm *audio.PCM) error {
	floats := make([]float32, chunkSize-chunkSize%pcm.Channels())
	ints := make([]int16, len(floats))
	empty := 0

	for {
		n, err := dec.Read(floats)
		if n > 0 {
			utils.Float32sToInt16s(ints[:n], floats[:n])
			pcm.Append(ints[:n]...)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	if len(pcm.Samples())%pcm.Channels() != 0 {
		return audio.ErrMisaligned
	}

	return nil
}
