// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/sndbuf/audio"
)

// ErrInvalidStream indicates the data could not be decoded as MP3
var ErrInvalidStream = errors.New("invalid mp3 stream")

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

const (
	// go-mp3 always outputs 16-bit little-endian stereo
	channels = 2

	// maxEmptyReads bounds consecutive reads that return no data and no error
	maxEmptyReads = 100
)

// Decoder decodes MP3 resources with github.com/hajimehoshi/go-mp3.
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
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return d.decodeReader(dec)
}

func (d Decoder) decodeReader(dec mp3Reader) (*audio.PCM, error) {
	// Length is in bytes, or -1 when unknown
	capacity := max(dec.Length()/2, 0)

	pcm, err := d.pool().Get(channels, dec.SampleRate(), int(capacity))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	if err := readAll(dec, pcm); err != nil {
		_ = pcm.Release()
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return pcm, nil
}

func readAll(dec mp3Reader, pcm *audio.PCM) error {
	buf := make([]byte, 8192)
	samples := make([]int16, len(buf)/2)
	pending := 0 // a carried odd byte at buf[0]
	empty := 0

	for {
		n, err := dec.Read(buf[pending:])
		read := n
		n += pending

		count := n / 2
		for i := range count {
			samples[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
		}
		pcm.Append(samples[:count]...)

		pending = n % 2
		if pending == 1 {
			buf[0] = buf[n-1]
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("%w", err)
		}

		if read == 0 {
			empty++
			if empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	// a partial frame means the stream was cut
	if len(pcm.Samples())%channels != 0 {
		return audio.ErrMisaligned
	}

	return nil
}
