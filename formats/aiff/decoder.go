// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/formats/internal/pcmconv"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// chunkSize is the number of samples requested per PCMBuffer call
const chunkSize = 4096

// Decoder decodes 16-bit PCM AIFF resources with github.com/go-audio/aiff.
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
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d bits", ErrOnlyPCM16bitSupported, dec.BitDepth)
	}

	return d.decodeReader(dec)
}

func (d Decoder) decodeReader(dec aiffReader) (*audio.PCM, error) {
	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	pcm, err := d.pool().Get(format.NumChannels, format.SampleRate, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	if err := readAll(dec, format, pcm); err != nil {
		_ = pcm.Release()
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return pcm, nil
}

func readAll(dec aiffReader, format *goaudio.Format, pcm *audio.PCM) error {
	buf := &goaudio.IntBuffer{
		Data:   make([]int, chunkSize-chunkSize%format.NumChannels),
		Format: format,
	}

	for {
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			pcmconv.AppendInts(pcm, buf.Data[:n])
		}

		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}

		if err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if len(pcm.Samples())%pcm.Channels() != 0 {
		return audio.ErrMisaligned
	}

	return nil
}
