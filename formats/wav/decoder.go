// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/formats/internal/pcmconv"
)

// pcmFormat is the WAVE_FORMAT_PCM tag
const pcmFormat = 1

// Decoder decodes PCM 16-bit WAV resources with github.com/go-audio/wav.
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
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()

	if dec.WavAudioFormat != pcmFormat || dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: format %d, %d bits", ErrOnlyPCM16bitSupported, dec.WavAudioFormat, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	if buf.Format == nil {
		buf.Format = &goaudio.Format{
			NumChannels: int(dec.NumChans),
			SampleRate:  int(dec.SampleRate),
		}
	}

	pcm, err := pcmconv.FromIntBuffer(d.pool(), buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	return pcm, nil
}
