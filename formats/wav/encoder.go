// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/formats/internal/pcmconv"
)

// Encode writes pcm as a 16-bit PCM WAV file. The encoder patches the
// header sizes on close, so w must be seekable.
func Encode(w io.WriteSeeker, pcm *audio.PCM) error {
	if pcm.Released() {
		return audio.ErrReleased
	}

	enc := wav.NewEncoder(w, pcm.SampleRate(), 16, pcm.Channels(), pcmFormat)

	if err := enc.Write(pcmconv.ToIntBuffer(pcm)); err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
