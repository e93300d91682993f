// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Downmix averages all channels of p into a new mono PCM taken from p's pool.
func Downmix(p *PCM) (*PCM, error) {
	if p.Released() {
		return nil, ErrReleased
	}

	channels := p.channels
	frames := p.Frames()

	out, err := p.pool.Get(1, p.sampleRate, frames)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if channels == 1 {
		out.Append(p.samples[:frames]...)
		return out, nil
	}

	src := p.samples
	switch channels {
	case 2: // Stereo (most common)
		for f := range frames {
			idx := f << 1
			out.Append(int16((int32(src[idx]) + int32(src[idx+1])) / 2))
		}
	default:
		for f := range frames {
			var sum int32
			base := f * channels
			for c := range channels {
				sum += int32(src[base+c])
			}
			out.Append(int16(sum / int32(channels)))
		}
	}

	return out, nil
}
