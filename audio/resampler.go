// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/sndbuf/utils"
)

// Resample converts p to dstRate using cubic interpolation and returns a new
// PCM taken from p's pool. Channel count is preserved.
// When downsampling, a one-pole low-pass filter is applied to the input
// first to reduce aliasing.
func Resample(p *PCM, dstRate int) (*PCM, error) {
	if p.Released() {
		return nil, ErrReleased
	}

	if dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, dstRate)
	}

	channels := p.channels
	inFrames := p.Frames()
	srcRate := p.sampleRate

	outFrames := int((int64(inFrames)*int64(dstRate) + int64(srcRate) - 1) / int64(srcRate))

	out, err := p.pool.Get(channels, dstRate, outFrames*channels)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if inFrames == 0 {
		return out, nil
	}

	if dstRate == srcRate {
		out.Append(p.samples[:inFrames*channels]...)
		return out, nil
	}

	// ratio is how many source frames per output frame
	ratio := float64(srcRate) / float64(dstRate)
	in := lowPass(p.samples[:inFrames*channels], channels, ratio > 1.0)
	last := inFrames - 1

	at := func(frame, c int) float32 {
		frame = min(max(frame, 0), last)
		return in[frame*channels+c]
	}

	frame := make([]int16, channels)
	for k := range outFrames {
		pos := float64(k) * ratio
		i := int(pos)
		alpha := float32(pos - float64(i))

		for c := range channels {
			v := utils.CubicInterpolate(at(i-1, c), at(i, c), at(i+1, c), at(i+2, c), alpha)
			frame[c] = utils.RoundToInt16(v)
		}

		out.Append(frame...)
	}

	return out, nil
}

// lowPass returns the samples as float32, filtered with
// y[n] = alpha * x[n] + (1-alpha) * y[n-1] per channel when enabled.
func lowPass(samples []int16, channels int, enabled bool) []float32 {
	const alpha float32 = 0.5

	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s)
	}

	if !enabled {
		return out
	}

	// first frame seeds the state to avoid warm-up transients
	for i := channels; i < len(out); i++ {
		out[i] = alpha*out[i] + (1-alpha)*out[i-channels]
	}

	return out
}
