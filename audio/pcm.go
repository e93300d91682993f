// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// PCM is a block of interleaved 16-bit samples owned by the Pool it was
// taken from. It must be handed back with Release, and only once.
type PCM struct {
	samples    []int16
	channels   int
	sampleRate int

	pool     *Pool
	released atomic.Bool
}

func (p *PCM) Samples() []int16 { return p.samples }
func (p *PCM) Channels() int    { return p.channels }
func (p *PCM) SampleRate() int  { return p.sampleRate }
func (p *PCM) Pool() *Pool      { return p.pool }

// Frames returns the number of sample frames (samples per channel).
func (p *PCM) Frames() int {
	return len(p.samples) / p.channels
}

func (p *PCM) Duration() time.Duration {
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.sampleRate)
}

// Append adds interleaved samples at the end of the buffer.
func (p *PCM) Append(samples ...int16) {
	p.samples = append(p.samples, samples...)
}

// Released reports whether Release was already called.
func (p *PCM) Released() bool { return p.released.Load() }

// Release returns the sample memory to the owning pool. Samples must not be
// used afterwards.
func (p *PCM) Release() error {
	if !p.released.CompareAndSwap(false, true) {
		return ErrReleased
	}

	p.pool.put(p.samples)
	p.samples = nil

	return nil
}

// Pool hands out PCM buffers and takes their memory back on Release.
// Decoders own a Pool; every PCM they return is bound to it.
type Pool struct {
	buffers sync.Pool

	gets atomic.Int64
	puts atomic.Int64
}

// DefaultPool is used by decoders that were not given a pool.
var DefaultPool = NewPool()

func NewPool() *Pool {
	return &Pool{}
}

// maxPrealloc caps the capacity Get reserves up front. Larger PCM grows on
// Append.
const maxPrealloc = 1 << 22

// Get returns an empty PCM with room for capacity samples, up to maxPrealloc.
func (p *Pool) Get(channels, sampleRate, capacity int) (*PCM, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	capacity = min(max(capacity, 0), maxPrealloc)

	var buf []int16
	if v, ok := p.buffers.Get().(*[]int16); ok && cap(*v) >= capacity {
		buf = (*v)[:0]
	} else {
		buf = make([]int16, 0, capacity)
	}

	p.gets.Add(1)

	return &PCM{
		samples:    buf,
		channels:   channels,
		sampleRate: sampleRate,
		pool:       p,
	}, nil
}

// Outstanding returns how many PCM buffers were taken and not yet released.
func (p *Pool) Outstanding() int64 {
	return p.gets.Load() - p.puts.Load()
}

func (p *Pool) put(buf []int16) {
	p.puts.Add(1)

	if cap(buf) == 0 {
		return
	}

	buf = buf[:0]
	p.buffers.Put(&buf)
}
