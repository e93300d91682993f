// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ik5/sndbuf/audio"
)

// Buffer is the content of one uploaded device buffer.
type Buffer struct {
	Format     audio.Format
	SampleRate int
	Samples    []int16
}

func (b Buffer) Frames() int {
	ch := b.Format.Channels()
	if ch == 0 {
		return 0
	}

	return len(b.Samples) / ch
}

func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Bank is an in-memory Device. It is safe for concurrent use.
type Bank struct {
	buffers map[BufferID]*Buffer
	next    BufferID

	mtx sync.RWMutex
}

func NewBank() *Bank {
	return &Bank{
		buffers: make(map[BufferID]*Buffer),
		next:    1,
	}
}

func (b *Bank) GenBuffer() (BufferID, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if b.next == math.MaxUint32 {
		return NoBuffer, ErrExhausted
	}

	id := b.next
	b.next++
	b.buffers[id] = &Buffer{}

	return id, nil
}

func (b *Bank) BufferData(id BufferID, format audio.Format, samples []int16, sampleRate int) error {
	if !format.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}

	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	if len(samples)%format.Channels() != 0 {
		return fmt.Errorf("%w: %d samples for %v", ErrMisaligned, len(samples), format)
	}

	data := make([]int16, len(samples))
	copy(data, samples)

	b.mtx.Lock()
	defer b.mtx.Unlock()

	buf, ok := b.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}

	buf.Format = format
	buf.SampleRate = sampleRate
	buf.Samples = data

	return nil
}

func (b *Bank) DeleteBuffer(id BufferID) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, ok := b.buffers[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}

	delete(b.buffers, id)

	return nil
}

// Buffer returns a copy of the buffer's content. Changing the returned
// samples does not affect the bank.
func (b *Bank) Buffer(id BufferID) (Buffer, bool) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	buf, ok := b.buffers[id]
	if !ok {
		return Buffer{}, false
	}

	out := *buf
	if buf.Samples != nil {
		out.Samples = make([]int16, len(buf.Samples))
		copy(out.Samples, buf.Samples)
	}

	return out, true
}

// Len returns the number of live buffers.
func (b *Bank) Len() int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	return len(b.buffers)
}
