// SPDX-License-Identifier: EPL-2.0

package resource

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Blob holds the full contents of a resource in a pooled buffer.
type Blob struct {
	id  string
	buf *bytes.Buffer

	released atomic.Bool
}

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// readBlob drains r into a pooled buffer. sizeHint may be 0.
func readBlob(id string, r io.Reader, sizeHint int64) (*Blob, error) {
	buf, _ := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()

	if sizeHint > 0 {
		buf.Grow(int(sizeHint))
	}

	if _, err := buf.ReadFrom(r); err != nil {
		bufferPool.Put(buf)
		return nil, fmt.Errorf("reading %q: %w", id, err)
	}

	return &Blob{id: id, buf: buf}, nil
}

func (b *Blob) ID() string { return b.id }

// Bytes returns the resource contents. The slice is only valid until Release.
func (b *Blob) Bytes() []byte {
	if b.released.Load() {
		return nil
	}

	return b.buf.Bytes()
}

func (b *Blob) Len() int {
	if b.released.Load() {
		return 0
	}

	return b.buf.Len()
}

func (b *Blob) Released() bool { return b.released.Load() }

// Release hands the buffer back to the pool.
func (b *Blob) Release() error {
	if !b.released.CompareAndSwap(false, true) {
		return ErrReleased
	}

	buf := b.buf
	b.buf = nil
	buf.Reset()
	bufferPool.Put(buf)

	return nil
}
