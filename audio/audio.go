// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"path"
	"strings"
	"sync"
)

// Decoder turns a fully read encoded resource into PCM. The returned PCM is
// owned by the decoder's pool and must be released by the caller.
type Decoder interface {
	Decode(data []byte) (*PCM, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(data []byte) (*PCM, error)

func (f DecoderFunc) Decode(data []byte) (*PCM, error) { return f(data) }

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeFormat(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[normalizeFormat(format)]
	return d, ok
}

// Lookup picks a decoder by the extension of a resource name.
func (r *Registry) Lookup(name string) (Decoder, bool) {
	ext := path.Ext(name)
	if ext == "" {
		return nil, false
	}

	return r.Get(ext)
}

// Formats lists the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	formats := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		formats = append(formats, k)
	}

	return formats
}
