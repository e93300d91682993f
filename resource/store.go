// SPDX-License-Identifier: EPL-2.0

package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// Store reads whole resources by identifier.
type Store interface {
	ReadAll(id string) (*Blob, error)
}

// FSStore serves resources from an fs.FS, such as an embed.FS.
type FSStore struct {
	fsys fs.FS
}

func FS(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// Dir serves resources below root on the local filesystem.
func Dir(root string) *FSStore {
	return FS(os.DirFS(root))
}

func (s *FSStore) ReadAll(id string) (*Blob, error) {
	name := path.Clean(strings.TrimPrefix(id, "/"))
	if id == "" || !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, wrapOpenError(id, err)
	}
	defer f.Close()

	var size int64
	if st, err := f.Stat(); err == nil {
		if st.IsDir() {
			return nil, fmt.Errorf("%w: %q is a directory", ErrNotFound, id)
		}
		size = st.Size()
	}

	return readBlob(id, f, size)
}

// FileStore reads resources as plain operating system paths.
type FileStore struct{}

func Files() FileStore { return FileStore{} }

func (FileStore) ReadAll(id string) (*Blob, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	f, err := os.Open(id)
	if err != nil {
		return nil, wrapOpenError(id, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", id, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %q is a directory", ErrNotFound, id)
	}

	return readBlob(id, f, st.Size())
}

// MemoryStore keeps resources in memory. It is safe for concurrent use.
type MemoryStore struct {
	data map[string][]byte

	mtx sync.RWMutex
}

func NewMemory(data map[string][]byte) *MemoryStore {
	m := &MemoryStore{data: make(map[string][]byte, len(data))}
	for k, v := range data {
		m.data[k] = v
	}

	return m
}

func (m *MemoryStore) Put(id string, data []byte) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.data[id] = data
}

func (m *MemoryStore) ReadAll(id string) (*Blob, error) {
	m.mtx.RLock()
	data, ok := m.data[id]
	m.mtx.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return readBlob(id, bytes.NewReader(data), int64(len(data)))
}

func wrapOpenError(id string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q: %w", ErrNotFound, id, err)
	}

	return fmt.Errorf("opening %q: %w", id, err)
}
