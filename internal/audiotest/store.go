// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/ik5/sndbuf/resource"
)

// Store is an in-memory resource.Store that remembers every blob it handed
// out, so tests can check they were all released.
type Store struct {
	*resource.MemoryStore

	mtx   sync.Mutex
	reads int
	blobs []*resource.Blob
}

func NewStore(data map[string][]byte) *Store {
	return &Store{MemoryStore: resource.NewMemory(data)}
}

func (s *Store) ReadAll(id string) (*resource.Blob, error) {
	blob, err := s.MemoryStore.ReadAll(id)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.reads++
	if blob != nil {
		s.blobs = append(s.blobs, blob)
	}

	return blob, err
}

// Reads returns the number of ReadAll calls.
func (s *Store) Reads() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.reads
}

// Unreleased returns how many returned blobs were not released.
func (s *Store) Unreleased() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n := 0
	for _, b := range s.blobs {
		if !b.Released() {
			n++
		}
	}

	return n
}
