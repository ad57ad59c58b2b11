package store

import (
	"sync/atomic"

	"github.com/ssargent/cdstream/pkg/metrics"
)

// MemoryStore serves a record stream held in memory
type MemoryStore struct {
	data    []byte
	size    int64
	closed  atomic.Bool
	metrics *metrics.Metrics
}

// NewMemoryStore creates a store over data. The slice must not be modified
// while the store is in use.
func NewMemoryStore(data []byte, m *metrics.Metrics) *MemoryStore {
	return &MemoryStore{data: data, size: int64(len(data)), metrics: m}
}

// ReadAt returns a view of n bytes starting at off
func (s *MemoryStore) ReadAt(off int64, n int) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkRange(off, n, s.size); err != nil {
		s.metrics.RecordStoreRead(string(KindMemory), 0, err)
		return nil, err
	}

	s.metrics.RecordStoreRead(string(KindMemory), n, nil)
	return s.data[off : off+int64(n) : off+int64(n)], nil
}

// Size returns the number of bytes in the store
func (s *MemoryStore) Size() int64 {
	return s.size
}

// Close releases the buffer
func (s *MemoryStore) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.data = nil
	}
	return nil
}
