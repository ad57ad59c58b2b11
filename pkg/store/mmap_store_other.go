//go:build !unix

package store

import "errors"

var errMmapUnsupported = errors.New("mmap record store is not supported on this platform")

// MmapStore is unavailable on this platform
type MmapStore struct{}

// OpenMmapStore always fails on this platform
func OpenMmapStore(cfg Config) (*MmapStore, error) {
	return nil, errMmapUnsupported
}

func (s *MmapStore) ReadAt(off int64, n int) ([]byte, error) { return nil, errMmapUnsupported }
func (s *MmapStore) Size() int64                             { return 0 }
func (s *MmapStore) Close() error                            { return nil }
