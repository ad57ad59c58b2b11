package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ssargent/cdstream/pkg/metrics"
)

// Kind selects a RecordStore implementation
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindMmap   Kind = "mmap"
)

const (
	DefaultWindowSize   = 4096
	DefaultCacheWindows = 64
)

// Config holds configuration for opening a record store
type Config struct {
	Kind          Kind             // Store implementation, KindFile when empty
	Path          string           // Path to the record stream file
	WindowSize    int              // File store read window size in bytes
	CacheWindows  int              // Number of windows the file store keeps cached
	DeleteOnClose bool             // Remove the backing file when the store is closed
	Metrics       *metrics.Metrics // Optional collectors
	Logger        *zap.Logger      // Optional logger
}

func (c Config) withDefaults() Config {
	if c.Kind == "" {
		c.Kind = KindFile
	}
	if c.WindowSize <= 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.CacheWindows <= 0 {
		c.CacheWindows = DefaultCacheWindows
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Errors
var (
	ErrShortRead   = errors.New("short read from record store")
	ErrClosed      = errors.New("record store is closed")
	ErrUnknownKind = errors.New("unknown record store kind")
)

// checkRange validates that n bytes starting at off lie within a store of the given size
func checkRange(off int64, n int, size int64) error {
	if off < 0 || n < 0 {
		return fmt.Errorf("%w: invalid range offset=%d length=%d", ErrShortRead, off, n)
	}
	if off+int64(n) > size {
		return fmt.Errorf("%w: requested %d bytes at offset %d, store holds %d", ErrShortRead, n, off, size)
	}
	return nil
}
