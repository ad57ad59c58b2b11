package store

import (
	"fmt"
	"os"
)

// RecordStore is a random-access, read-only byte source holding a record stream
type RecordStore interface {
	// ReadAt returns exactly n bytes starting at off. Fewer bytes before the
	// end of the store is an ErrShortRead.
	ReadAt(off int64, n int) ([]byte, error)
	// Size returns the total number of bytes in the store
	Size() int64
	// Close releases the store's resources. It is safe to call more than once.
	Close() error
}

var (
	_ RecordStore = (*MemoryStore)(nil)
	_ RecordStore = (*FileStore)(nil)
	_ RecordStore = (*MmapStore)(nil)
)

// Open opens the record stream at cfg.Path using the configured store kind
func Open(cfg Config) (RecordStore, error) {
	cfg = cfg.withDefaults()

	switch cfg.Kind {
	case KindMemory:
		data, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read record stream: %w", err)
		}
		if cfg.DeleteOnClose {
			if err := os.Remove(cfg.Path); err != nil {
				return nil, fmt.Errorf("failed to remove record stream: %w", err)
			}
		}
		return NewMemoryStore(data, cfg.Metrics), nil
	case KindFile:
		return OpenFileStore(cfg)
	case KindMmap:
		return OpenMmapStore(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
