//go:build unix

package store

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/ssargent/cdstream/pkg/metrics"
)

// MmapStore serves a record stream from a read-only memory mapping of a file
type MmapStore struct {
	file          *os.File
	path          string
	data          []byte // mmap region, nil for empty files
	deleteOnClose bool
	closeOnce     sync.Once
	closeErr      error
	closed        atomic.Bool
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// OpenMmapStore maps the file at cfg.Path
func OpenMmapStore(cfg Config) (*MmapStore, error) {
	cfg = cfg.withDefaults()

	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, multierr.Append(err, file.Close())
	}

	var data []byte
	if stat.Size() > 0 {
		data, err = unix.Mmap(int(file.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("failed to map %s: %w", cfg.Path, err), file.Close())
		}
	}

	s := &MmapStore{
		file:          file,
		path:          cfg.Path,
		data:          data,
		deleteOnClose: cfg.DeleteOnClose,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.With(zap.String("path", cfg.Path)),
	}

	runtime.SetFinalizer(s, func(s *MmapStore) {
		s.logger.Warn("mmap store was not closed")
		_ = s.Close()
	})

	s.logger.Debug("opened mmap store", zap.Int("size", len(data)))
	return s, nil
}

// ReadAt copies n bytes starting at off out of the mapping
func (s *MmapStore) ReadAt(off int64, n int) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkRange(off, n, int64(len(s.data))); err != nil {
		s.metrics.RecordStoreRead(string(KindMmap), 0, err)
		return nil, err
	}

	// Copied so records outlive the mapping
	out := make([]byte, n)
	copy(out, s.data[off:])

	s.metrics.RecordStoreRead(string(KindMmap), n, nil)
	return out, nil
}

// Size returns the mapped length
func (s *MmapStore) Size() int64 {
	return int64(len(s.data))
}

// Close unmaps the file, closes it and removes it for delete-on-close stores
func (s *MmapStore) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		runtime.SetFinalizer(s, nil)

		var err error
		if s.data != nil {
			err = multierr.Append(err, unix.Munmap(s.data))
		}
		err = multierr.Append(err, s.file.Close())
		if s.deleteOnClose {
			if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
				err = multierr.Append(err, rmErr)
			}
		}
		s.closeErr = err

		s.logger.Debug("closed mmap store", zap.Error(err))
	})
	return s.closeErr
}
