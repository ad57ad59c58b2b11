package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ssargent/cdstream/pkg/metrics"
)

// FileStore serves a record stream from a file held open for the store's
// lifetime. Reads are assembled from fixed-size windows kept in an LRU cache;
// the file is assumed not to change while the store is open.
type FileStore struct {
	file          *os.File
	path          string
	size          int64
	windowSize    int64
	windows       *lru.Cache[int64, []byte]
	deleteOnClose bool
	closeOnce     sync.Once
	closeErr      error
	closed        atomic.Bool
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// OpenFileStore opens the file at cfg.Path
func OpenFileStore(cfg Config) (*FileStore, error) {
	cfg = cfg.withDefaults()

	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, multierr.Append(err, file.Close())
	}

	windows, err := lru.New[int64, []byte](cfg.CacheWindows)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to create window cache: %w", err), file.Close())
	}

	s := &FileStore{
		file:          file,
		path:          cfg.Path,
		size:          stat.Size(),
		windowSize:    int64(cfg.WindowSize),
		windows:       windows,
		deleteOnClose: cfg.DeleteOnClose,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.With(zap.String("path", cfg.Path)),
	}

	// Abandoned stores still release the handle and transient file
	runtime.SetFinalizer(s, func(s *FileStore) {
		s.logger.Warn("file store was not closed")
		_ = s.Close()
	})

	s.logger.Debug("opened file store",
		zap.Int64("size", s.size),
		zap.Bool("delete_on_close", s.deleteOnClose))

	return s, nil
}

// ReadAt returns n bytes starting at off
func (s *FileStore) ReadAt(off int64, n int) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkRange(off, n, s.size); err != nil {
		s.metrics.RecordStoreRead(string(KindFile), 0, err)
		return nil, err
	}

	out := make([]byte, n)
	copied := 0
	for copied < n {
		pos := off + int64(copied)
		idx := pos / s.windowSize

		win, err := s.window(idx)
		if err != nil {
			s.metrics.RecordStoreRead(string(KindFile), 0, err)
			return nil, err
		}

		start := pos - idx*s.windowSize
		if start >= int64(len(win)) {
			err := fmt.Errorf("%w: window %d holds %d bytes, need offset %d", ErrShortRead, idx, len(win), start)
			s.metrics.RecordStoreRead(string(KindFile), 0, err)
			return nil, err
		}
		copied += copy(out[copied:], win[start:])
	}

	s.metrics.RecordStoreRead(string(KindFile), n, nil)
	return out, nil
}

// window returns the cached window idx, reading it from the file on a miss
func (s *FileStore) window(idx int64) ([]byte, error) {
	if win, ok := s.windows.Get(idx); ok {
		s.metrics.RecordWindowCache(true)
		return win, nil
	}
	s.metrics.RecordWindowCache(false)

	start := idx * s.windowSize
	length := min(s.windowSize, s.size-start)
	win := make([]byte, length)

	n, err := s.file.ReadAt(win, start)
	if int64(n) < length {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read %d of %d bytes at offset %d", ErrShortRead, n, length, start)
		}
		return nil, fmt.Errorf("failed to read window at offset %d: %w", start, err)
	}

	s.windows.Add(idx, win)
	return win, nil
}

// Size returns the file size captured when the store was opened
func (s *FileStore) Size() int64 {
	return s.size
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Close closes the file and, for delete-on-close stores, removes it
func (s *FileStore) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		runtime.SetFinalizer(s, nil)
		s.windows.Purge()

		err := s.file.Close()
		if s.deleteOnClose {
			if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
				err = multierr.Append(err, rmErr)
			}
		}
		s.closeErr = err

		s.logger.Debug("closed file store", zap.Error(err))
	})
	return s.closeErr
}
