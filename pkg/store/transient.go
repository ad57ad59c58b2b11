package store

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// OpenTransientCopy copies r into a temporary file under dir and opens it as
// a store that removes the file when closed. cfg.Path and cfg.DeleteOnClose
// are overridden.
func OpenTransientCopy(r io.Reader, dir string, cfg Config) (RecordStore, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "cdstream-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create transient copy: %w", err)
	}
	path := tmp.Name()

	_, copyErr := io.Copy(tmp, r)
	if err := multierr.Combine(copyErr, tmp.Close()); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to write transient copy: %w", err), os.Remove(path))
	}

	cfg.Path = path
	cfg.DeleteOnClose = true

	s, err := Open(cfg)
	if err != nil {
		return nil, multierr.Append(err, os.Remove(path))
	}
	return s, nil
}
