package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/cdstream/pkg/metrics"
)

var testData = []byte("0123456789abcdefghijklmnopqrstuvwxyz")

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stream.cd")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func openAll(t *testing.T, data []byte) map[Kind]RecordStore {
	t.Helper()

	stores := make(map[Kind]RecordStore)
	for _, kind := range []Kind{KindMemory, KindFile, KindMmap} {
		s, err := Open(Config{Kind: kind, Path: writeTestFile(t, data), WindowSize: 8, CacheWindows: 2})
		require.NoError(t, err, "open %s", kind)
		t.Cleanup(func() { _ = s.Close() })
		stores[kind] = s
	}
	return stores
}

func TestStores_ReadAt(t *testing.T) {
	for kind, s := range openAll(t, testData) {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, int64(len(testData)), s.Size())

			// Within one window, across windows, and up to the end
			got, err := s.ReadAt(2, 4)
			require.NoError(t, err)
			assert.Equal(t, []byte("2345"), got)

			got, err = s.ReadAt(6, 20)
			require.NoError(t, err)
			assert.Equal(t, testData[6:26], got)

			got, err = s.ReadAt(30, 6)
			require.NoError(t, err)
			assert.Equal(t, []byte("uvwxyz"), got)

			got, err = s.ReadAt(int64(len(testData)), 0)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestStores_ShortRead(t *testing.T) {
	for kind, s := range openAll(t, testData) {
		t.Run(string(kind), func(t *testing.T) {
			_, err := s.ReadAt(30, 7)
			assert.ErrorIs(t, err, ErrShortRead)

			_, err = s.ReadAt(-1, 2)
			assert.ErrorIs(t, err, ErrShortRead)

			_, err = s.ReadAt(100, 1)
			assert.ErrorIs(t, err, ErrShortRead)
		})
	}
}

func TestStores_ClosedStore(t *testing.T) {
	for kind, s := range openAll(t, testData) {
		t.Run(string(kind), func(t *testing.T) {
			require.NoError(t, s.Close())
			require.NoError(t, s.Close(), "close must be idempotent")

			_, err := s.ReadAt(0, 1)
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestStores_EmptyFile(t *testing.T) {
	for kind, s := range openAll(t, nil) {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, int64(0), s.Size())

			_, err := s.ReadAt(0, 2)
			assert.ErrorIs(t, err, ErrShortRead)
		})
	}
}

func TestOpen_DeleteOnClose(t *testing.T) {
	for _, kind := range []Kind{KindFile, KindMmap} {
		t.Run(string(kind), func(t *testing.T) {
			path := writeTestFile(t, testData)

			s, err := Open(Config{Kind: kind, Path: path, DeleteOnClose: true})
			require.NoError(t, err)
			assert.FileExists(t, path)

			require.NoError(t, s.Close())
			assert.NoFileExists(t, path)
		})
	}
}

func TestOpen_KeepsFileByDefault(t *testing.T) {
	path := writeTestFile(t, testData)

	s, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)
	require.NoError(t, s.Close())

	assert.FileExists(t, path)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(Config{Kind: "tape", Path: writeTestFile(t, testData)})
	assert.ErrorIs(t, err, ErrUnknownKind)

	for _, kind := range []Kind{KindMemory, KindFile, KindMmap} {
		_, err := Open(Config{Kind: kind, Path: "/non/existent/stream.cd"})
		assert.Error(t, err, "kind %s", kind)
	}
}

func TestMemoryStore_ReadAtIsBounded(t *testing.T) {
	s := NewMemoryStore(append([]byte(nil), testData...), nil)

	got, err := s.ReadAt(0, 4)
	require.NoError(t, err)
	_ = append(got, 'X')

	next, err := s.ReadAt(4, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("4"), next, "appending to a view must not overwrite the store")
}

func TestFileStore_WindowCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	s, err := OpenFileStore(Config{Path: writeTestFile(t, testData), WindowSize: 8, CacheWindows: 4, Metrics: m})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ReadAt(0, 4)
	require.NoError(t, err)
	_, err = s.ReadAt(4, 4)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "cdstream_window_cache_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counts["miss"])
	assert.Equal(t, float64(1), counts["hit"])
}

func TestOpenTransientCopy(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenTransientCopy(bytes.NewReader(testData), dir, Config{Kind: KindFile})
	require.NoError(t, err)

	fs, ok := s.(*FileStore)
	require.True(t, ok)
	assert.FileExists(t, fs.Path())
	assert.Equal(t, filepath.Clean(dir), filepath.Dir(fs.Path()))

	got, err := s.ReadAt(10, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	require.NoError(t, s.Close())
	assert.NoFileExists(t, fs.Path())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
