package di

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/cdstream/pkg/codec"
	"github.com/ssargent/cdstream/pkg/config"
	"github.com/ssargent/cdstream/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleStream(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := codec.NewStreamWriter(&buf, codec.DefaultStreamType)
	_, err := w.WriteTagged(0x03, []byte("AB"))
	require.NoError(t, err)
	_, err = w.WriteTagged(0x07, []byte("CDE"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func writeSample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.cds")
	require.NoError(t, os.WriteFile(path, sampleStream(t), 0600))
	return path
}

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(nil)
	require.NoError(t, err)

	assert.NotNil(t, container.GetConfig())
	assert.NotNil(t, container.GetLogger())
	assert.NotNil(t, container.GetRegistry())
	assert.NotNil(t, container.GetMetrics())
}

func TestNewContainer_InvalidLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "shouting"

	_, err := NewContainer(cfg)
	assert.Error(t, err)
}

func TestOpenSession(t *testing.T) {
	for _, kind := range []string{"memory", "file", "mmap"} {
		t.Run(kind, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Store.Kind = kind
			container := NewContainerWithLogger(cfg, zap.NewNop())

			session, err := container.OpenSession(writeSample(t))
			require.NoError(t, err)
			defer session.Close()

			count := 0
			for rec, err := range session.Navigator.Records() {
				require.NoError(t, err)
				assert.Equal(t, codec.ShapeByte, rec.Shape)
				count++
			}
			assert.Equal(t, 2, count)
		})
	}
}

func TestOpenSession_Stdin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TempDir = t.TempDir()
	container := NewContainerWithLogger(cfg, zap.NewNop())
	container.SetStdin(bytes.NewReader(sampleStream(t)))

	session, err := container.OpenSession(StdinPath)
	require.NoError(t, err)

	found, err := session.Navigator.Last()
	require.NoError(t, err)
	require.True(t, found)
	rec, _ := session.Navigator.Record()
	assert.Equal(t, []byte("CDE"), rec.Payload)

	require.NoError(t, session.Close())

	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenSession_OpenerError(t *testing.T) {
	container := NewContainerWithLogger(config.DefaultConfig(), zap.NewNop())
	boom := errors.New("boom")
	container.SetStoreOpener(func(cfg store.Config) (store.RecordStore, error) {
		return nil, boom
	})

	_, err := container.OpenSession("anything")
	assert.ErrorIs(t, err, boom)
}

func TestStoreConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Kind = "mmap"
	cfg.Store.WindowSize = 128
	container := NewContainerWithLogger(cfg, zap.NewNop())

	sc := container.StoreConfig("/tmp/x")
	assert.Equal(t, store.KindMmap, sc.Kind)
	assert.Equal(t, "/tmp/x", sc.Path)
	assert.Equal(t, 128, sc.WindowSize)
	assert.Same(t, container.GetMetrics(), sc.Metrics)
}
