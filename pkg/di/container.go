// Package di provides dependency injection container
package di

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ssargent/cdstream/pkg/config"
	"github.com/ssargent/cdstream/pkg/metrics"
	"github.com/ssargent/cdstream/pkg/store"
	"github.com/ssargent/cdstream/pkg/stream"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// StdinPath names standard input as a stream source
const StdinPath = "-"

// StoreOpener opens a record store for a stream file
type StoreOpener func(cfg store.Config) (store.RecordStore, error)

// Container holds all the dependencies for the application
type Container struct {
	config      *config.Config
	logger      *zap.Logger
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	storeOpener StoreOpener
	stdin       io.Reader
}

// Session is an open stream: the store and a navigator over it
type Session struct {
	Store     store.RecordStore
	Navigator *stream.Navigator
}

// Close closes the navigator and then the store
func (s *Session) Close() error {
	return multierr.Combine(s.Navigator.Close(), s.Store.Close())
}

// NewLogger builds a zap logger for the logging configuration
func NewLogger(cfg config.Logging) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level

	return zcfg.Build()
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return NewContainerWithLogger(cfg, logger), nil
}

// NewContainerWithLogger creates a container around an existing logger
func NewContainerWithLogger(cfg *config.Config, logger *zap.Logger) *Container {
	registry := prometheus.NewRegistry()
	return &Container{
		config:      cfg,
		logger:      logger,
		registry:    registry,
		metrics:     metrics.NewMetrics(registry),
		storeOpener: store.Open,
		stdin:       os.Stdin,
	}
}

// GetConfig returns the loaded configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *zap.Logger {
	return c.logger
}

// GetRegistry returns the registry every collector is registered with
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// GetMetrics returns the shared collectors
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// SetStoreOpener allows overriding the store opener (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}

// SetStdin allows overriding standard input (for testing)
func (c *Container) SetStdin(r io.Reader) {
	c.stdin = r
}

// StoreConfig returns the store configuration for path
func (c *Container) StoreConfig(path string) store.Config {
	return store.Config{
		Kind:         store.Kind(c.config.Store.Kind),
		Path:         path,
		WindowSize:   c.config.Store.WindowSize,
		CacheWindows: c.config.Store.CacheWindows,
		Metrics:      c.metrics,
		Logger:       c.logger,
	}
}

// OpenStore opens the record store for path. StdinPath copies standard
// input to a temporary file that is removed when the store closes.
func (c *Container) OpenStore(path string) (store.RecordStore, error) {
	cfg := c.StoreConfig(path)
	if path == StdinPath {
		return store.OpenTransientCopy(c.stdin, c.config.TempDir, cfg)
	}
	if c.storeOpener == nil {
		return nil, errors.New("store opener not configured")
	}
	return c.storeOpener(cfg)
}

// OpenSession opens the store for path and a navigator over it
func (c *Container) OpenSession(path string) (*Session, error) {
	s, err := c.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	nav, err := stream.New(s,
		stream.WithLogger(c.logger),
		stream.WithMetrics(c.metrics),
		stream.WithPrefixSize(c.config.Stream.PrefixSize),
		stream.WithEagerLast(c.config.Stream.EagerLast),
	)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to create navigator: %w", err), s.Close())
	}

	return &Session{Store: s, Navigator: nav}, nil
}

// Sync flushes buffered log entries
func (c *Container) Sync() error {
	return c.logger.Sync()
}
