package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/educollab-analytics/internal/observability"
)

const defaultConnectTimeout = 5 * time.Second

// Config describes how to reach the live document store.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	// DisableFallback turns a failed connect into an error instead of a silent
	// switch to the in-memory backend.
	DisableFallback bool
}

// Dialer opens a live backend. Tests replace it to simulate outages.
type Dialer func(ctx context.Context, uri, database string) (Backend, error)

// Connector owns the backend selected for the process.
type Connector struct {
	cfg    Config
	dial   Dialer
	logger zerolog.Logger

	mu      sync.Mutex
	backend Backend
	live    bool
}

// NewConnector builds a connector that dials MongoDB.
func NewConnector(cfg Config, logger zerolog.Logger) *Connector {
	return NewConnectorWithDialer(cfg, dialMongo, logger)
}

// NewConnectorWithDialer builds a connector using a custom dialer.
func NewConnectorWithDialer(cfg Config, dial Dialer, logger zerolog.Logger) *Connector {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &Connector{
		cfg:    cfg,
		dial:   dial,
		logger: logger.With().Str("component", "docstore_connector").Logger(),
	}
}

func dialMongo(ctx context.Context, uri, database string) (Backend, error) {
	return DialMongo(ctx, uri, database)
}

// Connect dials the live store and pings it. When either step fails the in-memory
// backend is installed and false is returned, unless fallback is disabled.
func (c *Connector) Connect(ctx context.Context) bool {
	_, live, _ := c.connect(ctx)
	return live
}

func (c *Connector) connect(ctx context.Context) (Backend, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Connector) connectLocked(ctx context.Context) (Backend, bool, error) {
	if c.backend != nil && c.live {
		_ = c.backend.Close(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	backend, err := c.dial(attemptCtx, c.cfg.URI, c.cfg.Database)
	if err == nil {
		if pingErr := backend.Ping(attemptCtx); pingErr != nil {
			_ = backend.Close(ctx)
			err = pingErr
		}
	}

	if err != nil {
		if c.cfg.DisableFallback {
			c.logger.Error().Err(err).Str("database", c.cfg.Database).Msg("document store unreachable")
			return nil, false, fmt.Errorf("connect document store: %w", err)
		}
		c.logger.Warn().Err(err).Str("database", c.cfg.Database).Msg("document store unreachable, using in-memory store")
		c.install(NewMemoryBackend(), false)
		return c.backend, false, nil
	}

	c.logger.Info().Str("database", c.cfg.Database).Msg("connected to document store")
	c.install(backend, true)
	return c.backend, true, nil
}

func (c *Connector) install(backend Backend, live bool) {
	observability.DocstoreBackend().Reset()
	observability.DocstoreBackend().WithLabelValues(backend.Name()).Set(1)
	c.backend = Instrument(backend)
	c.live = live
}

// Database returns the selected backend, connecting on first use. Concurrent
// first callers share a single dial.
func (c *Connector) Database(ctx context.Context) Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return c.backend
	}

	if _, _, err := c.connectLocked(ctx); err != nil {
		// lazy access never yields nil, even with fallback disabled
		c.install(NewMemoryBackend(), false)
	}
	return c.backend
}

// Backend returns the name of the selected backend.
func (c *Connector) Backend(ctx context.Context) string {
	return c.Database(ctx).Name()
}

// Live reports whether the selected backend is the live store.
func (c *Connector) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Close releases the live client, if any.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend == nil {
		return nil
	}
	err := c.backend.Close(ctx)
	c.backend = nil
	c.live = false
	return err
}

// Open is the startup helper: it connects once and returns the selected backend and
// whether it is the live store.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Connector, Backend, error) {
	connector := NewConnector(cfg, logger)
	backend, _, err := connector.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return connector, backend, nil
}
