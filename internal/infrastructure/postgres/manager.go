// Package postgres owns the process-wide connection pool and the typed
// repositories built on top of it.
package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/bdgram/api/internal/config"
	"github.com/bdgram/api/internal/domain"
)

const (
	// maxOpenConns bounds the number of physical connections; callers past
	// the bound queue on the pool itself with no cap on the wait queue.
	maxOpenConns = 10

	defaultCooldown       = 5 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// Manager owns a lazily created, health-checked pool handle. The handle is
// probed on every Acquire and discarded wholesale when the probe fails;
// re-creation attempts are throttled so a dead store does not trigger a
// thundering herd of reconnects.
//
// Lifecycle: uninitialized -> live -> (failed -> uninitialized) -> live -> ...
// -> closed on Shutdown.
type Manager struct {
	mu   sync.Mutex
	db   *sqlx.DB
	open func(dsn string) (*sqlx.DB, error)

	// attempts gates pool creation: one token per cooldown, consumed at
	// attempt time whether or not creation then succeeds.
	attempts       *rate.Limiter
	dsn            string
	connectTimeout time.Duration
}

// Option customises a Manager; used by tests to shorten the cooldown and
// substitute the opener.
type Option func(*Manager)

// WithCooldown overrides the minimum interval between creation attempts.
func WithCooldown(d time.Duration) Option {
	return func(m *Manager) {
		m.attempts = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithOpener overrides how the underlying pool is opened.
func WithOpener(open func(dsn string) (*sqlx.DB, error)) Option {
	return func(m *Manager) { m.open = open }
}

// WithConnectTimeout overrides the pool creation ping timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(m *Manager) { m.connectTimeout = d }
}

// NewManager builds a Manager for the configured database. No connection is
// made until the first Acquire.
func NewManager(cfg *config.Config, opts ...Option) *Manager {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d keepalives=1",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
		int(defaultConnectTimeout.Seconds()),
	)
	m := &Manager{
		dsn:            dsn,
		open:           defaultOpen,
		attempts:       rate.NewLimiter(rate.Every(defaultCooldown), 1),
		connectTimeout: defaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultOpen(dsn string) (*sqlx.DB, error) {
	return sqlx.Open("postgres", dsn)
}

// Acquire returns the live pool handle, probing it first and replacing it if
// the probe fails. When no handle exists, creation is subject to the cooldown:
// callers inside the window fail immediately rather than wait.
func (m *Manager) Acquire(ctx context.Context) (*sqlx.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		if err := m.db.PingContext(ctx); err == nil {
			return m.db, nil
		}
		// Broken pool: discard wholesale and fall through to re-creation.
		_ = m.db.Close()
		m.db = nil
	}

	if !m.attempts.Allow() {
		return nil, fmt.Errorf("too frequent connection attempts: %w", domain.ErrUnavailable)
	}

	db, err := m.open(m.dsn)
	if err == nil {
		db.SetMaxOpenConns(maxOpenConns)
		pingCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
		err = db.PingContext(pingCtx)
		cancel()
	}
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		// The attempt token is already spent, so the cooldown still applies
		// to the next caller.
		return nil, fmt.Errorf("database connection failed: %w", domain.ErrUnavailable)
	}

	m.db = db
	return db, nil
}

// Shutdown releases all pooled physical connections. Called on interrupt
// before the process exits.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}
