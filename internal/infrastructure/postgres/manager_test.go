package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdgram/api/internal/config"
	"github.com/bdgram/api/internal/domain"
)

// stubDriver is a database/sql driver whose connections can be flipped into a
// failing state, so pool creation and liveness probes can be exercised without
// a real server.
type stubDriver struct {
	mu    sync.Mutex
	fail  bool
	opens int
}

func (d *stubDriver) setFail(v bool) {
	d.mu.Lock()
	d.fail = v
	d.mu.Unlock()
}

func (d *stubDriver) failing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fail
}

func (d *stubDriver) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	d.mu.Lock()
	d.opens++
	fail := d.fail
	d.mu.Unlock()
	if fail {
		return nil, errors.New("connection refused")
	}
	return &stubConn{d: d}, nil
}

type stubConn struct{ d *stubDriver }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }

// Ping reports ErrBadConn while the driver is failing, which makes
// database/sql discard the connection and dial a fresh one.
func (c *stubConn) Ping(context.Context) error {
	if c.d.failing() {
		return driver.ErrBadConn
	}
	return nil
}

var stubSeq int64

func newStubManager(t *testing.T, cooldown time.Duration) (*Manager, *stubDriver) {
	t.Helper()
	d := &stubDriver{}
	name := fmt.Sprintf("managerstub%d", atomic.AddInt64(&stubSeq, 1))
	sql.Register(name, d)

	cfg := &config.Config{DBHost: "localhost", DBPort: 5432, DBUser: "test", DBName: "test", DBSSLMode: "disable"}
	m := NewManager(cfg,
		WithCooldown(cooldown),
		WithConnectTimeout(time.Second),
		WithOpener(func(dsn string) (*sqlx.DB, error) { return sqlx.Open(name, dsn) }),
	)
	return m, d
}

func TestAcquire_ReusesLiveHandle(t *testing.T) {
	m, _ := newStubManager(t, 50*time.Millisecond)
	defer m.Shutdown()

	db1, err := m.Acquire(context.Background())
	require.NoError(t, err)
	db2, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, db1, db2)
}

func TestAcquire_FailedCreation_ThrottledWithinCooldown(t *testing.T) {
	m, d := newStubManager(t, 100*time.Millisecond)
	defer m.Shutdown()
	d.setFail(true)

	_, err := m.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "database connection failed")

	// Two callers inside the cooldown window both fail fast with the
	// throttling error, not a fresh creation attempt.
	for i := 0; i < 2; i++ {
		_, err = m.Acquire(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		assert.Contains(t, err.Error(), "too frequent")
	}

	// After the cooldown a retry is permitted again.
	time.Sleep(120 * time.Millisecond)
	_, err = m.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestAcquire_ProbeFailure_DiscardsAndReplacesHandle(t *testing.T) {
	m, d := newStubManager(t, 50*time.Millisecond)
	defer m.Shutdown()

	db1, err := m.Acquire(context.Background())
	require.NoError(t, err)

	// Kill the store: the probe fails, the handle is discarded, and since the
	// store is still down the re-creation attempt fails too.
	d.setFail(true)
	time.Sleep(60 * time.Millisecond)
	_, err = m.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	// Store comes back: the next acquire builds a brand new pool rather than
	// reusing the discarded one.
	d.setFail(false)
	time.Sleep(60 * time.Millisecond)
	db2, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, db1, db2)
	assert.GreaterOrEqual(t, d.openCount(), 2)
}

func TestShutdown_ReleasesPoolAndAllowsReopen(t *testing.T) {
	m, _ := newStubManager(t, 10*time.Millisecond)

	_, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Shutdown())
	require.NoError(t, m.Shutdown()) // idempotent

	time.Sleep(20 * time.Millisecond)
	db, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	require.NoError(t, m.Shutdown())
}
