// Package db manages a pool of live server connections keyed by
// connection profile and target database. The pool is the sole owner of
// connection lifetime: entries are created lazily on first acquire,
// reused across arbitrarily many collection cycles, and torn down on
// fatal connection errors or explicit release.
package db

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/rileyhilliard/pgdash/internal/credentials"
	"github.com/rileyhilliard/pgdash/internal/errors"
	"github.com/rileyhilliard/pgdash/internal/logger"
)

// DefaultConnectTimeout bounds a single connection attempt.
const DefaultConnectTimeout = 10 * time.Second

// fanoutConns sizes each per-key handle for the concurrent query battery
// issued by the stats collector.
const fanoutConns = 8

// Key identifies one pooled connection: a profile plus a target database.
// It is a comparable struct so map lookups are typed and immune to
// delimiter collisions in profile or database names.
type Key struct {
	ProfileID string
	Database  string
}

// String renders the key for log messages.
func (k Key) String() string {
	return k.ProfileID + ":" + k.Database
}

// flight returns the coalescing key for in-progress connection attempts.
// NUL cannot appear in either component, so distinct Keys never collide.
func (k Key) flight() string {
	return k.ProfileID + "\x00" + k.Database
}

// Identity describes the server a profile points at. Immutable per pool
// entry.
type Identity struct {
	ProfileID string
	Host      string
	Port      int
	User      string
	Database  string
	SSLMode   string
}

// Key derives the pool key for this identity. An empty database falls
// back to the standard maintenance database.
func (id Identity) Key() Key {
	database := id.Database
	if database == "" {
		database = "postgres"
	}
	return Key{ProfileID: id.ProfileID, Database: database}
}

// Handle is a live connection handle as stored in the pool. Satisfied by
// *pgxpool.Pool; tests substitute fakes.
type Handle interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// DialFunc establishes a new connection for an identity. The secret is
// empty when no credential was found.
type DialFunc func(ctx context.Context, id Identity, secret string) (Handle, error)

// Pool is a keyed cache of connection handles. Construct one per
// dashboard session and pass it by reference to every consumer.
type Pool struct {
	mu      sync.Mutex
	entries map[Key]*poolEntry
	creds   credentials.Source
	timeout time.Duration
	dial    DialFunc
	group   singleflight.Group
	log     logger.Logger
}

// poolEntry holds a live handle and its metadata.
type poolEntry struct {
	id       Identity
	handle   Handle
	lastUsed time.Time
}

// NewPool creates a connection pool. Secrets are resolved through creds
// at connect time; a zero timeout uses DefaultConnectTimeout.
func NewPool(creds credentials.Source, timeout time.Duration, log logger.Logger) *Pool {
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	if log == nil {
		log = logger.NewEnvLogger("[pool]")
	}
	return &Pool{
		entries: make(map[Key]*poolEntry),
		creds:   creds,
		timeout: timeout,
		dial:    pgxDial,
		log:     log,
	}
}

// Acquire returns the live handle for the identity's key, connecting if
// none exists. Concurrent acquires for the same key are coalesced so
// exactly one connection attempt runs; every caller observes the same
// handle. A failed or timed-out attempt leaves no entry behind.
func (p *Pool) Acquire(ctx context.Context, id Identity) (Handle, error) {
	key := id.Key()

	p.mu.Lock()
	if entry, ok := p.entries[key]; ok {
		entry.lastUsed = time.Now()
		handle := entry.handle
		p.mu.Unlock()
		return handle, nil
	}
	p.mu.Unlock()

	result, err, _ := p.group.Do(key.flight(), func() (interface{}, error) {
		// A racing acquire may have populated the entry while this
		// caller waited on the flight group.
		p.mu.Lock()
		if entry, ok := p.entries[key]; ok {
			entry.lastUsed = time.Now()
			handle := entry.handle
			p.mu.Unlock()
			return handle, nil
		}
		p.mu.Unlock()

		handle, err := p.connect(ctx, id)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.entries[key] = &poolEntry{
			id:       id,
			handle:   handle,
			lastUsed: time.Now(),
		}
		p.mu.Unlock()

		p.log.Debug("connected %s", key)
		return handle, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(Handle), nil
}

// connect resolves a credential and dials with a bounded timeout.
func (p *Pool) connect(ctx context.Context, id Identity) (Handle, error) {
	secret := ""
	if id.User != "" && p.creds != nil {
		if val, ok := p.creds.Secret(id.ProfileID); ok {
			secret = val
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	handle, err := p.dial(connectCtx, id, secret)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConnect,
			fmt.Sprintf("Cannot connect to %s", id.Key()),
			"Check the profile's host, port, and credentials.")
	}
	return handle, nil
}

// Release closes one entry. Releasing an absent key is a no-op.
func (p *Pool) Release(id Identity) {
	p.remove(id.Key())
}

// ReleaseProfile closes every entry belonging to the given profile,
// across all target databases. Used when a profile is removed or
// disconnected.
func (p *Pool) ReleaseProfile(profileID string) {
	p.mu.Lock()
	var victims []Key
	for key := range p.entries {
		if key.ProfileID == profileID {
			victims = append(victims, key)
		}
	}
	p.mu.Unlock()

	for _, key := range victims {
		p.remove(key)
	}
}

// Close closes every pooled entry. Used at session shutdown.
func (p *Pool) Close() {
	p.mu.Lock()
	entries := make([]*poolEntry, 0, len(p.entries))
	for key, entry := range p.entries {
		entries = append(entries, entry)
		delete(p.entries, key)
	}
	p.mu.Unlock()

	for _, entry := range entries {
		entry.handle.Close()
	}
}

// Size returns the number of live entries in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Keys returns the keys of all live entries, for diagnostics.
func (p *Pool) Keys() []Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]Key, 0, len(p.entries))
	for key := range p.entries {
		keys = append(keys, key)
	}
	return keys
}

// EvictOnError inspects an error observed while using a handle. Fatal
// connection errors evict the entry so the next acquire reconnects;
// query-level errors leave the pool untouched. Reports whether the
// entry was evicted.
func (p *Pool) EvictOnError(id Identity, err error) bool {
	if !IsConnectionError(err) {
		return false
	}
	key := id.Key()
	p.log.Warn("evicting %s: %v", key, err)
	p.remove(key)
	return true
}

// remove closes and removes an entry. Must not hold p.mu around the
// handle close: pgxpool.Close blocks until checked-out conns return.
func (p *Pool) remove(key Key) {
	p.mu.Lock()
	entry, ok := p.entries[key]
	if ok {
		delete(p.entries, key)
	}
	p.mu.Unlock()

	if ok && entry.handle != nil {
		entry.handle.Close()
	}
}

// pgxDial is the default DialFunc: it builds a DSN for the identity and
// opens a pgx pool sized for the collector's query fan-out. The initial
// ping surfaces unreachable servers at acquire time rather than on the
// first query.
func pgxDial(ctx context.Context, id Identity, secret string) (Handle, error) {
	cfg, err := pgxpool.ParseConfig(buildDSN(id, secret))
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = fanoutConns
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// buildDSN assembles a postgres URL from an identity and optional secret.
func buildDSN(id Identity, secret string) string {
	port := id.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", id.Host, port),
		Path:   "/" + id.Key().Database,
	}
	if id.User != "" {
		if secret != "" {
			u.User = url.UserPassword(id.User, secret)
		} else {
			u.User = url.User(id.User)
		}
	}

	query := url.Values{}
	if id.SSLMode != "" {
		query.Set("sslmode", id.SSLMode)
	}
	query.Set("application_name", "pgdash")
	u.RawQuery = query.Encode()

	return u.String()
}
