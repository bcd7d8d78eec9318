// Package stats collects point-in-time server statistics over a pooled
// connection and derives per-second rates from cumulative counters. A
// snapshot is best-effort: individual probe failures degrade single
// fields to documented defaults instead of failing the whole capture.
package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the query surface the collector needs from a pooled
// connection handle. Satisfied by db.Handle and *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StateCount is one row of the connection-state histogram.
type StateCount struct {
	State string
	Count int
}

// Connections summarizes backend sessions by state. Active, Idle, and
// Total are reduced from the breakdown; Breakdown keeps the raw
// per-state rows for display.
type Connections struct {
	Active    int
	Idle      int
	Total     int
	Breakdown []StateCount
}

// Objects counts the user-visible schema objects in the database.
type Objects struct {
	Schemas   int
	Tables    int
	Views     int
	Functions int
	Sequences int
}

// TableSize is one entry in the top-tables-by-size list.
type TableSize struct {
	Name  string
	Bytes int64
}

// ActiveQuery is one non-idle backend session.
type ActiveQuery struct {
	PID       int
	User      string
	State     string
	StartedAt time.Time
	Duration  string
	Query     string
}

// BlockedLock describes one blocked/blocking session pair.
type BlockedLock struct {
	BlockedPID    int
	BlockedUser   string
	BlockingPID   int
	BlockingUser  string
	Mode          string
	Relation      string
	BlockedQuery  string
	BlockingQuery string
}

// Counters holds the cumulative counters rates are derived from. These
// only ever grow, except across a server restart or stats reset.
type Counters struct {
	Commits    int64
	Rollbacks  int64
	BlocksRead int64
	BlocksHit  int64
}

// Snapshot is one complete capture of server statistics. Immutable once
// produced; fields left at their zero value (or "Unknown" for Owner)
// indicate the corresponding probe failed.
type Snapshot struct {
	Database      string
	Owner         string
	SizeBytes     int64
	Connections   Connections
	Extensions    int
	Objects       Objects
	TopTables     []TableSize
	ActiveQueries []ActiveQuery
	BlockingLocks []BlockedLock
	Counters      Counters
	CapturedAt    time.Time
}
