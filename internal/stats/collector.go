package stats

import (
	"context"
	"strings"
	"time"

	"github.com/rileyhilliard/pgdash/internal/db"
	"github.com/rileyhilliard/pgdash/internal/errors"
	"github.com/rileyhilliard/pgdash/internal/logger"
)

// DefaultTopTables bounds the top-tables-by-size listing.
const DefaultTopTables = 5

// Collector assembles best-effort snapshots from a pooled connection.
type Collector struct {
	topTables int
	log       logger.Logger
}

// NewCollector creates a collector. A non-positive topTables uses
// DefaultTopTables.
func NewCollector(topTables int, log logger.Logger) *Collector {
	if topTables <= 0 {
		topTables = DefaultTopTables
	}
	if log == nil {
		log = logger.NewEnvLogger("[stats]")
	}
	return &Collector{topTables: topTables, log: log}
}

// Snapshot runs the eight-probe battery concurrently against q and
// assembles the results. A failing probe leaves its field at the
// documented default and logs a warning; the call itself fails only
// when an error indicates the connection is unusable.
func (c *Collector) Snapshot(ctx context.Context, q Querier, database string) (*Snapshot, error) {
	snap := &Snapshot{
		Database: database,
		Owner:    "Unknown",
	}

	// Each probe writes a disjoint set of snapshot fields, so the
	// fan-out needs no locking; settleAll joins before snap is read.
	tasks := []task{
		{"database metadata", func(ctx context.Context) error {
			row := q.QueryRow(ctx, queryDatabaseMeta)
			return row.Scan(&snap.Owner, &snap.SizeBytes)
		}},
		{"connection states", func(ctx context.Context) error {
			rows, err := q.Query(ctx, queryConnectionStates)
			if err != nil {
				return err
			}
			defer rows.Close()
			var breakdown []StateCount
			for rows.Next() {
				var sc StateCount
				if err := rows.Scan(&sc.State, &sc.Count); err != nil {
					return err
				}
				breakdown = append(breakdown, sc)
			}
			if err := rows.Err(); err != nil {
				return err
			}
			snap.Connections = reduceStates(breakdown)
			return nil
		}},
		{"top tables", func(ctx context.Context) error {
			rows, err := q.Query(ctx, queryTopTables, c.topTables)
			if err != nil {
				return err
			}
			defer rows.Close()
			var tables []TableSize
			for rows.Next() {
				var ts TableSize
				if err := rows.Scan(&ts.Name, &ts.Bytes); err != nil {
					return err
				}
				tables = append(tables, ts)
			}
			if err := rows.Err(); err != nil {
				return err
			}
			snap.TopTables = tables
			return nil
		}},
		{"extension count", func(ctx context.Context) error {
			return q.QueryRow(ctx, queryExtensionCount).Scan(&snap.Extensions)
		}},
		{"object counts", func(ctx context.Context) error {
			return q.QueryRow(ctx, queryObjectCounts).Scan(
				&snap.Objects.Schemas,
				&snap.Objects.Tables,
				&snap.Objects.Views,
				&snap.Objects.Functions,
				&snap.Objects.Sequences,
			)
		}},
		{"active queries", func(ctx context.Context) error {
			rows, err := q.Query(ctx, queryActiveQueries)
			if err != nil {
				return err
			}
			defer rows.Close()
			var queries []ActiveQuery
			for rows.Next() {
				var aq ActiveQuery
				if err := rows.Scan(&aq.PID, &aq.User, &aq.State, &aq.StartedAt, &aq.Duration, &aq.Query); err != nil {
					return err
				}
				aq.Duration = truncateDuration(aq.Duration)
				queries = append(queries, aq)
			}
			if err := rows.Err(); err != nil {
				return err
			}
			snap.ActiveQueries = queries
			return nil
		}},
		{"blocking locks", func(ctx context.Context) error {
			rows, err := q.Query(ctx, queryBlockingLocks)
			if err != nil {
				return err
			}
			defer rows.Close()
			var locks []BlockedLock
			for rows.Next() {
				var bl BlockedLock
				if err := rows.Scan(
					&bl.BlockedPID, &bl.BlockedUser,
					&bl.BlockingPID, &bl.BlockingUser,
					&bl.Mode, &bl.Relation,
					&bl.BlockedQuery, &bl.BlockingQuery,
				); err != nil {
					return err
				}
				locks = append(locks, bl)
			}
			if err := rows.Err(); err != nil {
				return err
			}
			snap.BlockingLocks = locks
			return nil
		}},
		{"counters", func(ctx context.Context) error {
			return q.QueryRow(ctx, queryCounters).Scan(
				&snap.Counters.Commits,
				&snap.Counters.Rollbacks,
				&snap.Counters.BlocksRead,
				&snap.Counters.BlocksHit,
			)
		}},
	}

	results := settleAll(ctx, tasks)

	var fatal error
	for i, err := range results {
		if err == nil {
			continue
		}
		c.log.Warn("%s query failed: %v", tasks[i].name, err)
		if fatal == nil && db.IsConnectionError(err) {
			fatal = err
		}
	}
	if fatal != nil {
		return nil, errors.WrapWithCode(fatal, errors.ErrCollect,
			"Connection lost while collecting statistics",
			"The connection will be re-established on the next refresh.")
	}

	snap.CapturedAt = time.Now()
	return snap, nil
}

// reduceStates folds the per-state histogram into summary counts. Any
// state beginning with "idle" counts as idle, everything else with
// sessions in "active" counts toward active.
func reduceStates(breakdown []StateCount) Connections {
	conns := Connections{Breakdown: breakdown}
	for _, sc := range breakdown {
		conns.Total += sc.Count
		switch {
		case sc.State == "active":
			conns.Active += sc.Count
		case strings.HasPrefix(sc.State, "idle"):
			conns.Idle += sc.Count
		}
	}
	return conns
}

// truncateDuration drops sub-second precision from an interval string,
// e.g. "00:04:31.240108" becomes "00:04:31".
func truncateDuration(d string) string {
	if i := strings.IndexByte(d, '.'); i >= 0 {
		return d[:i]
	}
	return d
}
