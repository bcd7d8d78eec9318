package dashboard

import (
	"context"

	"github.com/rileyhilliard/pgdash/internal/db"
	"github.com/rileyhilliard/pgdash/internal/logger"
	"github.com/rileyhilliard/pgdash/internal/stats"
)

// requestBuffer bounds how many presenter requests can queue up before
// the presenter's sends start dropping.
const requestBuffer = 8

// connections is the pool surface the loop needs.
type connections interface {
	Acquire(ctx context.Context, id db.Identity) (db.Handle, error)
	EvictOnError(id db.Identity, err error) bool
}

// collector is the stats surface the loop needs. Satisfied by
// *stats.Collector.
type collector interface {
	Snapshot(ctx context.Context, q stats.Querier, database string) (*stats.Snapshot, error)
	Detail(ctx context.Context, q stats.Querier, kind stats.DetailKind) (*stats.Detail, error)
	Cancel(ctx context.Context, q stats.Querier, pid int) error
	Terminate(ctx context.Context, q stats.Querier, pid int) error
}

// Loop is the active half of the dashboard: a single goroutine that
// consumes presenter requests, runs them against a pooled connection,
// and replies through the sink. Requests are handled one at a time, so
// polling cycles never overlap.
type Loop struct {
	pool      connections
	collector collector
	engine    *stats.RateEngine
	identity  db.Identity
	sink      Sink
	log       logger.Logger
	requests  chan Request
}

// NewLoop creates a collector loop for one monitored database.
func NewLoop(pool connections, coll collector, identity db.Identity, sink Sink, log logger.Logger) *Loop {
	if log == nil {
		log = logger.NewEnvLogger("[loop]")
	}
	return &Loop{
		pool:      pool,
		collector: coll,
		engine:    stats.NewRateEngine(),
		identity:  identity,
		sink:      sink,
		log:       log,
		requests:  make(chan Request, requestBuffer),
	}
}

// Requests returns the channel the presenter submits requests on.
func (l *Loop) Requests() chan<- Request {
	return l.requests
}

// Run consumes requests until ctx is cancelled or the request channel
// is closed. Call it in its own goroutine.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-l.requests:
			if !ok {
				return
			}
			l.handle(ctx, req)
		}
	}
}

func (l *Loop) handle(ctx context.Context, req Request) {
	switch req := req.(type) {
	case RefreshRequest:
		l.refresh(ctx)
	case DetailRequest:
		l.detail(ctx, req.Kind)
	case CancelRequest:
		l.control(ctx, "cancel", req.PID)
	case TerminateRequest:
		l.control(ctx, "terminate", req.PID)
	}
}

func (l *Loop) refresh(ctx context.Context) {
	handle, err := l.pool.Acquire(ctx, l.identity)
	if err != nil {
		l.sink.StatsFailed(err)
		return
	}

	snap, err := l.collector.Snapshot(ctx, handle, l.identity.Key().Database)
	if err != nil {
		if l.pool.EvictOnError(l.identity, err) {
			l.log.Debug("evicted %s after collection failure", l.identity.Key())
		}
		l.sink.StatsFailed(err)
		return
	}

	l.sink.StatsUpdated(l.engine.Push(snap))
}

func (l *Loop) detail(ctx context.Context, kind stats.DetailKind) {
	handle, err := l.pool.Acquire(ctx, l.identity)
	if err != nil {
		l.sink.DetailFailed(kind, err)
		return
	}

	detail, err := l.collector.Detail(ctx, handle, kind)
	if err != nil {
		l.pool.EvictOnError(l.identity, err)
		l.sink.DetailFailed(kind, err)
		return
	}

	l.sink.DetailReady(detail)
}

// control runs a cancel or terminate command and, on acknowledgement,
// an implicit refresh so the active-query list reflects the new state.
func (l *Loop) control(ctx context.Context, verb string, pid int) {
	handle, err := l.pool.Acquire(ctx, l.identity)
	if err != nil {
		l.sink.ControlDone(verb, pid, err)
		return
	}

	switch verb {
	case "cancel":
		err = l.collector.Cancel(ctx, handle, pid)
	case "terminate":
		err = l.collector.Terminate(ctx, handle, pid)
	}
	l.sink.ControlDone(verb, pid, err)

	if err == nil {
		l.refresh(ctx)
	}
}
