package stats

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stub is one canned query outcome, matched by a distinctive substring
// of the SQL text.
type stub struct {
	rows [][]any
	err  error
}

// fakeQuerier serves canned results without a server. Safe for the
// collector's concurrent fan-out.
type fakeQuerier struct {
	mu    sync.Mutex
	stubs map[string]stub
	calls []string
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{stubs: map[string]stub{}}
}

func (f *fakeQuerier) on(match string, rows ...[]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs[match] = stub{rows: rows}
}

func (f *fakeQuerier) fail(match string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs[match] = stub{err: err}
}

func (f *fakeQuerier) lookup(sql string) (stub, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sql)
	for match, s := range f.stubs {
		if strings.Contains(sql, match) {
			return s, nil
		}
	}
	return stub{}, fmt.Errorf("no stub for query: %.60s", sql)
}

func (f *fakeQuerier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s, err := f.lookup(sql)
	if err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &fakeRows{rows: s.rows, idx: -1}, nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s, err := f.lookup(sql)
	if err != nil {
		return &fakeRow{err: err}
	}
	if s.err != nil {
		return &fakeRow{err: s.err}
	}
	if len(s.rows) == 0 {
		return &fakeRow{err: pgx.ErrNoRows}
	}
	return &fakeRow{vals: s.rows[0]}
}

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignAll(dest, r.vals)
}

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignAll(dest, r.rows[r.idx])
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx], nil
}

func assignAll(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(vals), len(dest))
	}
	for i, val := range vals {
		if err := assign(dest[i], val); err != nil {
			return err
		}
	}
	return nil
}

func assign(dest, val any) error {
	switch d := dest.(type) {
	case *string:
		*d = val.(string)
	case *int:
		*d = val.(int)
	case *int64:
		switch v := val.(type) {
		case int64:
			*d = v
		case int:
			*d = int64(v)
		default:
			return fmt.Errorf("cannot assign %T to *int64", val)
		}
	case *float64:
		*d = val.(float64)
	case *bool:
		*d = val.(bool)
	case *time.Time:
		*d = val.(time.Time)
	default:
		return fmt.Errorf("unsupported scan destination %T", dest)
	}
	return nil
}
