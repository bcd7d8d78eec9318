package stats

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/pgdash/internal/errors"
)

// Cancel asks the server to softly cancel the backend's current query.
// The backend keeps its session. A false acknowledgement (no such pid,
// or insufficient privilege) is reported as an error.
func (c *Collector) Cancel(ctx context.Context, q Querier, pid int) error {
	return signalBackend(ctx, q, queryCancelBackend, "cancel", pid)
}

// Terminate hard-kills the backend process, ending its session.
func (c *Collector) Terminate(ctx context.Context, q Querier, pid int) error {
	return signalBackend(ctx, q, queryTerminateBackend, "terminate", pid)
}

func signalBackend(ctx context.Context, q Querier, query, verb string, pid int) error {
	var ok bool
	if err := q.QueryRow(ctx, query, pid).Scan(&ok); err != nil {
		return errors.WrapWithCode(err, errors.ErrControl,
			fmt.Sprintf("Cannot %s query %d", verb, pid), "")
	}
	if !ok {
		return errors.New(errors.ErrControl,
			fmt.Sprintf("Server refused to %s query %d", verb, pid),
			"The backend may have already exited, or you lack the required privilege.")
	}
	return nil
}
