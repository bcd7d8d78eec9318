package db

import (
	stderrors "errors"
	"io"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsConnectionError classifies an error observed during query execution
// as fatal to the underlying connection (as opposed to a per-query
// failure like a bad statement or missing relation). Fatal errors mean
// the pooled entry should be evicted and re-established.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if stderrors.As(err, &connectErr) {
		return true
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		// Class 08: connection exception. 57P01/57P02/57P03: the
		// backend was shut down or terminated under us. FATAL
		// severity always kills the session.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
		switch pgErr.Code {
		case "57P01", "57P02", "57P03":
			return true
		}
		return pgErr.Severity == "FATAL"
	}

	return false
}
