package dashboard

import (
	"time"

	"github.com/rileyhilliard/pgdash/internal/stats"
)

// Request is one command from the presenter to the collector loop. The
// set of variants is closed: RefreshRequest, DetailRequest,
// CancelRequest, and TerminateRequest.
type Request interface {
	isRequest()
}

// RefreshRequest asks for a fresh stats snapshot.
type RefreshRequest struct{}

// DetailRequest asks for the full listing of one object kind.
type DetailRequest struct {
	Kind stats.DetailKind
}

// CancelRequest asks the server to softly cancel a backend's query.
type CancelRequest struct {
	PID int
}

// TerminateRequest asks the server to kill a backend outright.
type TerminateRequest struct {
	PID int
}

func (RefreshRequest) isRequest()   {}
func (DetailRequest) isRequest()    {}
func (CancelRequest) isRequest()    {}
func (TerminateRequest) isRequest() {}

// StatsMsg carries a freshly collected sample with derived rates.
type StatsMsg struct {
	Sample stats.Sample
}

// StatsErrMsg signals that a collection cycle failed outright. Prior
// history stays intact; the error is shown without discarding data.
type StatsErrMsg struct {
	Err error
}

// DetailMsg carries a drill-down listing.
type DetailMsg struct {
	Detail *stats.Detail
}

// DetailErrMsg signals a failed drill-down request.
type DetailErrMsg struct {
	Kind stats.DetailKind
	Err  error
}

// ControlDoneMsg signals the outcome of a cancel or terminate command.
// A nil Err means the server acknowledged; the implicit refresh that
// follows arrives as its own StatsMsg.
type ControlDoneMsg struct {
	Verb string
	PID  int
	Err  error
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// requestDroppedMsg reports that a request could not be handed to a
// saturated loop. The model clears its busy flag so refresh can retry.
type requestDroppedMsg struct{}
