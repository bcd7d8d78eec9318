package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pgdash/internal/stats"
)

// Sink receives the collector loop's responses. The Model consumes them
// as Bubble Tea messages via the Bridge; tests substitute a recorder.
type Sink interface {
	StatsUpdated(sample stats.Sample)
	StatsFailed(err error)
	DetailReady(detail *stats.Detail)
	DetailFailed(kind stats.DetailKind, err error)
	ControlDone(verb string, pid int, err error)
}

// Bridge forwards collector responses into the Bubble Tea program via
// program.Send(). Send is goroutine-safe, so the loop can call these
// from its own goroutine.
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a bridge that forwards responses to the given program.
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// Attach sets the destination program. Call before the loop starts
// handling requests; the program only receives requests once it runs,
// so attaching right before program.Run is safe.
func (b *Bridge) Attach(program *tea.Program) {
	b.program = program
}

func (b *Bridge) StatsUpdated(sample stats.Sample) {
	b.program.Send(StatsMsg{Sample: sample})
}

func (b *Bridge) StatsFailed(err error) {
	b.program.Send(StatsErrMsg{Err: err})
}

func (b *Bridge) DetailReady(detail *stats.Detail) {
	b.program.Send(DetailMsg{Detail: detail})
}

func (b *Bridge) DetailFailed(kind stats.DetailKind, err error) {
	b.program.Send(DetailErrMsg{Kind: kind, Err: err})
}

func (b *Bridge) ControlDone(verb string, pid int, err error) {
	b.program.Send(ControlDoneMsg{Verb: verb, PID: pid, Err: err})
}
