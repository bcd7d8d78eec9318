// Package dashboard implements a real-time TUI for server statistics.
//
// The dashboard polls one database and displays connection counts, object
// counts, top tables by size, active queries, blocking locks, and
// per-second rates derived from the server's cumulative counters.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm
// Architecture (Model-Update-View pattern):
//
//   - Model: Holds view state (latest sample, history, selection, mode)
//   - Update: Processes messages (keystrokes, tick events, new samples)
//   - View: Renders the current state to a string for display
//
// The Model never talks to the database. It emits typed Request values on
// a channel consumed by a Loop running in its own goroutine; the Loop
// performs the actual collection and replies through a Bridge, which
// injects response messages back into the Bubble Tea program. Every
// request is answered by a later, independently delivered message: the
// Model never blocks waiting for data.
//
// # Message Flow
//
//  1. tickMsg fires at the configured interval (or the user presses r)
//  2. the Model emits RefreshRequest on the request channel
//  3. the Loop acquires a pooled connection, collects a snapshot, and
//     derives rates against the previous sample
//  4. StatsMsg arrives via the Bridge; the Model appends the sample to
//     its history and re-renders
//
// Drill-down listings (ShowDetails) and the query-control commands
// (cancel/terminate a backend) travel the same way. A control command
// triggers an implicit refresh once acknowledged so the active-query
// list reflects the new state.
//
// # History
//
// The HistoryBuffer keeps a bounded FIFO of rate samples for the
// sparkline graphs. It belongs to the Model and is discarded when the
// dashboard exits; nothing is persisted.
package dashboard
