package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pgdash/internal/stats"
)

// SessionState is the presenter's top-level state.
type SessionState int

const (
	// StateLoading covers the span before the first sample arrives.
	StateLoading SessionState = iota
	// StateReady means at least one sample (or error) has been seen.
	StateReady
)

// ViewMode selects which screen the dashboard renders.
type ViewMode int

const (
	ViewStats ViewMode = iota
	ViewDetail
)

// refreshIntervals are the selectable auto-refresh periods. Zero is
// "off": the timer stops but manual refresh stays available.
var refreshIntervals = []time.Duration{0, time.Second, 2 * time.Second, 5 * time.Second, 10 * time.Second}

// Model is the Bubble Tea model for the stats dashboard. It owns only
// view state; all database work happens in the Loop, reached through
// the request channel.
type Model struct {
	profileID string
	database  string
	requests  chan<- Request

	state      SessionState
	viewMode   ViewMode
	refreshing bool
	quitting   bool
	showHelp   bool

	history    *HistoryBuffer
	lastErr    string
	statusLine string
	lastUpdate time.Time

	intervalIdx int
	selected    int

	detail         *stats.Detail
	detailViewport viewport.Model
	viewportReady  bool

	width  int
	height int
}

// NewModel creates a dashboard model. Requests are emitted on the given
// channel; interval selects the initial auto-refresh period, rounded to
// the nearest selectable step. Zero means off.
func NewModel(profileID, database string, requests chan<- Request, interval time.Duration, historySize int) Model {
	return Model{
		profileID:   profileID,
		database:    database,
		requests:    requests,
		history:     NewHistoryBuffer(historySize),
		intervalIdx: nearestIntervalIdx(interval),
		selected:    -1,
	}
}

// nearestIntervalIdx snaps a requested period to the closest selectable
// step. Only an explicit zero (or less) maps to off.
func nearestIntervalIdx(interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	best := 1
	for i := 2; i < len(refreshIntervals); i++ {
		if (refreshIntervals[i] - interval).Abs() < (refreshIntervals[best] - interval).Abs() {
			best = i
		}
	}
	return best
}

// Interval returns the current auto-refresh period; zero means off.
func (m Model) Interval() time.Duration {
	return refreshIntervals[m.intervalIdx]
}

// IntervalLabel renders the current interval for the header.
func (m Model) IntervalLabel() string {
	d := m.Interval()
	if d == 0 {
		return "off"
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

// Init fires the first refresh and, if auto-refresh is on, the timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.requestCmd(RefreshRequest{})}
	if m.Interval() > 0 {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and advances the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case tickMsg:
		if m.Interval() == 0 {
			// Interval was switched off after this tick was scheduled.
			return m, nil
		}
		var cmds []tea.Cmd
		// Never overlap cycles: skip the refresh if one is in flight,
		// but keep the timer running.
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.requestCmd(RefreshRequest{}))
		}
		cmds = append(cmds, m.tickCmd())
		return m, tea.Batch(cmds...)

	case requestDroppedMsg:
		m.refreshing = false

	case StatsMsg:
		m.state = StateReady
		m.refreshing = false
		m.lastErr = ""
		m.lastUpdate = time.Now()
		// A discarded out-of-order cycle re-delivers the previous
		// sample; applying it is safe but it must not re-enter history.
		if last, ok := m.history.Last(); !ok || msg.Sample.At.After(last.At) {
			m.history.Push(msg.Sample)
		}
		m.clampSelection()

	case StatsErrMsg:
		// History is kept; only the error line changes.
		m.state = StateReady
		m.refreshing = false
		m.lastErr = msg.Err.Error()

	case DetailMsg:
		m.detail = msg.Detail
		m.viewMode = ViewDetail
		m.updateDetailContent()

	case DetailErrMsg:
		m.lastErr = msg.Err.Error()

	case ControlDoneMsg:
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
		} else {
			past := "cancelled"
			if msg.Verb == "terminate" {
				past = "terminated"
			}
			m.statusLine = fmt.Sprintf("%s backend %d", past, msg.PID)
			// The implicit refresh is already on its way.
			m.refreshing = true
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetailView()
	}
	return m.renderStatsView()
}

// Latest returns the most recent sample, if any.
func (m Model) Latest() (stats.Sample, bool) {
	return m.history.Last()
}

// SelectedQuery returns the currently selected active query, if the
// selection is valid against the latest sample.
func (m Model) SelectedQuery() (stats.ActiveQuery, bool) {
	sample, ok := m.history.Last()
	if !ok || m.selected < 0 || m.selected >= len(sample.Snapshot.ActiveQueries) {
		return stats.ActiveQuery{}, false
	}
	return sample.Snapshot.ActiveQueries[m.selected], true
}

// SecondsSinceUpdate returns how long ago the last sample arrived.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

// tickCmd schedules the next auto-refresh tick.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.Interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// requestCmd emits a request to the collector loop without blocking the
// UI. A saturated loop drops the request and reports the drop back,
// since a dropped request never produces a response to clear the busy
// flag.
func (m Model) requestCmd(req Request) tea.Cmd {
	requests := m.requests
	return func() tea.Msg {
		select {
		case requests <- req:
			return nil
		default:
			return requestDroppedMsg{}
		}
	}
}

// clampSelection keeps the active-query cursor inside the latest list.
func (m *Model) clampSelection() {
	sample, ok := m.history.Last()
	if !ok {
		m.selected = -1
		return
	}
	n := len(sample.Snapshot.ActiveQueries)
	if n == 0 {
		m.selected = -1
		return
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= n {
		m.selected = n - 1
	}
}

// resizeViewport sizes the drill-down viewport to the terminal,
// reserving rows for the header and footer.
func (m *Model) resizeViewport() {
	headerHeight := 3
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.detailViewport = viewport.New(m.width, viewportHeight)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.detailViewport.Width = m.width
		m.detailViewport.Height = viewportHeight
	}

	if m.viewMode == ViewDetail {
		m.updateDetailContent()
	}
}
