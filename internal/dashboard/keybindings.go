package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pgdash/internal/stats"
)

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeyTables        = "t"
	KeyViews         = "v"
	KeyFunctions     = "f"
	KeyCancel        = "c"
	KeyTerminate     = "x"
	KeySelectPrev    = "up"
	KeySelectPrevK   = "k"
	KeySelectNext    = "down"
	KeySelectNextJ   = "j"
	KeyCycleInterval = "i"
	KeyBack          = "esc"
	KeyToggleHelp    = "?"
)

// handleKey processes keyboard input. Returns true if the key was
// handled along with any command to run.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyBack {
		m.showHelp = false
		return true, nil
	}

	// Detail view: scroll keys go to the viewport, Esc goes back
	if m.viewMode == ViewDetail {
		switch key {
		case KeyBack:
			m.viewMode = ViewStats
			m.detail = nil
			return true, nil
		case KeyQuit, KeyQuitAlt:
			m.quitting = true
			return true, tea.Quit
		default:
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return true, cmd
		}
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		// Manual refresh works even with the timer off.
		if m.refreshing {
			return true, nil
		}
		m.refreshing = true
		return true, m.requestCmd(RefreshRequest{})

	case KeyTables:
		return true, m.requestCmd(DetailRequest{Kind: stats.DetailTables})

	case KeyViews:
		return true, m.requestCmd(DetailRequest{Kind: stats.DetailViews})

	case KeyFunctions:
		return true, m.requestCmd(DetailRequest{Kind: stats.DetailFunctions})

	case KeyCancel:
		if query, ok := m.SelectedQuery(); ok {
			return true, m.requestCmd(CancelRequest{PID: query.PID})
		}
		return true, nil

	case KeyTerminate:
		if query, ok := m.SelectedQuery(); ok {
			return true, m.requestCmd(TerminateRequest{PID: query.PID})
		}
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if sample, ok := m.history.Last(); ok && m.selected < len(sample.Snapshot.ActiveQueries)-1 {
			m.selected++
		}
		return true, nil

	case KeyCycleInterval:
		wasOff := m.Interval() == 0
		m.intervalIdx = (m.intervalIdx + 1) % len(refreshIntervals)
		// A running tick chain picks the new interval up on its own;
		// only a stopped timer needs a fresh tick.
		if wasOff && m.Interval() > 0 {
			return true, m.tickCmd()
		}
		return true, nil
	}

	return false, nil
}
