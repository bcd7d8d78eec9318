package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pgdash/internal/stats"
)

// renderStatsView renders the main dashboard screen.
func (m Model) renderStatsView() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.state == StateLoading {
		b.WriteString(LabelStyle.Render("Connecting and collecting the first snapshot..."))
		b.WriteString("\n")
		b.WriteString(m.renderMessageLine())
		return b.String()
	}

	sample, ok := m.history.Last()
	if !ok {
		b.WriteString(LabelStyle.Render("No data yet"))
		b.WriteString("\n")
		b.WriteString(m.renderMessageLine())
		return b.String()
	}
	snap := sample.Snapshot

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderOverview(snap),
		m.renderConnections(snap),
		m.renderRates(sample),
	)
	b.WriteString(top)
	b.WriteString("\n")

	b.WriteString(m.renderTopTables(snap))
	b.WriteString("\n")
	b.WriteString(m.renderActiveQueries(snap))

	if len(snap.BlockingLocks) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderBlockingLocks(snap))
	}

	b.WriteString("\n")
	b.WriteString(m.renderMessageLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with session info.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("pgdash")

	target := fmt.Sprintf(" %s/%s", m.profileID, m.database)

	var state string
	switch {
	case m.state == StateLoading:
		state = RefreshingStyle.Render("loading")
	case m.refreshing:
		state = RefreshingStyle.Render("refreshing")
	default:
		state = StatusStyle.Render("live")
	}

	var updated string
	if !m.lastUpdate.IsZero() {
		secs := m.SecondsSinceUpdate()
		switch secs {
		case 0:
			updated = "just now"
		case 1:
			updated = "1s ago"
		default:
			updated = fmt.Sprintf("%ds ago", secs)
		}
		updated = " | updated " + updated
	}

	info := LabelStyle.Render(fmt.Sprintf("%s | interval %s%s | ", target, m.IntervalLabel(), updated))

	return HeaderStyle.Render(title + info + state)
}

// renderOverview renders database metadata and object counts.
func (m Model) renderOverview(snap *stats.Snapshot) string {
	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Database"))
	lines = append(lines, renderField("Owner", snap.Owner))
	lines = append(lines, renderField("Size", humanize.IBytes(uint64(snap.SizeBytes))))
	lines = append(lines, renderField("Extensions", fmt.Sprintf("%d", snap.Extensions)))
	lines = append(lines, renderField("Schemas", fmt.Sprintf("%d", snap.Objects.Schemas)))
	lines = append(lines, renderField("Tables", fmt.Sprintf("%d", snap.Objects.Tables)))
	lines = append(lines, renderField("Views", fmt.Sprintf("%d", snap.Objects.Views)))
	lines = append(lines, renderField("Functions", fmt.Sprintf("%d", snap.Objects.Functions)))
	lines = append(lines, renderField("Sequences", fmt.Sprintf("%d", snap.Objects.Sequences)))
	return SectionStyle.Render(strings.Join(lines, "\n"))
}

// renderConnections renders the session-state histogram.
func (m Model) renderConnections(snap *stats.Snapshot) string {
	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Connections"))
	lines = append(lines, renderField("Active", fmt.Sprintf("%d", snap.Connections.Active)))
	lines = append(lines, renderField("Idle", fmt.Sprintf("%d", snap.Connections.Idle)))
	lines = append(lines, renderField("Total", fmt.Sprintf("%d", snap.Connections.Total)))
	for _, sc := range snap.Connections.Breakdown {
		lines = append(lines, renderField("  "+sc.State, fmt.Sprintf("%d", sc.Count)))
	}
	return SectionStyle.Render(strings.Join(lines, "\n"))
}

// graphWidth is the sparkline width in the rates section.
const graphWidth = 30

// renderRates renders the four counter rates with their history graphs.
func (m Model) renderRates(sample stats.Sample) string {
	rows := []struct {
		label   string
		value   float64
		color   lipgloss.Color
		extract func(stats.Sample) float64
	}{
		{"Commits/s", sample.Rates.CommitsPerSec, ColorCommits,
			func(s stats.Sample) float64 { return s.Rates.CommitsPerSec }},
		{"Rollbacks/s", sample.Rates.RollbacksPerSec, ColorRollbacks,
			func(s stats.Sample) float64 { return s.Rates.RollbacksPerSec }},
		{"Blks read/s", sample.Rates.BlocksReadPerSec, ColorBlocksRead,
			func(s stats.Sample) float64 { return s.Rates.BlocksReadPerSec }},
		{"Blks hit/s", sample.Rates.BlocksHitPerSec, ColorBlocksHit,
			func(s stats.Sample) float64 { return s.Rates.BlocksHitPerSec }},
	}

	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Activity"))
	for _, row := range rows {
		graph := RenderSparkline(m.history.Series(row.extract), graphWidth, row.color)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			LabelStyle.Width(12).Render(row.label),
			ValueStyle.Width(9).Render(formatRate(row.value)),
			graph))
	}
	return SectionStyle.Render(strings.Join(lines, "\n"))
}

// renderTopTables renders the largest tables by total size.
func (m Model) renderTopTables(snap *stats.Snapshot) string {
	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Largest tables"))
	if len(snap.TopTables) == 0 {
		lines = append(lines, LabelStyle.Render("none"))
	}
	for _, ts := range snap.TopTables {
		lines = append(lines, renderField(ts.Name, humanize.IBytes(uint64(ts.Bytes))))
	}
	return SectionStyle.Render(strings.Join(lines, "\n"))
}

// renderActiveQueries renders the active-query table with the current
// selection highlighted.
func (m Model) renderActiveQueries(snap *stats.Snapshot) string {
	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Active queries"))

	if len(snap.ActiveQueries) == 0 {
		lines = append(lines, LabelStyle.Render("none"))
		return SectionStyle.Render(strings.Join(lines, "\n"))
	}

	lines = append(lines, TableHeaderStyle.Render(
		fmt.Sprintf("%-7s %-12s %-8s %-9s %s", "PID", "USER", "STATE", "DURATION", "QUERY")))

	queryWidth := m.width - 45
	if queryWidth < 20 {
		queryWidth = 20
	}
	for i, aq := range snap.ActiveQueries {
		row := fmt.Sprintf("%-7d %-12s %-8s %-9s %s",
			aq.PID, truncate(aq.User, 12), truncate(aq.State, 8),
			aq.Duration, truncate(collapseWhitespace(aq.Query), queryWidth))
		if i == m.selected {
			lines = append(lines, SelectedRowStyle.Render(row))
		} else {
			lines = append(lines, ValueStyle.Render(row))
		}
	}

	return SectionStyle.Render(strings.Join(lines, "\n"))
}

// renderBlockingLocks renders blocked/blocking session pairs.
func (m Model) renderBlockingLocks(snap *stats.Snapshot) string {
	var lines []string
	lines = append(lines, SectionTitleStyle.Render("Blocking locks"))
	for _, bl := range snap.BlockingLocks {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("%d (%s) blocked by %d (%s) %s on %s",
			bl.BlockedPID, bl.BlockedUser, bl.BlockingPID, bl.BlockingUser, bl.Mode, bl.Relation)))
		lines = append(lines, LabelStyle.Render("  waiting: "+truncate(collapseWhitespace(bl.BlockedQuery), 70)))
		lines = append(lines, LabelStyle.Render("  holding: "+truncate(collapseWhitespace(bl.BlockingQuery), 70)))
	}
	return SectionStyle.Render(strings.Join(lines, "\n"))
}

// renderMessageLine shows the latest error or control acknowledgement.
func (m Model) renderMessageLine() string {
	if m.lastErr != "" {
		return ErrorStyle.Render(m.lastErr)
	}
	if m.statusLine != "" {
		return StatusStyle.Render(m.statusLine)
	}
	return ""
}

// renderFooter renders the keyboard hint line.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"i interval",
		"t/v/f details",
		"↑↓ select",
		"c cancel",
		"x terminate",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func renderField(label, value string) string {
	return LabelStyle.Width(14).Render(label) + ValueStyle.Render(value)
}

// formatRate renders a per-second rate compactly.
func formatRate(v float64) string {
	switch {
	case v >= 1000000:
		return fmt.Sprintf("%.1fM", v/1000000)
	case v >= 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// truncate cuts s to at most width runes, appending an ellipsis when
// anything was dropped.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// collapseWhitespace flattens multi-line SQL into one display line.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
