package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDetailView renders the drill-down screen inside the viewport.
func (m Model) renderDetailView() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("pgdash")
	kind := ""
	count := 0
	if m.detail != nil {
		kind = string(m.detail.Kind)
		count = len(m.detail.Rows)
	}
	b.WriteString(HeaderStyle.Render(title + LabelStyle.Render(fmt.Sprintf(" %s/%s | %s (%d)", m.profileID, m.database, kind, count))))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else if m.detail != nil {
		b.WriteString(m.detailTable())
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("esc back | ↑↓ scroll | q quit"))

	return b.String()
}

// updateDetailContent refreshes the viewport with the current listing.
func (m *Model) updateDetailContent() {
	if !m.viewportReady || m.detail == nil {
		return
	}
	m.detailViewport.SetContent(m.detailTable())
	m.detailViewport.GotoTop()
}

// detailTable renders the listing as an aligned text table.
func (m Model) detailTable() string {
	detail := m.detail
	if detail == nil {
		return ""
	}
	if len(detail.Rows) == 0 {
		return LabelStyle.Render(fmt.Sprintf("No %s found", detail.Kind))
	}

	// Column widths fit the widest cell, header included.
	widths := make([]int, len(detail.Columns))
	for i, col := range detail.Columns {
		widths[i] = len(col)
	}
	for _, row := range detail.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var lines []string
	lines = append(lines, TableHeaderStyle.Render(formatRow(detail.Columns, widths)))
	for _, row := range detail.Rows {
		lines = append(lines, ValueStyle.Render(formatRow(row, widths)))
	}

	return strings.Join(lines, "\n")
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		width := len(cell)
		if i < len(widths) {
			width = widths[i]
		}
		padded[i] = fmt.Sprintf("%-*s", width, cell)
	}
	return strings.Join(padded, "  ")
}
