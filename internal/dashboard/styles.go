package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette.
const (
	ColorBorder = lipgloss.Color("#2A3B4D")

	ColorHealthy  = lipgloss.Color("#2ECC71")
	ColorWarning  = lipgloss.Color("#F39C12")
	ColorCritical = lipgloss.Color("#E74C3C")

	ColorTextPrimary   = lipgloss.Color("#ECF0F1")
	ColorTextSecondary = lipgloss.Color("#95A5B8")
	ColorTextMuted     = lipgloss.Color("#5D6D7E")

	ColorAccent = lipgloss.Color("#3498DB")

	// Per-counter graph colors
	ColorCommits    = lipgloss.Color("#2ECC71")
	ColorRollbacks  = lipgloss.Color("#E74C3C")
	ColorBlocksRead = lipgloss.Color("#F39C12")
	ColorBlocksHit  = lipgloss.Color("#3498DB")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(lipgloss.Color("#1F3A5F")).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	RefreshingStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Bold(true).
				Underline(true)
)
