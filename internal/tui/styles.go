package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#2563EB")
	muted  = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#DC2626")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	errorStyle = lipgloss.NewStyle().Foreground(danger)
	labelStyle = lipgloss.NewStyle().Bold(true)

	userStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	botStyle  = lipgloss.NewStyle().Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	tableBorderStyle = lipgloss.NewStyle().Foreground(muted)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableTotalsStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)
