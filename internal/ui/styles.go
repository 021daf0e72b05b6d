package ui

import (
	"github.com/nconklindev/datecast/internal/types"

	"github.com/charmbracelet/lipgloss"
)

const (
	accent    = lipgloss.Color("#4FB0C6")
	highlight = lipgloss.Color("#9AD1D4")
	muted     = lipgloss.Color("#6B7280")
	danger    = lipgloss.Color("#FF4757")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	CursorStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	PlainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	DateStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C3A6FF")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

func kindStyle(kind types.ColumnKind) lipgloss.Style {
	switch kind {
	case types.KindDate:
		return DateStyle
	case types.KindTimestamp:
		return TimestampStyle
	}
	return PlainStyle
}
