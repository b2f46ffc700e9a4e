package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	Secondary = lipgloss.Color("#888")

	Blue   = lipgloss.Color("#4db7ff")
	Green  = lipgloss.Color("#00a352")
	Red    = lipgloss.Color("#c42912")
	Yellow = lipgloss.Color("#c4b810")
)

// styles degrade to plain text when out is not a terminal.
type styles struct {
	header  lipgloss.Style
	option  lipgloss.Style
	prompt  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	overdue lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(Blue),
		option:  r.NewStyle(),
		prompt:  r.NewStyle().Foreground(Secondary),
		success: r.NewStyle().Foreground(Green),
		failure: r.NewStyle().Foreground(Red),
		overdue: r.NewStyle().Foreground(Yellow),
		muted:   r.NewStyle().Foreground(Secondary),
	}
}
