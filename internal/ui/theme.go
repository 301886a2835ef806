package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette holds the colors of one theme. The dark values follow the page's
// original dark mode (deep navy background, pale text).
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	card    lipgloss.Color
	accent  lipgloss.Color
	danger  lipgloss.Color
	success lipgloss.Color
	banner  lipgloss.Color
}

var (
	lightPalette = palette{
		text:    lipgloss.Color("#0f172a"),
		muted:   lipgloss.Color("#64748b"),
		card:    lipgloss.Color("#cbd5e1"),
		accent:  lipgloss.Color("#2563eb"),
		danger:  lipgloss.Color("#dc2626"),
		success: lipgloss.Color("#16a34a"),
		banner:  lipgloss.Color("#1e293b"),
	}
	darkPalette = palette{
		text:    lipgloss.Color("#e6eef8"),
		muted:   lipgloss.Color("#94a3b8"),
		card:    lipgloss.Color("#1e293b"),
		accent:  lipgloss.Color("#60a5fa"),
		danger:  lipgloss.Color("#f87171"),
		success: lipgloss.Color("#4ade80"),
		banner:  lipgloss.Color("#081024"),
	}
)

type styles struct {
	title      lipgloss.Style
	tab        lipgloss.Style
	tabActive  lipgloss.Style
	muted      lipgloss.Style
	card       lipgloss.Style
	cardActive lipgloss.Style
	taskTitle  lipgloss.Style
	overdue    lipgloss.Style
	completed  lipgloss.Style
	banner     lipgloss.Style
	validation lipgloss.Style
	prompt     lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(p.text),
		tab:        lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		tabActive:  lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true).Padding(0, 1),
		muted:      lipgloss.NewStyle().Foreground(p.muted),
		card:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.card).Padding(0, 1),
		cardActive: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
		taskTitle:  lipgloss.NewStyle().Bold(true).Foreground(p.text),
		overdue:    lipgloss.NewStyle().Bold(true).Foreground(p.danger),
		completed:  lipgloss.NewStyle().Strikethrough(true).Foreground(p.success),
		banner:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(p.banner).Padding(0, 1),
		validation: lipgloss.NewStyle().Bold(true).Foreground(p.danger),
		prompt:     lipgloss.NewStyle().Bold(true).Foreground(p.accent),
	}
}

// configureColor drops to plain ASCII output when NO_COLOR is set.
func configureColor() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
