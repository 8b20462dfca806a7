package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/wsx/internal/shared"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	selected lipgloss.Style
	target   lipgloss.Style
	hover    lipgloss.Style
	card     lipgloss.Style

	accent  string
	success string
	muted   string
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		selected: NewBold(t),
		target:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
		hover:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
		card:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color(h)).PaddingLeft(1),
		accent:   t,
		success:  s,
		muted:    h,
	}
}

// PaletteFromConfig builds the palette from the [ui] section of the config file.
func PaletteFromConfig(cfg shared.UIConfig) *Palette {
	return NewPalette(cfg.Accent, cfg.Success, cfg.Error, cfg.Warning, cfg.Muted)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
