package text

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-shelfview/pkg/render"
)

// Styles groups the lipgloss styles used for terminal output.
type Styles struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Badge     map[render.Tone]lipgloss.Style
	Chip      lipgloss.Style
	Card      lipgloss.Style
	Action    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	StatLabel lipgloss.Style
	StatValue lipgloss.Style
	FormError lipgloss.Style
}

// DefaultStyles builds the palette for out. Colour is dropped when out is
// not a terminal.
func DefaultStyles(out io.Writer) Styles {
	r := lipgloss.NewRenderer(out)
	return Styles{
		Title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#cdd6f4")),
		Muted: r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		Badge: map[render.Tone]lipgloss.Style{
			render.ToneSuccess: r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true),
			render.ToneWarning: r.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Bold(true),
		},
		Chip:      r.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
		Card:      r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#585b70")).Padding(0, 1),
		Action:    r.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		StatLabel: r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		StatValue: r.NewStyle().Bold(true),
		FormError: r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (s Styles) badge(tone render.Tone) lipgloss.Style {
	if style, ok := s.Badge[tone]; ok {
		return style
	}
	return s.Muted
}
