package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout.
// lipgloss v1.x auto-detects TrueColor but doesn't apply it without
// an explicit SetColorProfile call on some terminals.
var Renderer = NewRenderer(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))

// NewRenderer binds a renderer to w. Colour is dropped when w is not a terminal.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// Predefined styles for consistent CLI output.
var (
	Green = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan  = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red   = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	White = Renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Dim   = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

// Theme is the set of styles a view port draws with.
type Theme struct {
	Title  lipgloss.Style
	Accent lipgloss.Style
	Error  lipgloss.Style
	Text   lipgloss.Style
	Dim    lipgloss.Style
	Link   lipgloss.Style
	Card   lipgloss.Style
}

// NewTheme derives the view-port styles from r.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Title:  r.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		Accent: r.NewStyle().Foreground(lipgloss.Color("14")),
		Error:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Text:   r.NewStyle().Foreground(lipgloss.Color("15")),
		Dim:    r.NewStyle().Foreground(lipgloss.Color("245")),
		Link:   r.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		Card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}
