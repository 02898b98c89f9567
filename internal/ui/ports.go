package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/weather"
)

// trigger tracks whether the user may start another action.
type trigger struct {
	mu      sync.Mutex
	enabled bool
}

func (t *trigger) SetTriggerEnabled(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	t.mu.Unlock()
}

// triggerEnabled reports whether a new search may be started.
func (t *trigger) triggerEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// UserPorts renders the user finder to a terminal.
type UserPorts struct {
	trigger
	w     io.Writer
	theme Theme
}

// NewUserPorts creates terminal view ports for the user finder.
func NewUserPorts(w io.Writer, theme Theme) *UserPorts {
	return &UserPorts{w: w, theme: theme}
}

func (p *UserPorts) ShowInitial() {
	fmt.Fprintln(p.w, p.theme.Dim.Render("Enter a GitHub username to look up a profile."))
}

func (p *UserPorts) ShowLoading() {
	fmt.Fprintln(p.w, p.theme.Accent.Render("Searching..."))
}

func (p *UserPorts) ShowError(err *search.AppError) {
	showError(p.w, p.theme, err)
}

func (p *UserPorts) ShowSuccess(prof github.Profile) {
	fmt.Fprintln(p.w, RenderProfile(p.theme, prof))
}

// RenderProfile lays out a profile card.
func RenderProfile(th Theme, prof github.Profile) string {
	var b strings.Builder
	b.WriteString(th.Title.Render(prof.Name) + " " + th.Dim.Render(prof.Handle) + "\n")
	b.WriteString(th.Text.Render(prof.Bio) + "\n\n")

	stats := []string{
		th.Accent.Render(prof.Repos) + th.Dim.Render(" repos"),
		th.Accent.Render(prof.Followers) + th.Dim.Render(" followers"),
		th.Accent.Render(prof.Following) + th.Dim.Render(" following"),
	}
	b.WriteString(strings.Join(stats, th.Dim.Render("  ·  ")) + "\n")

	if len(prof.Details) > 0 {
		b.WriteString("\n")
	}
	for _, row := range prof.Details {
		label := th.Dim.Render(fmt.Sprintf("%-9s", row.Label+":"))
		if row.IsLink() {
			b.WriteString(label + " " + th.Link.Render(row.Text) + th.Dim.Render(" <"+row.Href+">") + "\n")
		} else {
			b.WriteString(label + " " + th.Text.Render(row.Text) + "\n")
		}
	}
	if prof.Joined != "" {
		b.WriteString(th.Dim.Render(fmt.Sprintf("%-9s", "Joined:")) + " " + th.Text.Render(prof.Joined) + "\n")
	}
	b.WriteString("\n" + th.Link.Render(prof.ProfileURL))

	return th.Card.Render(b.String())
}

// WeatherPorts renders the weather reporter to a terminal.
type WeatherPorts struct {
	trigger
	w     io.Writer
	theme Theme
}

// NewWeatherPorts creates terminal view ports for the weather reporter.
func NewWeatherPorts(w io.Writer, theme Theme) *WeatherPorts {
	return &WeatherPorts{w: w, theme: theme}
}

func (p *WeatherPorts) ShowInitial() {}

func (p *WeatherPorts) ShowLoading() {
	fmt.Fprintln(p.w, p.theme.Accent.Render("Getting your location and current weather..."))
}

func (p *WeatherPorts) ShowError(err *search.AppError) {
	showError(p.w, p.theme, err)
}

func (p *WeatherPorts) ShowSuccess(rep weather.Report) {
	fmt.Fprintln(p.w, RenderReport(p.theme, rep))
}

// RenderReport lays out a weather card.
func RenderReport(th Theme, rep weather.Report) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render(rep.LocationName),
		th.Dim.Render(rep.LocationDetails),
	)
	temp := th.Accent.Bold(true).Render(fmt.Sprintf("%d°C", rep.Temperature)) + "  " + th.Text.Render(rep.Condition)

	rows := [][2]string{
		{"Feels like", rep.FeelsLike},
		{"Humidity", rep.Humidity},
		{"Wind", rep.Wind},
		{"Visibility", rep.Visibility},
		{"Coordinates", rep.Coordinates},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, th.Dim.Render(fmt.Sprintf("%-12s", r[0]+":"))+" "+th.Text.Render(r[1]))
	}

	return th.Card.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", temp, "", strings.Join(lines, "\n")))
}

func showError(w io.Writer, th Theme, err *search.AppError) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, th.Error.Render("✗ ")+th.Text.Render(err.Message))
}
