// Package chart draws the subject and timeline bar charts shown by the stats
// command and the dashboard.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/belajar/internal/logbook"
	"github.com/faizmokh/belajar/internal/stats"
)

// EmptyMessage replaces the charts when there is nothing to plot.
const EmptyMessage = "No data yet"

const barRune = "█"

// Palette is assigned to subjects in first-seen order and wraps around.
var Palette = []lipgloss.Color{
	"#FF6384",
	"#36A2EB",
	"#FFCD56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
	"#22C55E",
	"#F97316",
	"#EC4899",
	"#3B82F6",
}

// Colors maps each distinct subject to a palette entry in the order given.
func Colors(subjects []string) map[string]lipgloss.Color {
	out := make(map[string]lipgloss.Color, len(subjects))
	for _, subject := range subjects {
		if _, ok := out[subject]; ok {
			continue
		}
		out[subject] = Palette[len(out)%len(Palette)]
	}
	return out
}

// Styles are the theme-dependent text styles charts and views share.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Color
}

// NewStyles picks foregrounds that read well on the given theme.
func NewStyles(theme logbook.Theme) Styles {
	fg, muted, accent := lipgloss.Color("235"), lipgloss.Color("244"), lipgloss.Color("#36A2EB")
	if theme == logbook.ThemeDark {
		fg, muted, accent = lipgloss.Color("252"), lipgloss.Color("241"), lipgloss.Color("#4BC0C0")
	}
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:  lipgloss.NewStyle().Foreground(fg),
		Value:  lipgloss.NewStyle().Foreground(muted),
		Muted:  lipgloss.NewStyle().Foreground(muted).Italic(true),
		Accent: accent,
	}
}

// Render draws both charts for sessions, or EmptyMessage when there are none.
func Render(sessions []logbook.Session, width int, styles Styles) string {
	if len(sessions) == 0 {
		return styles.Muted.Render(EmptyMessage)
	}
	colors := Colors(stats.Subjects(sessions))

	var b strings.Builder
	b.WriteString(styles.Title.Render("Time by subject"))
	b.WriteString("\n")
	b.WriteString(Subjects(stats.BySubject(sessions), colors, width, styles))
	b.WriteString("\n\n")
	b.WriteString(styles.Title.Render("Daily timeline"))
	b.WriteString("\n")
	b.WriteString(Timeline(stats.ByDay(sessions), width, styles))
	return b.String()
}

// Subjects draws one coloured bar per subject total.
func Subjects(totals []stats.SubjectTotal, colors map[string]lipgloss.Color, width int, styles Styles) string {
	if len(totals) == 0 {
		return styles.Muted.Render(EmptyMessage)
	}
	labels := make([]string, len(totals))
	values := make([]int, len(totals))
	for i, t := range totals {
		labels[i], values[i] = t.Subject, t.Minutes
	}

	labelWidth := widest(labels)
	lines := make([]string, len(totals))
	for i, bar := range scale(values, width) {
		color, ok := colors[labels[i]]
		if !ok {
			color = Palette[i%len(Palette)]
		}
		lines[i] = row(labels[i], labelWidth, lipgloss.NewStyle().Foreground(color).Render(bar), values[i], styles)
	}
	return strings.Join(lines, "\n")
}

// Timeline draws one bar per day in ascending date order.
func Timeline(days []stats.DayTotal, width int, styles Styles) string {
	if len(days) == 0 {
		return styles.Muted.Render(EmptyMessage)
	}
	labels := make([]string, len(days))
	values := make([]int, len(days))
	for i, d := range days {
		labels[i], values[i] = d.Date, d.Minutes
	}

	barStyle := lipgloss.NewStyle().Foreground(styles.Accent)
	labelWidth := widest(labels)
	lines := make([]string, len(days))
	for i, bar := range scale(values, width) {
		lines[i] = row(labels[i], labelWidth, barStyle.Render(bar), values[i], styles)
	}
	return strings.Join(lines, "\n")
}

func row(label string, labelWidth int, bar string, minutes int, styles Styles) string {
	return fmt.Sprintf("%s │ %s %s", styles.Label.Width(labelWidth).Render(label), bar, styles.Value.Render(FormatMinutes(minutes)))
}

func widest(labels []string) int {
	w := 0
	for _, l := range labels {
		w = max(w, lipgloss.Width(l))
	}
	return w
}

// scale turns values into bars no wider than width. Positive values always
// get at least one block.
func scale(values []int, width int) []string {
	if width < 1 {
		width = 1
	}
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}

	bars := make([]string, len(values))
	for i, v := range values {
		if v <= 0 || peak == 0 {
			continue
		}
		n := int(math.Round(float64(v) / float64(peak) * float64(width)))
		bars[i] = strings.Repeat(barRune, max(n, 1))
	}
	return bars
}

// FormatMinutes renders 45 as "45m" and 135 as "2h 15m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Plural picks the singular or plural noun for count.
func Plural(count int, singular, many string) string {
	if count == 1 {
		return singular
	}
	return many
}
