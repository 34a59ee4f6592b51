package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/faizmokh/belajar/internal/chart"
	"github.com/faizmokh/belajar/internal/stats"
)

const (
	listRows  = 8
	noteWidth = 32
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("belajar"))
	b.WriteString("  ")
	b.WriteString(m.styles.Value.Render(m.summaryLine()))
	b.WriteString("\n\n")

	b.WriteString(m.sessionList())
	b.WriteString("\n\n")
	b.WriteString(chart.Render(m.sessions, m.chartWidth(), m.styles))
	b.WriteString("\n")

	switch m.mode {
	case modeAdd, modeEdit:
		b.WriteString("\n")
		b.WriteString(m.formView())
	case modeImport:
		b.WriteString("\nImport file (.json or .csv; Enter to import, Esc to cancel):\n")
		b.WriteString(m.pathInput.View())
		b.WriteByte('\n')
	case modeConfirmDelete:
		if s, ok := m.current(); ok {
			fmt.Fprintf(&b, "\nDelete %s on %s? (y/n)\n", s.Subject, s.Date)
		}
	case modeConfirmClear:
		fmt.Fprintf(&b, "\nDelete all %d %s? This cannot be undone. (y/n)\n", len(m.sessions), chart.Plural(len(m.sessions), "session", "sessions"))
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k select  a add  e edit  d delete  C clear  i import  x/X export json/csv  t theme  r reload  q quit"))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) summaryLine() string {
	summary := stats.Summarize(m.sessions)
	if summary.TotalSessions == 0 {
		return "no sessions logged"
	}
	return fmt.Sprintf("%s %s · %s total · %d %s · avg %s min",
		humanize.Comma(int64(summary.TotalSessions)), chart.Plural(summary.TotalSessions, "session", "sessions"),
		chart.FormatMinutes(summary.TotalMinutes),
		summary.UniqueSubjects, chart.Plural(summary.UniqueSubjects, "subject", "subjects"),
		humanize.FtoaWithDigits(summary.AverageMinutes, 1),
	)
}

// sessionList shows a window of rows around the selection.
func (m Model) sessionList() string {
	if len(m.sessions) == 0 {
		return m.styles.Muted.Render("(no sessions)")
	}

	start := 0
	if m.selected >= listRows {
		start = m.selected - listRows + 1
	}
	end := min(start+listRows, len(m.sessions))

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		s := m.sessions[i]
		line := fmt.Sprintf("%s  %-20s %6s", s.Date, truncate(s.Subject, 20), chart.FormatMinutes(s.Duration))
		if s.Note != "" {
			line += "  " + truncate(s.Note, noteWidth)
		}
		if i == m.selected {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	if len(m.sessions) > listRows {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("  %d of %d", m.selected+1, len(m.sessions))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formView() string {
	var b strings.Builder
	title := "New session"
	if m.mode == modeEdit {
		title = "Edit session"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString(" (Tab to move, Enter on the last field or Ctrl+S to save, Esc to cancel)\n")
	for i, in := range m.form {
		cursor := "  "
		if i == m.focus {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%-8s %s\n", cursor, fieldLabels[i]+":", in.View())
	}
	return b.String()
}

func (m Model) chartWidth() int {
	width := m.cfg.ChartWidth
	// leave room for labels and totals
	if m.width > 0 && m.width-30 < width {
		width = max(m.width-30, 10)
	}
	return width
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
