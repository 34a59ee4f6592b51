package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/faizmokh/belajar/internal/chart"
	"github.com/faizmokh/belajar/internal/logbook"
)

const noteWidth = 40

var dateLayouts = []string{
	logbook.DateLayout,
	"2006/01/02",
	"02/01/2006",
}

// resolveDate accepts YYYY-MM-DD, a couple of slash layouts, or natural
// language such as "yesterday" or "last monday". Empty means today.
func resolveDate(value string, now time.Time) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return logbook.FormatDate(now), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return logbook.FormatDate(t), nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(value, now)
	if err != nil || result == nil {
		return "", fmt.Errorf("parse date %q: %w", value, logbook.ErrInvalidDate)
	}
	return logbook.FormatDate(result.Time), nil
}

func formatSession(s logbook.Session) string {
	var b strings.Builder
	b.Grow(48 + len(s.Subject) + len(s.Note))

	fmt.Fprintf(&b, "%s  %s  %s (%s)", s.ShortID(), s.Date, s.Subject, chart.FormatMinutes(s.Duration))
	if s.Note != "" {
		b.WriteString(" - ")
		b.WriteString(truncate(s.Note, noteWidth))
	}
	return b.String()
}

// truncate shortens s to width runes, flattening newlines so a row stays on
// one line.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func printSessions(cmd *cobra.Command, sessions []logbook.Session) {
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions yet.")
		return
	}
	for _, s := range sessions {
		fmt.Fprintln(out, formatSession(s))
	}
}
