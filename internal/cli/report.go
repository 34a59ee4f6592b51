package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/faizmokh/belajar/internal/chart"
	"github.com/faizmokh/belajar/internal/logbook"
	"github.com/faizmokh/belajar/internal/stats"
)

func newStatsCommand(ctx context.Context, app *App) *cobra.Command {
	var widthFlag int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals and charts by subject and day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if widthFlag < 0 {
				return fmt.Errorf("width must be positive")
			}
			return runStats(ctx, cmd, app, widthFlag)
		},
	}

	cmd.Flags().IntVarP(&widthFlag, "width", "w", 0, "Maximum bar width (default: chart_width from config.toml)")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, app *App, width int) error {
	cfg, err := app.Config()
	if err != nil {
		return err
	}
	if width == 0 {
		width = cfg.ChartWidth
	}
	store, err := app.Store(ctx)
	if err != nil {
		return err
	}

	sessions := store.Sessions()
	out := cmd.OutOrStdout()
	styles := chart.NewStyles(store.Theme(ctx))

	if len(sessions) == 0 {
		fmt.Fprintln(out, chart.Render(nil, width, styles))
		return nil
	}

	summary := stats.Summarize(sessions)
	fmt.Fprintf(out, "Sessions:  %s\n", humanize.Comma(int64(summary.TotalSessions)))
	fmt.Fprintf(out, "Total:     %s (%s minutes)\n", chart.FormatMinutes(summary.TotalMinutes), humanize.Comma(int64(summary.TotalMinutes)))
	fmt.Fprintf(out, "Subjects:  %d\n", summary.UniqueSubjects)
	fmt.Fprintf(out, "Average:   %s minutes\n", humanize.FtoaWithDigits(summary.AverageMinutes, 1))
	fmt.Fprintf(out, "Range:     %s to %s%s\n", summary.FirstDate, summary.LastDate, lastActivity(summary.LastDate, app.now()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, chart.Render(sessions, width, styles))
	return nil
}

// lastActivity describes how long ago date was, e.g. " (last 3 days ago)".
func lastActivity(date string, now time.Time) string {
	day, err := logbook.ParseDate(date)
	if err != nil {
		return ""
	}
	today, _ := logbook.ParseDate(logbook.FormatDate(now))
	if !day.Before(today) {
		return " (last today)"
	}
	return " (last " + humanize.RelTime(day, today, "ago", "from now") + ")"
}
