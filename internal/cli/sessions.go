package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/belajar/internal/chart"
	"github.com/faizmokh/belajar/internal/logbook"
)

func newLogCommand(ctx context.Context, app *App) *cobra.Command {
	var (
		dateFlag    string
		noteFlag    string
		minutesFlag int
	)

	cmd := &cobra.Command{
		Use:   "log <subject ...>",
		Short: "Record a study session.",
		Long:  "log appends a session for the subject. --minutes defaults to default_minutes from config.toml.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := strings.TrimSpace(strings.Join(args, " "))
			if subject == "" {
				return logbook.ErrEmptySubject
			}

			date, err := resolveDate(dateFlag, app.now())
			if err != nil {
				return err
			}

			minutes := minutesFlag
			if !cmd.Flags().Changed("minutes") {
				cfg, err := app.Config()
				if err != nil {
					return err
				}
				minutes = cfg.DefaultMinutes
			}

			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			session, err := store.Add(ctx, logbook.Session{
				Date:     date,
				Subject:  subject,
				Duration: minutes,
				Note:     noteFlag,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s\n", formatSession(session))
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutesFlag, "minutes", "m", 0, "Duration in minutes")
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Session date: YYYY-MM-DD or e.g. \"yesterday\" (default: today)")
	cmd.Flags().StringVarP(&noteFlag, "note", "n", "", "Optional note")

	return cmd
}

func newListCommand(ctx context.Context, app *App) *cobra.Command {
	var (
		subjectFlag string
		limitFlag   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limitFlag < 0 {
				return fmt.Errorf("limit must be zero or positive")
			}
			store, err := app.Store(ctx)
			if err != nil {
				return err
			}

			sessions := store.Recent()
			if subjectFlag != "" {
				filtered := sessions[:0]
				for _, s := range sessions {
					if strings.EqualFold(s.Subject, strings.TrimSpace(subjectFlag)) {
						filtered = append(filtered, s)
					}
				}
				sessions = filtered
			}
			if limitFlag > 0 && len(sessions) > limitFlag {
				sessions = sessions[:limitFlag]
			}

			printSessions(cmd, sessions)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subjectFlag, "subject", "s", "", "Only show this subject (case-insensitive)")
	cmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "Maximum number of sessions to show (0 = all)")

	return cmd
}

func newEditCommand(ctx context.Context, app *App) *cobra.Command {
	var (
		dateFlag    string
		subjectFlag string
		noteFlag    string
		minutesFlag int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Modify a session by ID or ID prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("date") && !flags.Changed("subject") && !flags.Changed("minutes") && !flags.Changed("note") {
				return fmt.Errorf("nothing to update (use --date, --subject, --minutes or --note)")
			}

			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			current, err := store.Resolve(args[0])
			if err != nil {
				return err
			}

			updated := current
			if flags.Changed("date") {
				date, err := resolveDate(dateFlag, app.now())
				if err != nil {
					return err
				}
				updated.Date = date
			}
			if flags.Changed("subject") {
				updated.Subject = subjectFlag
			}
			if flags.Changed("minutes") {
				updated.Duration = minutesFlag
			}
			if flags.Changed("note") {
				updated.Note = noteFlag
			}

			saved, err := store.Replace(ctx, current.ID, updated)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatSession(saved))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "New date")
	cmd.Flags().StringVarP(&subjectFlag, "subject", "s", "", "New subject")
	cmd.Flags().IntVarP(&minutesFlag, "minutes", "m", 0, "New duration in minutes")
	cmd.Flags().StringVarP(&noteFlag, "note", "n", "", "New note (empty string clears it)")

	return cmd
}

func newDeleteCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a session by ID or ID prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			session, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			removed, err := store.Remove(ctx, session.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatSession(removed))
			return nil
		},
	}

	return cmd
}

func newClearCommand(ctx context.Context, app *App) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if store.Len() == 0 {
				fmt.Fprintln(out, "No data to clear.")
				return nil
			}

			if !yesFlag {
				if !app.interactive() {
					return fmt.Errorf("refusing to clear %d sessions without --yes", store.Len())
				}
				title := fmt.Sprintf("Delete all %d %s? This cannot be undone.", store.Len(), chart.Plural(store.Len(), "session", "sessions"))
				ok, err := app.confirm(title)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Clear cancelled.")
					return nil
				}
			}

			count, err := store.Clear(ctx)
			if errors.Is(err, logbook.ErrNothingToClear) {
				fmt.Fprintln(out, "No data to clear.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Cleared %d %s.\n", count, chart.Plural(count, "session", "sessions"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
