package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/belajar/internal/logbook"
	"github.com/faizmokh/belajar/internal/version"
)

func newThemeCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the colour theme.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			current := store.Theme(ctx)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintf(out, "Theme: %s\n", current)
				return nil
			}

			var next logbook.Theme
			switch strings.ToLower(args[0]) {
			case "dark":
				next = logbook.ThemeDark
			case "light":
				next = logbook.ThemeLight
			case "toggle":
				next = current.Toggle()
			default:
				return fmt.Errorf("invalid theme %q (expected dark|light|toggle)", args[0])
			}

			if err := store.SetTheme(ctx, next); err != nil {
				return err
			}
			fmt.Fprintf(out, "Theme set to %s\n", next)
			return nil
		},
	}

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
