package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/belajar/internal/files"
	"github.com/faizmokh/belajar/internal/ui"
	"github.com/faizmokh/belajar/internal/version"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and the dashboard.
func NewRootCommand(ctx context.Context, app *App) *cobra.Command {
	var home string

	cmd := &cobra.Command{
		Use:     "belajar",
		Short:   "Log study sessions and review your progress from the terminal.",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				return nil
			}
			return app.setHome(home)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return runStats(ctx, cmd, app, 0)
			}
			return runDashboard(ctx, app)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&home, "home", "", "Data directory (default: $BELAJAR_HOME or ~/.belajar)")
	cmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log debug details to stderr")
	cmd.SetVersionTemplate(version.Info() + "\n")

	cmd.AddCommand(
		newLogCommand(ctx, app),
		newListCommand(ctx, app),
		newEditCommand(ctx, app),
		newDeleteCommand(ctx, app),
		newClearCommand(ctx, app),
		newStatsCommand(ctx, app),
		newExportCommand(ctx, app),
		newImportCommand(ctx, app),
		newThemeCommand(ctx, app),
		newVersionCommand(),
	)

	return cmd
}

func runDashboard(ctx context.Context, app *App) error {
	store, err := app.Store(ctx)
	if err != nil {
		return err
	}
	cfg, err := app.Config()
	if err != nil {
		return err
	}

	m := ui.NewModel(ctx, ui.Deps{
		Store:   store,
		Manager: app.Manager(),
		Config:  cfg,
		Logger:  app.Logger(),
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	app := NewApp(manager)
	defer app.Close()

	cmd := NewRootCommand(ctx, app)
	return cmd.Execute()
}

// Main is a helper used by cmd/belajar/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
