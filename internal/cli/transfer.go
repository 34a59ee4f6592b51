package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/belajar/internal/chart"
	"github.com/faizmokh/belajar/internal/files"
	"github.com/faizmokh/belajar/internal/transfer"
)

func newExportCommand(ctx context.Context, app *App) *cobra.Command {
	var (
		formatFlag    string
		outputFlag    string
		clipboardFlag bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every session to a JSON or CSV file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := transfer.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") && outputFlag != "" {
				if inferred, err := transfer.FormatFromFilename(outputFlag); err == nil {
					format = inferred
				}
			}

			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			data, err := transfer.Export(store.Sessions(), format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			label := strings.ToUpper(string(format))

			if clipboardFlag {
				if err := app.copyText(string(data)); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(out, "Copied %d %s as %s to the clipboard.\n", store.Len(), chart.Plural(store.Len(), "session", "sessions"), label)
				return nil
			}

			path, err := exportTarget(app, outputFlag, format)
			if err != nil {
				return err
			}
			if err := files.WriteAtomic(path, data); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			app.Logger().InfoContext(ctx, "exported sessions", "format", format, "path", path, "count", store.Len())
			fmt.Fprintf(out, "Data exported as %s (%s)\n", filepath.Base(path), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(transfer.FormatJSON), "json or csv")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination file (default: progress_data.<format> in export_dir)")
	cmd.Flags().BoolVar(&clipboardFlag, "clipboard", false, "Copy to the clipboard instead of writing a file")

	return cmd
}

func exportTarget(app *App, output string, format transfer.Format) (string, error) {
	if output != "" {
		path, err := files.ExpandHome(output)
		if err != nil {
			return "", err
		}
		return filepath.Abs(path)
	}
	cfg, err := app.Config()
	if err != nil {
		return "", err
	}
	return app.Manager().ExportPath(cfg.ExportDir, format.FileName())
}

func newImportCommand(ctx context.Context, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append sessions from a JSON or CSV export.",
		Long:  "import reads a .json or .csv file and appends every valid record. Records without a subject or a positive duration are skipped; duplicates are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := files.ExpandHome(args[0])
			if err != nil {
				return err
			}
			result, err := transfer.DecodeFile(path, app.now())
			if err != nil {
				return err
			}

			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			added, err := store.Append(ctx, result.Sessions)
			if err != nil {
				return err
			}

			app.Logger().InfoContext(ctx, "imported sessions", "path", path, "added", len(added), "skipped", result.Skipped)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d %s", len(added), chart.Plural(len(added), "record", "records"))
			if result.Skipped > 0 {
				fmt.Fprintf(out, " (skipped %d invalid)", result.Skipped)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	return cmd
}
