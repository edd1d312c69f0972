package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/wildlife/internal/core"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		output  string
		sortCol string
		sortDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records as CSV",
		Long: `Write the records matching --species, --observer and --search as CSV,
with the same header and column order as the dashboard's export.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			view := core.Filter(records, opts.criteria())
			if sortCol != "" {
				spec, ok := core.ParseSort(sortCol, sortDir)
				if !ok {
					return fmt.Errorf("unknown sort column %q", sortCol)
				}
				view = core.SortView(view, spec)
			}

			if output == "" {
				err = core.Export(cmd.OutOrStdout(), view)
			} else {
				err = exportFile(output, view)
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			slog.Info("export complete", "records", len(view), "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout (e.g. "+core.ExportFileName+")")
	cmd.Flags().StringVar(&sortCol, "sort", "", "sort by this column header")
	cmd.Flags().StringVar(&sortDir, "dir", "asc", "sort direction: asc or desc")
	return cmd
}

// exportFile writes view to path. A failed close is returned as an error.
func exportFile(path string, view core.View) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return core.Export(f, view)
}
