package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/wildlife/internal/chart"
	"github.com/JonMunkholm/wildlife/internal/core"
)

// summaryReport is the --json output of summary.
type summaryReport struct {
	Source   string         `json:"source"`
	Total    int            `json:"totalRecords"`
	Filters  core.Index     `json:"filters"`
	Summary  core.Summary   `json:"summary"`
	Charts   []string       `json:"charts,omitempty"`
	Criteria criteriaReport `json:"criteria"`
}

type criteriaReport struct {
	Species  string `json:"species"`
	Observer string `json:"observer"`
	Search   string `json:"search,omitempty"`
}

func newSummaryCmd(opts *options) *cobra.Command {
	var (
		asJSON    bool
		chartsDir string
		width     int
		height    int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print record counts, filter values and seen/not-seen totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			c := opts.criteria()
			view := core.Filter(records, c)
			report := summaryReport{
				Source:   opts.dataPath,
				Total:    len(records),
				Filters:  core.BuildIndex(records),
				Summary:  core.Summarize(view),
				Criteria: criteriaReport{Species: c.Species, Observer: c.Observer, Search: c.Search},
			}

			if chartsDir != "" {
				size := chart.Size{Width: width, Height: height}
				report.Charts, err = writeCharts(chartsDir, core.Aggregate(view), size)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printSummary(out, report)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&chartsDir, "charts", "", "also write PNG charts of the filtered view to this directory")
	cmd.Flags().IntVar(&width, "width", chart.DefaultSize.Width, "chart width in pixels")
	cmd.Flags().IntVar(&height, "height", chart.DefaultSize.Height, "chart height in pixels")
	return cmd
}

// writeCharts renders every chart kind for p as PNG files in dir.
func writeCharts(dir string, p core.Projection, size chart.Size) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	var written []string
	for _, k := range chart.Kinds {
		path := filepath.Join(dir, string(k)+".png")
		data, err := chart.RenderBytes(k, p, chart.FormatPNG, size)
		if err != nil {
			return written, fmt.Errorf("render %s chart: %w", k, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		slog.Debug("chart written", "kind", k, "path", path, "bytes", len(data))
		written = append(written, path)
	}
	return written, nil
}

func printSummary(w io.Writer, r summaryReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	fmt.Fprintf(tw, "Records:\t%d of %d\n", r.Summary.Records, r.Total)
	fmt.Fprintf(tw, "Species filter:\t%s\n", r.Criteria.Species)
	fmt.Fprintf(tw, "Observer filter:\t%s\n", r.Criteria.Observer)
	if r.Criteria.Search != "" {
		fmt.Fprintf(tw, "Search:\t%q\n", r.Criteria.Search)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Adults:\t%d\n", r.Summary.Adults)
	fmt.Fprintf(tw, "Nests:\t%d\n", r.Summary.Nests)
	fmt.Fprintf(tw, "Eggs:\t%d\n", r.Summary.Eggs)
	fmt.Fprintf(tw, "Offspring:\t%d\n", r.Summary.Offspring)
	fmt.Fprintf(tw, "Total counted:\t%d\n", r.Summary.Total)
	fmt.Fprintf(tw, "Seen:\t%d\n", r.Summary.Seen)
	fmt.Fprintf(tw, "Not seen:\t%d\n", r.Summary.NotSeen)
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Species (%d):\t%s\n", len(r.Filters.Species), strings.Join(r.Filters.Species, ", "))
	fmt.Fprintf(tw, "Observers (%d):\t%s\n", len(r.Filters.Observers), strings.Join(r.Filters.Observers, ", "))
	for _, c := range r.Charts {
		fmt.Fprintf(tw, "Chart:\t%s\n", c)
	}
	return tw.Flush()
}
