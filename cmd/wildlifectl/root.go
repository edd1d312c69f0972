package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/wildlife/internal/core"
	"github.com/JonMunkholm/wildlife/internal/logging"
)

// options are the flags shared by every subcommand.
type options struct {
	dataPath    string
	maxFileSize int64
	logLevel    string

	species  string
	observer string
	search   string
}

func (o *options) criteria() core.FilterCriteria {
	c := core.DefaultCriteria()
	if o.species != "" {
		c.Species = o.species
	}
	if o.observer != "" {
		c.Observer = o.observer
	}
	c.Search = o.search
	return c
}

// load reads the configured observation file.
func (o *options) load(ctx context.Context) ([]core.Record, error) {
	if o.dataPath == "" {
		return nil, errors.New("no data file: pass --data or set DATA_PATH")
	}
	records, err := core.LoadFile(ctx, o.dataPath, core.LoadOptions{MaxFileSize: o.maxFileSize})
	if err != nil {
		if core.IsUserFacing(err) {
			return nil, errors.New(core.FormatUserError(err))
		}
		return nil, err
	}
	return records, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "wildlifectl",
		Short:         "Summarize and filter wildlife observation files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries CSV and reports; logs go to stderr
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}

	defaultPath := os.Getenv("DATA_PATH")
	if defaultPath == "" {
		defaultPath = os.Getenv("WILDLIFE_CSV")
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.dataPath, "data", defaultPath, "observation CSV file or http(s) URL (default $DATA_PATH)")
	f.Int64Var(&opts.maxFileSize, "max-file-size", 50<<20, "reject files larger than this many bytes (0 = unlimited)")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	f.StringVar(&opts.species, "species", core.All, "only records of this species")
	f.StringVar(&opts.observer, "observer", core.All, "only records by this observer")
	f.StringVar(&opts.search, "search", "", "only records whose species, observer or comment contains this text")

	root.AddCommand(newSummaryCmd(opts), newExportCmd(opts))
	return root
}
