// SPDX-License-Identifier: MIT

// Package cli implements the structarray command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/structarray/internal/config"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	output     string
	verbose    bool

	cfg *config.Config
}

// NewRootCommand returns the structarray command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "structarray",
		Short: "Inspect partitioned container layouts and exercise container builds",
		Long: `structarray works with fixed-length, nested containers whose slots are
built one at a time by a pluggable constructor strategy.

Commands:
  layout    Show how a length is split into primary and extension segments
  demo      Build, copy and shift a nested container and report the result`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				if err = config.ValidateFormat(opts.output); err != nil {
					return err
				}
				cfg.Output = opts.output
			}
			if opts.verbose {
				cfg.LogLevel = "debug"
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./structarray.yaml)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", config.FormatTable, "output format (table, json, yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newLayoutCommand(opts), newDemoCommand(opts))

	return root
}

// Execute runs the command tree against os.Args.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// row is one line of table output.
type row struct {
	key   string
	value any
}

func writeTable(w io.Writer, rows []row) error {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.key))
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-*s  %v\n", width, r.key, r.value); err != nil {
			return err
		}
	}
	return nil
}
