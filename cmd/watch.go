package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

var (
	watchConcurrency int
	watchWorkdir     string
	watchNoHistory   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [job...]",
	Short: "Run the pipeline behind a live terminal view",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.WatchHandler(cmd.Context(), cli.RunOptions{
			Options:     cli.Options{File: pipelineFile},
			Jobs:        args,
			Concurrency: watchConcurrency,
			Workdir:     watchWorkdir,
			NoHistory:   watchNoHistory,
		}))
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchConcurrency, "concurrency", 0, "max jobs running at once (default: configured value)")
	watchCmd.Flags().StringVar(&watchWorkdir, "workdir", "", "give every job a private subdirectory under this path (default: run in place)")
	watchCmd.Flags().BoolVar(&watchNoHistory, "no-history", false, "skip recording the run")
	rootCmd.AddCommand(watchCmd)
}
