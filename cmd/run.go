package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

var (
	runConcurrency int
	runWorkdir     string
	runNoHistory   bool
)

var runCmd = &cobra.Command{
	Use:   "run [job...]",
	Short: "Run the pipeline, or just the named jobs",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.RunHandler(cmd.Context(), cli.RunOptions{
			Options:     cli.Options{File: pipelineFile},
			Jobs:        args,
			Concurrency: runConcurrency,
			Workdir:     runWorkdir,
			NoHistory:   runNoHistory,
		}))
	},
}

func init() {
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "max jobs running at once (default: configured value)")
	runCmd.Flags().StringVar(&runWorkdir, "workdir", "", "give every job a private subdirectory under this path (default: run in place)")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "skip recording the run")
	rootCmd.AddCommand(runCmd)
}
