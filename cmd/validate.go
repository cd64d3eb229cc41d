package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate the pipeline file",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.ValidateHandler(cli.Options{File: pipelineFile}))
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the expanded job matrix",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.JobsHandler(cli.Options{File: pipelineFile}))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(jobsCmd)
}
