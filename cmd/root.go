package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "etapa",
	Short: "Etapa - run Travis-style pipelines locally",
	Long: `Etapa parses a Travis-style pipeline file (.etapa.yml or .travis.yml),
expands its job matrix, waits for declared services, and runs the jobs
locally with the platform's lifecycle semantics.`,
}

// pipelineFile is the --file flag shared by pipeline-reading commands.
var pipelineFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&pipelineFile, "file", "f", "", "pipeline file (default: discover .etapa.yml / .travis.yml)")
}

func Execute() error {
	return rootCmd.Execute()
}
