package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/etapa/internal/cli"
)

var (
	historyLimit int
	reportRaw    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.HistoryHandler(cmd.Context(), historyLimit))
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Show the report of a recorded run (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		os.Exit(cli.ReportHandler(cmd.Context(), id, reportRaw))
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max runs to list")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "print raw markdown instead of rendering")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
}
