package main

import (
	"fmt"

	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ghauto %s\n", version)
		if dir, err := logging.GetLogDirectory(); err == nil {
			fmt.Fprintf(out, "  logs: %s\n", dir)
		}
	},
}
