// Package main implements the stitchcounter CLI and MCP server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "stitchcounter",
	Short:        "Row and repeat counters for craft projects",
	SilenceUsage: true,
}
