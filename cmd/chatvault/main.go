package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatvault/chatvault/botservice"
)

var rootCmd = &cobra.Command{
	Use:   "chatvault",
	Short: "Channel archival service for chat platforms",
}

func main() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the archival service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return botservice.Run()
		},
	}
	rootCmd.AddCommand(serveCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect <archive-dir>",
		Short: "Summarize and verify an archive directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], os.Stdout)
		},
	}
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
