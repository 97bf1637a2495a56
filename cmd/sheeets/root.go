package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sheeets",
	Short: "Conference side events backend",
	Long: `sheeets reads conference side events from a published Google Sheet,
caches them in Postgres and serves them over a REST API.

Configuration comes from the environment (and a .env file outside production).`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
