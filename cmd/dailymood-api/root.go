package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dailymood-api",
	Short: "DailyMood API server",
	Long:  `A REST API server for the DailyMood mood tracking application, with mood predictions and supportive chat.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newPredictCmd())
}
