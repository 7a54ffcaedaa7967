// Package main provides the entry point for the interview screener HTTP API
// server and its offline CLI tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Automated first-round interview screener",
	Long: "Interview screener ingests a résumé, asks generated questions out loud, " +
		"transcribes the spoken answers, and grades them into a screening report via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
