// Package main provides the entry point for the CVBooster HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvbooster",
	Short: "CVBooster HTTP API Server",
	Long:  "CVBooster generates and formats ATS-friendly CVs and cover letters, exports them as TXT, PDF or DOCX, and tracks affiliate referrals via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
