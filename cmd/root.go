// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-profile-analyzer",
	Short: "A CLI tool to analyze a GitHub user's profile and repositories.",
	Long: `github-profile-analyzer fetches a GitHub user's public profile and repositories,
totals stars and forks, works out which languages the user writes most, and
prints the result to the console or exports it as JSON, CSV or Markdown.

Set GITHUB_TOKEN (in the environment or a .env file) to raise the API rate limit.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show repository URLs and enable debug logging")
}
