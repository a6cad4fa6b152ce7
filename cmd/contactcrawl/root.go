package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for contactcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contactcrawl",
		Short: "Collect contact details from a website",
		Long: `contactcrawl fetches a seed URL, follows same-origin links breadth-first
up to a fixed depth, and extracts email addresses and phone numbers from
page text. Results are written to a JSON file.

Settings are read from a .contactcrawl file, a .env file, environment
variables (TARGET_URL, MAX_DEPTH, MAX_PAGES_PER_LEVEL, PROXIES) and flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
