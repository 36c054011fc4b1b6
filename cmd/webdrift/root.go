// Package main provides the entry point for the webdrift CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webdrift.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webdrift",
		Short: "Breadth-first web crawler that streams page text",
		Long: `Webdrift is a breadth-first web crawler. Starting from a seed URL it
fetches pages, streams their text to the terminal line by line, extracts
every link, and keeps walking the link graph until interrupted.

Webdrift keeps no crawl history: revisiting pages on cyclic sites is part
of the traversal. Press Ctrl-C to stop a session.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewProbeCmd())
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
