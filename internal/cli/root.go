// Package cli provides the command-line interface for matchgrid.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree reading player input from in.
func NewRootCommand(in io.Reader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "matchgrid",
		Short: "Memory-matching card game.",
		Long: `matchgrid flips cards two at a time against a countdown. ` +
			`The same engine runs inside Nakama as an authoritative match.`,
		SilenceUsage: true,
	}
	rootCmd.SetIn(in)
	rootCmd.AddCommand(newPlayCommand())
	return rootCmd
}

// Execute runs the CLI against the process streams.
func Execute() {
	if err := NewRootCommand(os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}
