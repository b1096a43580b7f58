package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordhist/internal/config"
)

// NewRootCmd creates the root command for wordhist.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordhist",
		Short: "Histogram of distinct-word counts across a directory tree",
		Long: `wordhist walks a directory tree and, for every plain text file and every
text entry inside ZIP archives (nested archives included), counts the number
of distinct whitespace-delimited words. The counts are aggregated into a
binned histogram and printed as a table.

Files with other extensions are ignored. A directory that cannot be listed
aborts the run; a single document that cannot be read is skipped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: text or json")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes a fatal error as a single "ERROR:" line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "ERROR: %v\n", err)
}
