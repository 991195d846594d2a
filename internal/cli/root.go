// Package cli implements the trek command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "trek",
	Short:   "Journey interpreter for API load testing",
	Version: version,
	Long: `Trek interprets declarative multi-step API journey documents: it validates
their flow structure, enumerates the paths virtual users can take, samples
weighted synthetic-user profiles, and dry-runs journeys against scripted
responses, producing the decisions a load-generation host needs without
issuing a single real request.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

var verbose bool

// Execute adds all child commands to the root command and runs it. This is
// called by main.main().
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// logger returns the CLI diagnostic logger; --verbose lowers the level to
// debug.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose diagnostics")

	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(pathsCmd)
	RootCmd.AddCommand(sampleCmd)
	RootCmd.AddCommand(simulateCmd)
}
