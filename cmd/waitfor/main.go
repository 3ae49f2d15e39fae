// Package main is the entry point for the waitfor CLI.
//
// waitfor can be used as a library (SDK) or as a standalone binary that
// blocks until targets become ready. This CLI provides the standalone
// binary approach.
//
// Usage:
//
//	waitfor url https://api.internal/health   # Wait for an HTTP endpoint
//	waitfor tcp localhost:5432                # Wait for a TCP port
//	waitfor exec -- ./ready.sh                # Wait for a command to exit 0
//	waitfor run -c waits.yaml                 # Wait for all configured targets
//	waitfor validate -c waits.yaml            # Validate configuration
//	waitfor version                           # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "waitfor",
	Short: "Block until things become ready",
	Long: `waitfor blocks until a target becomes ready: an HTTP endpoint
answering healthily, a TCP port accepting connections, or a command
exiting successfully.

Each target is checked immediately, then re-checked at an interval until
it is ready or the timeout elapses. On timeout the exit status is 1 and
the error describes the last real failure, not just "timed out".

Quick start:
  waitfor tcp localhost:5432 --timeout 30s
  waitfor url https://api.internal/health --expect json:status=ready

Multiple targets via a config file:
  targets:
    - name: postgres
      addr: localhost:5432
    - name: api
      url: https://api.internal/health

  waitfor run -c waits.yaml`,
	// No Run/RunE means this just shows help when called without subcommands
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this waitfor binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("waitfor %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}
