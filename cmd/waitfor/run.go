package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jpalmerr/waitfor"
	"github.com/jpalmerr/waitfor/config"
	"github.com/jpalmerr/waitfor/internal/probe"
	"github.com/jpalmerr/waitfor/internal/store"
	"github.com/spf13/cobra"
)

// runCmd waits for every target in a configuration file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Wait for all targets in a config file",
	Long: `Wait for every target in a configuration file, concurrently.

Each target is polled on its own goroutine with its own interval and
timeout. The command blocks until all targets settle, prints a summary,
and exits 0 only if every target became ready.

Interrupting (Ctrl+C) cancels all in-flight waits.

Example:
  waitfor run -c waits.yaml
  waitfor run --config /etc/waitfor/waits.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := probe.NewClient()
	defer client.Close()

	targets, err := config.BuildTargets(cfg, client)
	if err != nil {
		return fmt.Errorf("failed to build targets: %w", err)
	}

	logger.Info("waiting", "targets", len(targets))

	// cancel all in-flight waits on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := store.NewMemory()

	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t config.Target) {
			defer wg.Done()
			results.Update(waitOne(ctx, t, logger))
		}(t)
	}
	wg.Wait()

	printSummary(results)

	if failed := results.FailedCount(); failed > 0 {
		return fmt.Errorf("%d of %d targets not ready", failed, len(targets))
	}
	return nil
}

// waitOne polls a single target to settlement.
func waitOne(ctx context.Context, t config.Target, logger *slog.Logger) store.WaitResult {
	start := time.Now()

	outcome, err := waitfor.Poll(ctx, t.Check,
		waitfor.WithInterval(t.Interval),
		waitfor.WithTimeout(t.Timeout),
		waitfor.WithLogger(logger.With("target", t.Name)),
		waitfor.WithOnTimeout(func(err error) error {
			return fmt.Errorf("not ready after %s: %w", t.Timeout, err)
		}),
	)
	elapsed := time.Since(start)

	if err != nil {
		logger.Warn("target not ready", "target", t.Name, "elapsed", elapsed.String(), "error", err.Error())
		return store.WaitResult{Name: t.Name, Elapsed: elapsed, Err: err}
	}

	logger.Info("target ready", "target", t.Name, "detail", outcome.Detail, "elapsed", elapsed.String())
	return store.WaitResult{Name: t.Name, OK: true, Detail: outcome.Detail, Elapsed: elapsed}
}

// printSummary writes the per-target outcome table to stdout.
func printSummary(results *store.Memory) {
	fmt.Println()
	for _, r := range results.All() {
		if r.OK {
			fmt.Printf("  ready      %-20s %s (%s)\n", r.Name, r.Detail, r.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Printf("  NOT READY  %-20s %v\n", r.Name, r.Err)
		}
	}
	fmt.Println()
}
