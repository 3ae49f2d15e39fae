package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/waitfor"
	"github.com/jpalmerr/waitfor/config"
	"github.com/jpalmerr/waitfor/internal/probe"
	"github.com/spf13/cobra"
)

// urlCmd waits for a single HTTP endpoint.
var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Wait for an HTTP endpoint to become ready",
	Long: `Wait for an HTTP endpoint to become ready.

By default any 2xx response counts as ready. Use --expect to refine:

  waitfor url https://api.internal/health
  waitfor url https://api.internal/health --expect json:status=ready
  waitfor url https://api.internal/ping --expect contains:pong
  waitfor url https://api.internal/old --expect status:200-399`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

// tcpCmd waits for a TCP port to accept connections.
var tcpCmd = &cobra.Command{
	Use:   "tcp <host:port>",
	Short: "Wait for a TCP port to accept connections",
	Long: `Wait for a TCP address to accept connections.

Example:
  waitfor tcp localhost:5432 --timeout 30s`,
	Args: cobra.ExactArgs(1),
	RunE: runTCP,
}

// execCmd waits for a command to exit successfully.
var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Wait for a command to exit with status 0",
	Long: `Run a command repeatedly until it exits with status 0.

Example:
  waitfor exec --timeout 5m -- ./scripts/migrations-done.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	for _, cmd := range []*cobra.Command{urlCmd, tcpCmd, execCmd} {
		cmd.Flags().Duration("interval", config.DefaultInterval, "delay between checks")
		cmd.Flags().Duration("timeout", config.DefaultTimeout, "overall deadline")
		rootCmd.AddCommand(cmd)
	}
	urlCmd.Flags().String("expect", "", "readiness rule (status:200-299, contains:ok, json:path=value)")
}

func runURL(cmd *cobra.Command, args []string) error {
	expectFlag, _ := cmd.Flags().GetString("expect")
	ec, err := config.ParseExpect(expectFlag)
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("interval")

	client := probe.NewClient()
	defer client.Close()

	cfg := &config.Config{
		Interval: config.Duration(interval),
		Timeout:  config.Duration(config.DefaultTimeout),
		Targets: []config.TargetConfig{{
			Name:   args[0],
			URL:    args[0],
			Expect: ec,
		}},
	}
	targets, err := config.BuildTargets(cfg, client)
	if err != nil {
		return err
	}

	return waitOneShot(cmd, args[0], targets[0].Check)
}

func runTCP(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	return waitOneShot(cmd, args[0], probe.TCP(args[0], interval))
}

func runExec(cmd *cobra.Command, args []string) error {
	return waitOneShot(cmd, args[0], probe.Command(args[0], args[1:]...))
}

// waitOneShot polls one check with the shared interval/timeout flags and
// reports the outcome.
func waitOneShot(cmd *cobra.Command, name string, check waitfor.Check[probe.Outcome]) error {
	logger := newLogger()

	interval, _ := cmd.Flags().GetDuration("interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	outcome, err := waitfor.Poll(ctx, check,
		waitfor.WithInterval(interval),
		waitfor.WithTimeout(timeout),
		waitfor.WithLogger(logger),
		waitfor.WithOnTimeout(func(err error) error {
			return fmt.Errorf("%s not ready after %s: %w", name, timeout, err)
		}),
	)
	if err != nil {
		return err
	}

	logger.Info("ready",
		"target", name,
		"detail", outcome.Detail,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}
