package main

import (
	"fmt"

	"github.com/jpalmerr/waitfor/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without waiting on anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a waitfor configuration file without running any waits.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  waitfor validate -c waits.yaml
  waitfor validate --config /etc/waitfor/waits.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	counts := countTargetKinds(cfg)

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Interval: %s\n", cfg.Interval.Duration())
	fmt.Printf("  Timeout:  %s\n", cfg.Timeout.Duration())
	fmt.Printf("  Targets:  %d url + %d tcp + %d exec = %d total\n",
		counts["url"], counts["tcp"], counts["exec"], len(cfg.Targets))

	return nil
}

// countTargetKinds tallies targets by probe kind.
func countTargetKinds(cfg *config.Config) map[string]int {
	counts := make(map[string]int)
	for _, t := range cfg.Targets {
		counts[t.Kind()]++
	}
	return counts
}
