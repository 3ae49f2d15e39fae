package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmerr/waitfor"
	"github.com/jpalmerr/waitfor/internal/probe"
)

// Target is a runtime wait target built from a validated [Config].
type Target struct {
	// Name is the target's display name.
	Name string

	// Check is the readiness check to poll.
	Check waitfor.Check[probe.Outcome]

	// Interval is the effective re-check interval for this target.
	Interval time.Duration

	// Timeout is the effective deadline for this target.
	Timeout time.Duration
}

// BuildTargets converts a validated configuration into runtime targets.
// URL targets share the given probe client's connection pool.
func BuildTargets(cfg *Config, client *probe.Client) ([]Target, error) {
	targets := make([]Target, 0, len(cfg.Targets))

	for _, tc := range cfg.Targets {
		interval := tc.Interval.Duration()
		if interval == 0 {
			interval = cfg.Interval.Duration()
		}
		timeout := tc.Timeout.Duration()
		if timeout == 0 {
			timeout = cfg.Timeout.Duration()
		}

		check, err := buildCheck(tc, client, interval)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", tc.Name, err)
		}

		targets = append(targets, Target{
			Name:     tc.Name,
			Check:    check,
			Interval: interval,
			Timeout:  timeout,
		})
	}

	return targets, nil
}

// buildCheck constructs the probe check for one target.
func buildCheck(tc TargetConfig, client *probe.Client, interval time.Duration) (waitfor.Check[probe.Outcome], error) {
	switch tc.Kind() {
	case "url":
		expect, err := buildExpect(tc.Expect)
		if err != nil {
			return nil, err
		}
		return probe.HTTP(client, probe.HTTPTarget{
			URL:     tc.URL,
			Method:  tc.Method,
			Headers: tc.Headers,
			Timeout: interval, // one attempt should not outlive its slot
			Expect:  expect,
		}), nil

	case "tcp":
		return probe.TCP(tc.Addr, interval), nil

	case "exec":
		return probe.Command(tc.Command[0], tc.Command[1:]...), nil

	default:
		return nil, fmt.Errorf("no probe for target kind %q", tc.Kind())
	}
}

// buildExpect converts an [ExpectConfig] into a probe rule. A zero
// config yields nil, which selects the probe's default (any 2xx).
func buildExpect(ec ExpectConfig) (probe.Expect, error) {
	switch ec.Type {
	case "":
		return nil, nil
	case "status":
		min, max, err := parseStatusRange(ec.Status)
		if err != nil {
			return nil, err
		}
		return probe.StatusExpect(min, max), nil
	case "contains":
		if ec.Text == "" {
			return nil, fmt.Errorf("contains expect requires text")
		}
		return probe.ContainsExpect(ec.Text), nil
	case "json":
		if ec.Path == "" {
			return nil, fmt.Errorf("json expect requires a path")
		}
		return probe.JSONFieldExpect(ec.Path, ec.Value), nil
	default:
		return nil, fmt.Errorf("unknown expect type %q", ec.Type)
	}
}

// parseStatusRange parses "204" or "200-299" into an inclusive range.
func parseStatusRange(s string) (int, int, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	min, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid status range %q", s)
	}
	if !isRange {
		return min, min, nil
	}
	max, err := strconv.Atoi(hi)
	if err != nil || max < min {
		return 0, 0, fmt.Errorf("invalid status range %q", s)
	}
	return min, max, nil
}
