// Package config provides YAML configuration parsing for the waitfor CLI.
//
// This package enables running waitfor as a standalone binary with a
// configuration file describing multiple targets, as an alternative to
// the programmatic SDK approach.
//
// Example configuration:
//
//	interval: 2s
//	timeout: 1m
//
//	targets:
//	  - name: postgres
//	    addr: localhost:5432
//	  - name: api
//	    url: https://api.internal/health
//	    expect: json:status=ready
//	  - name: migrations
//	    command: [./scripts/migrations-done.sh]
//	    timeout: 5m
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minInterval is the minimum allowed polling interval. This prevents
// accidental hammering of targets with overly aggressive polling.
const minInterval = 100 * time.Millisecond

// Default values applied by [Parse] when the file leaves them unset.
const (
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = time.Minute
)

// Config is the root configuration structure for the waitfor CLI.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Interval is the default time between readiness checks.
	// Accepts duration strings like "500ms", "2s", "1m". Defaults to 2s.
	Interval Duration `yaml:"interval"`

	// Timeout is the default overall deadline per target. Defaults to 1m.
	Timeout Duration `yaml:"timeout"`

	// Targets defines the things to wait for.
	Targets []TargetConfig `yaml:"targets"`
}

// TargetConfig defines a single wait target.
//
// Exactly one of URL, Addr, or Command must be set; it determines the
// target's kind (HTTP, TCP, or command).
type TargetConfig struct {
	// Name is the display name used in logs and the summary.
	Name string `yaml:"name"`

	// URL marks an HTTP target: ready when the response satisfies Expect
	// (any 2xx by default). Supports environment variable substitution:
	// ${VAR} or ${VAR:-default}.
	URL string `yaml:"url"`

	// Method is the HTTP method for URL targets. Defaults to GET.
	Method string `yaml:"method"`

	// Headers are custom HTTP headers for URL targets.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// Expect refines readiness for URL targets. Can be shorthand
	// ("status:200-299", "contains:ok", "json:data.status=ready") or
	// structured.
	Expect ExpectConfig `yaml:"expect"`

	// Addr marks a TCP target ("host:port"): ready when a connection
	// can be established. Supports environment variable substitution.
	Addr string `yaml:"addr"`

	// Command marks a command target: ready when it exits with status 0.
	Command []string `yaml:"command"`

	// Interval overrides the global interval for this target.
	Interval Duration `yaml:"interval"`

	// Timeout overrides the global timeout for this target.
	Timeout Duration `yaml:"timeout"`
}

// Kind returns which probe the target configures: "url", "tcp" or
// "exec". Empty when none or more than one of URL/Addr/Command is set.
func (t TargetConfig) Kind() string {
	set := 0
	kind := ""
	if t.URL != "" {
		set, kind = set+1, "url"
	}
	if t.Addr != "" {
		set, kind = set+1, "tcp"
	}
	if len(t.Command) > 0 {
		set, kind = set+1, "exec"
	}
	if set != 1 {
		return ""
	}
	return kind
}

// ExpectConfig specifies how to decide readiness from an HTTP response.
//
// It supports two formats in YAML.
//
// Shorthand string:
//
//	expect: status:200-299
//	expect: contains:ok
//	expect: json:data.status=ready
//
// Structured object:
//
//	expect:
//	  type: json
//	  path: data.status
//	  value: ready
type ExpectConfig struct {
	// Type is the rule type: "status", "contains" or "json".
	// Empty means the default rule (any 2xx).
	Type string

	// Status is the accepted status range (for type: status), either a
	// single code ("204") or an inclusive range ("200-299").
	Status string

	// Text is the substring to search for (for type: contains).
	Text string

	// Path is the JSON field path in dot notation (for type: json).
	Path string

	// Value is the expected JSON field value (for type: json).
	Value string
}

// UnmarshalYAML implements yaml.Unmarshaler for ExpectConfig.
func (e *ExpectConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		return e.parseShorthand(s)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			Type   string `yaml:"type"`
			Status string `yaml:"status"`
			Text   string `yaml:"text"`
			Path   string `yaml:"path"`
			Value  string `yaml:"value"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		e.Type = raw.Type
		e.Status = raw.Status
		e.Text = raw.Text
		e.Path = raw.Path
		e.Value = raw.Value
		return nil
	}

	return fmt.Errorf("expect must be a string or a mapping, got %v", node.Kind)
}

// ParseExpect parses the "type:detail" shorthand form used both in YAML
// scalars and in the CLI's --expect flag.
func ParseExpect(s string) (ExpectConfig, error) {
	var ec ExpectConfig
	if err := ec.parseShorthand(s); err != nil {
		return ExpectConfig{}, err
	}
	return ec, nil
}

// parseShorthand parses the "type:detail" shorthand form.
func (e *ExpectConfig) parseShorthand(s string) error {
	if s == "" {
		return nil
	}
	kind, rest, _ := strings.Cut(s, ":")
	switch kind {
	case "status":
		e.Type, e.Status = "status", rest
	case "contains":
		e.Type, e.Text = "contains", rest
	case "json":
		path, value, ok := strings.Cut(rest, "=")
		if !ok {
			return fmt.Errorf("invalid json expect %q: want json:path=value", s)
		}
		e.Type, e.Path, e.Value = "json", path, value
	default:
		return fmt.Errorf("unknown expect type %q", kind)
	}
	return nil
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates YAML configuration data, applying defaults
// and environment variable substitution.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Interval == 0 {
		cfg.Interval = Duration(DefaultInterval)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(DefaultTimeout)
	}

	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		t.URL = expandEnv(t.URL)
		t.Addr = expandEnv(t.Addr)
		for k, v := range t.Headers {
			t.Headers[k] = expandEnv(v)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the configuration for structural errors.
func (c *Config) validate() error {
	if c.Interval.Duration() < minInterval {
		return fmt.Errorf("interval %s below minimum %s", c.Interval.Duration(), minInterval)
	}
	if c.Timeout.Duration() <= 0 {
		return errors.New("timeout must be positive")
	}
	if len(c.Targets) == 0 {
		return errors.New("at least one target is required")
	}

	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		if t.Name == "" {
			return fmt.Errorf("target %d: name is required", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target name: %q", t.Name)
		}
		seen[t.Name] = true

		kind := t.Kind()
		if kind == "" {
			return fmt.Errorf("target %q: exactly one of url, addr or command must be set", t.Name)
		}
		if kind == "url" {
			u, err := url.Parse(t.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("target %q: invalid url %q", t.Name, t.URL)
			}
		}
		if kind != "url" && (t.Expect.Type != "" || t.Method != "" || len(t.Headers) > 0) {
			return fmt.Errorf("target %q: expect, method and headers apply only to url targets", t.Name)
		}
		if t.Interval != 0 && t.Interval.Duration() < minInterval {
			return fmt.Errorf("target %q: interval %s below minimum %s", t.Name, t.Interval.Duration(), minInterval)
		}
		if t.Timeout != 0 && t.Timeout.Duration() <= 0 {
			return fmt.Errorf("target %q: timeout must be positive", t.Name)
		}
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnv substitutes ${VAR} and ${VAR:-default} references with
// environment values. Unset variables without a default expand to "".
func expandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if v, ok := os.LookupEnv(groups[1]); ok {
			return v
		}
		return groups[3]
	})
}
