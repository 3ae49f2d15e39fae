package config

import (
	"strings"
	"testing"
	"time"
)

// TestParse_FullConfig verifies a config with every target kind parses
// and defaults are applied only where values are missing.
func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
interval: 500ms
targets:
  - name: api
    url: https://api.internal/health
    method: HEAD
    headers:
      Authorization: Bearer token
    expect: json:data.status=ready
    timeout: 2m
  - name: postgres
    addr: localhost:5432
    interval: 250ms
  - name: migrations
    command: [./migrations-done.sh, --quiet]
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Interval.Duration() != 500*time.Millisecond {
		t.Errorf("expected interval 500ms, got %s", cfg.Interval.Duration())
	}
	if cfg.Timeout.Duration() != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", cfg.Timeout.Duration())
	}
	if len(cfg.Targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(cfg.Targets))
	}

	api := cfg.Targets[0]
	if api.Kind() != "url" {
		t.Errorf("expected kind url, got %q", api.Kind())
	}
	if api.Expect.Type != "json" || api.Expect.Path != "data.status" || api.Expect.Value != "ready" {
		t.Errorf("unexpected expect %+v", api.Expect)
	}
	if api.Timeout.Duration() != 2*time.Minute {
		t.Errorf("expected per-target timeout 2m, got %s", api.Timeout.Duration())
	}

	if cfg.Targets[1].Kind() != "tcp" {
		t.Errorf("expected kind tcp, got %q", cfg.Targets[1].Kind())
	}
	if cfg.Targets[2].Kind() != "exec" {
		t.Errorf("expected kind exec, got %q", cfg.Targets[2].Kind())
	}
}

// TestParse_ExpectForms verifies shorthand and structured expect forms
// decode identically.
func TestParse_ExpectForms(t *testing.T) {
	shorthand := []byte(`
targets:
  - name: a
    url: https://x.test/health
    expect: status:200-399
`)
	structured := []byte(`
targets:
  - name: a
    url: https://x.test/health
    expect:
      type: status
      status: 200-399
`)

	for _, data := range [][]byte{shorthand, structured} {
		cfg, err := Parse(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		e := cfg.Targets[0].Expect
		if e.Type != "status" || e.Status != "200-399" {
			t.Errorf("unexpected expect %+v", e)
		}
	}
}

// TestParse_EnvSubstitution verifies ${VAR} and ${VAR:-default} expansion
// in urls, addresses and header values.
func TestParse_EnvSubstitution(t *testing.T) {
	t.Setenv("WAITFOR_TEST_HOST", "db.internal")
	t.Setenv("WAITFOR_TEST_TOKEN", "s3cret")

	data := []byte(`
targets:
  - name: api
    url: https://${WAITFOR_TEST_HOST}/health
    headers:
      Authorization: Bearer ${WAITFOR_TEST_TOKEN}
  - name: cache
    addr: ${WAITFOR_TEST_CACHE:-localhost:6379}
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.Targets[0].URL; got != "https://db.internal/health" {
		t.Errorf("unexpected url %q", got)
	}
	if got := cfg.Targets[0].Headers["Authorization"]; got != "Bearer s3cret" {
		t.Errorf("unexpected header %q", got)
	}
	if got := cfg.Targets[1].Addr; got != "localhost:6379" {
		t.Errorf("expected default substitution, got %q", got)
	}
}

// TestParse_ValidationErrors verifies structural errors are rejected with
// actionable messages.
func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"no targets",
			`interval: 1s`,
			"at least one target is required",
		},
		{
			"missing name",
			"targets:\n  - url: https://x.test/\n",
			"name is required",
		},
		{
			"duplicate names",
			"targets:\n  - name: a\n    addr: x:1\n  - name: a\n    addr: x:2\n",
			`duplicate target name: "a"`,
		},
		{
			"no kind",
			"targets:\n  - name: a\n",
			"exactly one of url, addr or command",
		},
		{
			"two kinds",
			"targets:\n  - name: a\n    url: https://x.test/\n    addr: x:1\n",
			"exactly one of url, addr or command",
		},
		{
			"invalid url",
			"targets:\n  - name: a\n    url: not-a-url\n",
			"invalid url",
		},
		{
			"expect on tcp target",
			"targets:\n  - name: a\n    addr: x:1\n    expect: contains:ok\n",
			"apply only to url targets",
		},
		{
			"interval too small",
			"interval: 10ms\ntargets:\n  - name: a\n    addr: x:1\n",
			"below minimum",
		},
		{
			"bad duration",
			"interval: fast\ntargets:\n  - name: a\n    addr: x:1\n",
			`invalid duration "fast"`,
		},
		{
			"unknown expect type",
			"targets:\n  - name: a\n    url: https://x.test/\n    expect: regex:.*\n",
			`unknown expect type "regex"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestParseExpect verifies the shorthand parser shared with the CLI flag.
func TestParseExpect(t *testing.T) {
	ec, err := ParseExpect("json:status=ready")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ec.Type != "json" || ec.Path != "status" || ec.Value != "ready" {
		t.Errorf("unexpected expect %+v", ec)
	}

	if ec, err = ParseExpect(""); err != nil || ec.Type != "" {
		t.Errorf("expected empty expect for empty string, got %+v, %v", ec, err)
	}

	if _, err = ParseExpect("json:status"); err == nil {
		t.Error("expected error for json shorthand without =value")
	}
	if _, err = ParseExpect("nonsense:x"); err == nil {
		t.Error("expected error for unknown type")
	}
}

// TestLoad_MissingFile verifies a clear error for an unreadable path.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/waits.yaml")
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("expected read error, got %v", err)
	}
}
