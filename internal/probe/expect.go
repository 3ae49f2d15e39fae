package probe

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Expect is a rule deciding whether an HTTP [Response] counts as ready.
//
// Expect follows functional programming principles: it is a pure function
// where the same response always produces the same outcome. A nil return
// means the response satisfies the rule; a non-nil error explains what is
// still missing (and becomes the poll's last observed failure).
type Expect func(Response) error

// StatusExpect returns an [Expect] satisfied when the HTTP status code
// falls within [min, max] inclusive.
//
// Example:
//
//	probe.StatusExpect(200, 299) // any 2xx
//	probe.StatusExpect(204, 204) // exactly 204
func StatusExpect(min, max int) Expect {
	return func(r Response) error {
		if r.StatusCode < min || r.StatusCode > max {
			return fmt.Errorf("status %d outside expected range %d-%d", r.StatusCode, min, max)
		}
		return nil
	}
}

// ContainsExpect returns an [Expect] satisfied when the response body
// contains the given text (case-insensitive).
//
// Useful for plain-text health endpoints that answer "OK" or "healthy"
// without JSON structure.
func ContainsExpect(text string) Expect {
	lower := strings.ToLower(text)
	return func(r Response) error {
		if !strings.Contains(strings.ToLower(string(r.Body)), lower) {
			return fmt.Errorf("body does not contain %q", text)
		}
		return nil
	}
}

// JSONFieldExpect returns an [Expect] satisfied when the JSON field at
// path (dot notation, e.g. "data.health.status") equals want,
// case-insensitively. Boolean and numeric values are compared through
// their string forms ("true", "false", "1", "2.5").
//
// Example:
//
//	// For response: {"data": {"status": "ready"}}
//	probe.JSONFieldExpect("data.status", "ready")
func JSONFieldExpect(path, want string) Expect {
	parts := strings.Split(path, ".")
	return func(r Response) error {
		var data interface{}
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return fmt.Errorf("body is not valid JSON: %w", err)
		}
		got, ok := lookupJSONPath(data, parts)
		if !ok {
			return fmt.Errorf("JSON field %q not found", path)
		}
		if !strings.EqualFold(got, want) {
			return fmt.Errorf("JSON field %q is %q, want %q", path, got, want)
		}
		return nil
	}
}

// lookupJSONPath walks a decoded JSON structure using dot notation parts
// and renders the leaf value as a string.
func lookupJSONPath(data interface{}, parts []string) (string, bool) {
	current := data
	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return "", false
		}
		current, ok = obj[part]
		if !ok {
			return "", false
		}
	}

	switch v := current.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// AllExpect returns an [Expect] satisfied only when every rule is
// satisfied. Rules are evaluated in order; the first failure is returned.
func AllExpect(rules ...Expect) Expect {
	return func(r Response) error {
		for _, rule := range rules {
			if err := rule(r); err != nil {
				return err
			}
		}
		return nil
	}
}

// DefaultExpect is the rule used when a target specifies none: any 2xx
// status counts as ready.
var DefaultExpect = StatusExpect(200, 299)
