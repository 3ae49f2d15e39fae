package waitfor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// TestTimeoutError_MessageWithCause verifies the message is the cause's
// message, so callers see the real reason rather than a generic timeout.
func TestTimeoutError_MessageWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	te := &TimeoutError{Cause: cause, Timeout: time.Second, File: "/tmp/app/main.go", Line: 42}

	if te.Error() != "connection refused" {
		t.Errorf("expected cause message, got %q", te.Error())
	}
	if !errors.Is(te, cause) {
		t.Error("expected errors.Is to match the cause")
	}
}

// TestTimeoutError_GenericMessage verifies the generic message includes
// the deadline and points at the relocated call site when available.
func TestTimeoutError_GenericMessage(t *testing.T) {
	te := &TimeoutError{Timeout: 1500 * time.Millisecond, File: "/tmp/app/main.go", Line: 42}

	msg := te.Error()
	if !strings.Contains(msg, "timed out in waitfor after 1.5s") {
		t.Errorf("expected deadline in message, got %q", msg)
	}
	if !strings.Contains(msg, "main.go:42") {
		t.Errorf("expected call site in message, got %q", msg)
	}
}

// TestTimeoutError_GenericMessageNoOrigin verifies the message degrades
// cleanly when the runtime provided no caller information.
func TestTimeoutError_GenericMessageNoOrigin(t *testing.T) {
	te := &TimeoutError{Timeout: time.Second}

	if got, want := te.Error(), "timed out in waitfor after 1s"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if te.Origin() != "" {
		t.Errorf("expected empty origin, got %q", te.Origin())
	}
}

// TestTimeoutError_SentinelMatch verifies both flavors of timeout match
// ErrTimeout, including through further wrapping.
func TestTimeoutError_SentinelMatch(t *testing.T) {
	withCause := &TimeoutError{Cause: errors.New("x"), Timeout: time.Second}
	generic := &TimeoutError{Timeout: time.Second}
	wrapped := fmt.Errorf("starting worker: %w", withCause)

	for _, err := range []error{withCause, generic, wrapped} {
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("expected errors.Is(%v, ErrTimeout) to hold", err)
		}
	}
}
