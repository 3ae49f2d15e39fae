package waitfor

import (
	"context"
	"testing"
	"time"
)

// alwaysDone is a trivial check used to exercise option validation.
func alwaysDone(ctx context.Context) Result[int] {
	return Done(1)
}

// TestOptions_Validation verifies each option rejects invalid input
// before any polling starts.
func TestOptions_Validation(t *testing.T) {
	tests := []struct {
		name    string
		option  Option
		wantErr string
	}{
		{"zero interval", WithInterval(0), "interval must be positive"},
		{"negative interval", WithInterval(-time.Second), "interval must be positive"},
		{"zero timeout", WithTimeout(0), "timeout must be positive"},
		{"nil onTimeout", WithOnTimeout(nil), "onTimeout func cannot be nil"},
		{"nil clock", WithClock(nil), "clock cannot be nil"},
		{"nil logger", WithLogger(nil), "logger cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Poll(context.Background(), alwaysDone, tt.option)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestOptions_InvalidOptionFailsBeforePolling verifies the check is never
// invoked when an option fails validation.
func TestOptions_InvalidOptionFailsBeforePolling(t *testing.T) {
	calls := 0
	_, err := Poll(context.Background(), func(ctx context.Context) Result[int] {
		calls++
		return Done(1)
	}, WithInterval(-1))

	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 0 {
		t.Errorf("check ran %d times despite invalid options", calls)
	}
}

// TestOptions_NilAttemptCallbackIgnored verifies a nil callback is a safe
// no-op rather than an error.
func TestOptions_NilAttemptCallbackIgnored(t *testing.T) {
	v, err := Poll(context.Background(), alwaysDone,
		WithAttemptCallback(nil),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
}

// TestOptions_NilTriggerIsNoTrigger verifies a nil trigger channel leaves
// interval ticking as the only re-check source.
func TestOptions_NilTriggerIsNoTrigger(t *testing.T) {
	var errored error
	_, errored = Poll(context.Background(), alwaysDone,
		WithTrigger(nil),
		WithLogger(testLogger()),
	)
	if errored != nil {
		t.Fatalf("unexpected error: %v", errored)
	}
}
