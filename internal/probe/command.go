package probe

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/jpalmerr/waitfor"
)

// Command returns a check that runs a command and succeeds when it exits
// with status zero. Output is discarded; a non-zero exit or a start
// failure is the recorded failure reason.
//
// The command inherits the poll's context, so cancellation kills an
// in-flight run.
func Command(name string, args ...string) waitfor.Check[Outcome] {
	return func(ctx context.Context) waitfor.Result[Outcome] {
		start := time.Now()
		cmd := exec.CommandContext(ctx, name, args...)
		if err := cmd.Run(); err != nil {
			return waitfor.Failed[Outcome](fmt.Errorf("command %q: %w", name, err))
		}
		return waitfor.Done(Outcome{
			Detail:  fmt.Sprintf("command %q exited 0", name),
			Latency: time.Since(start),
		})
	}
}
