package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jpalmerr/waitfor"
)

// TCP returns a check that probes a TCP address ("host:port"). The check
// succeeds as soon as a connection can be established; the connection is
// closed immediately.
func TCP(addr string, dialTimeout time.Duration) waitfor.Check[Outcome] {
	return func(ctx context.Context) waitfor.Result[Outcome] {
		start := time.Now()
		d := net.Dialer{Timeout: dialTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return waitfor.Failed[Outcome](fmt.Errorf("dial %s: %w", addr, err))
		}
		_ = conn.Close()
		return waitfor.Done(Outcome{
			Detail:  "connected to " + addr,
			Latency: time.Since(start),
		})
	}
}
