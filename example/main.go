// Command example demonstrates waiting for an HTTP service to become
// ready using the waitfor SDK.
//
// It starts a mock server on localhost that answers 503 for the first
// three seconds and 200 afterwards, then polls it until it is ready.
//
// Run with:
//
//	go run ./example
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/jpalmerr/waitfor"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	url, shutdown, err := startMockServer(3 * time.Second)
	if err != nil {
		logger.Error("failed to start mock server", "error", err)
		os.Exit(1)
	}
	defer shutdown()

	logger.Info("waiting for mock server", "url", url)

	start := time.Now()
	status, err := waitfor.Poll(context.Background(),
		func(ctx context.Context) waitfor.Result[int] {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return waitfor.Failed[int](err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return waitfor.Failed[int](err)
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			if resp.StatusCode != http.StatusOK {
				return waitfor.Failed[int](fmt.Errorf("not ready yet: HTTP %d", resp.StatusCode))
			}
			return waitfor.Done(resp.StatusCode)
		},
		waitfor.WithInterval(500*time.Millisecond),
		waitfor.WithTimeout(10*time.Second),
		waitfor.WithLogger(logger),
	)
	if err != nil {
		logger.Error("server never became ready", "error", err)
		os.Exit(1)
	}

	logger.Info("server ready",
		"status", status,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
}

// startMockServer serves 503 until readyAfter has elapsed, then 200.
func startMockServer(readyAfter time.Duration) (url string, shutdown func(), err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	readyAt := time.Now().Add(readyAfter)
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if time.Now().Before(readyAt) {
				http.Error(w, "warming up", http.StatusServiceUnavailable)
				return
			}
			fmt.Fprintln(w, "ok")
		}),
	}
	go func() { _ = srv.Serve(ln) }()

	return "http://" + ln.Addr().String(), func() { _ = srv.Close() }, nil
}
