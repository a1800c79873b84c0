package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmalicki/arsync-sub000/internal/stats"
)

// startProgressTicker periodically prints a stats snapshot to stderr,
// following accounting.go's Stats.Log() idiom but driven off the
// lock-free atomic counters (internal/stats) rather than a mutex.
func startProgressTicker(ctx context.Context, counters *stats.Counters, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Fprintln(os.Stderr, counters.Snapshot().String())
			}
		}
	}()
	return func() { <-done }
}
