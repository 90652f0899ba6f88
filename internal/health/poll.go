// Package health polls the article API's reachability on a fixed interval.
package health

import (
	"context"
	"time"

	"github.com/matakom/informator-3000/internal/clock"
)

const DefaultInterval = 10 * time.Second

// Probe reports whether the API answered.
type Probe func(ctx context.Context) bool

// Poll calls probe on every tick and hands the result to report until ctx
// is cancelled. The first probe runs one interval after the call; callers
// wanting an immediate reading probe once themselves.
func Poll(ctx context.Context, clk clock.Clock, interval time.Duration, probe Probe, report func(bool)) {
	if clk == nil {
		clk = clock.Real()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report(probe(ctx))
		}
	}
}
