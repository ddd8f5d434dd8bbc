// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls once right away and then on every interval tick, sending each
// result to out. Cycles never overlap; a slow consumer delays the next tick.
// Returns when ctx is done.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if !p.emit(ctx, out, p.PollOnce(ctx)) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) emit(ctx context.Context, out chan<- PollResult, res PollResult) bool {
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}
