package render

import (
	"context"
	"time"
)

// Loop is the frame scheduler: it invokes a frame callback at a target
// cadence until its context is cancelled. Ticks may be coalesced or skipped
// under load, so callbacks must not assume a fixed delta; the callback
// receives the actual tick time.
type Loop struct {
	interval time.Duration
}

func NewLoop(targetFPS int) *Loop {
	if targetFPS <= 0 {
		targetFPS = 60
	}
	return &Loop{interval: time.Second / time.Duration(targetFPS)}
}

// Run blocks, calling frame once per tick. Cancellation via ctx is the only
// way the loop stops; an empty scene never ends it.
func (l *Loop) Run(ctx context.Context, frame func(now time.Time)) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			frame(now)
		}
	}
}
