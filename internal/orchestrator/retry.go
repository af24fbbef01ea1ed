package orchestrator

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// backoffDelay computes the wait before retry attempt n (1-based) using
// exponential growth capped at max, with symmetric jitter to spread retries
// from concurrent portal tasks.
func backoffDelay(attempt int, base, max time.Duration, jitter float64) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}

	d := float64(base) * math.Pow(2, float64(attempt-1))
	if max > 0 && d > float64(max) {
		d = float64(max)
	}

	if jitter > 0 {
		spread := d * jitter
		d = d - spread + rand.Float64()*2*spread
	}

	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
