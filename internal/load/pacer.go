package load

import (
	"context"
	"time"
)

// Pacer is the pacing policy between store writes. It throttles batch
// upserts and per-record fallback retries so a large load does not overwhelm
// the warehouse. The intervals are policy knobs, not correctness
// requirements; a zero Pacer disables pacing entirely (useful in tests).
type Pacer struct {
	// BatchInterval is the pause after each batch upsert.
	BatchInterval time.Duration

	// RetryInterval is the pause after each per-record fallback upsert.
	RetryInterval time.Duration
}

// AfterBatch waits the inter-batch interval, returning early if the context
// is cancelled.
func (p Pacer) AfterBatch(ctx context.Context) {
	wait(ctx, p.BatchInterval)
}

// AfterRetry waits the inter-retry interval, returning early if the context
// is cancelled.
func (p Pacer) AfterRetry(ctx context.Context) {
	wait(ctx, p.RetryInterval)
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
