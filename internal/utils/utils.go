// Package utils holds small helpers shared by the advisory clients and the merger.
package utils

import (
	"context"
	"time"
)

// WaitFor blocks for d or until ctx is done. A non-positive d returns immediately.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
