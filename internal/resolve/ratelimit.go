package resolve

import (
	"context"

	"golang.org/x/time/rate"
)

// ReadLimiter bounds the rate of file reads on the fileStore's read path, the same cooperative way Bounds.MaxDepth/MaxNodes bound traversal:
// a best-effort cap, not a hard backpressure mechanism. A nil *ReadLimiter
// is the default and never blocks.
type ReadLimiter struct {
	inner *rate.Limiter
}

// NewReadLimiter returns a limiter admitting r file reads per second, with
// a burst of b reads admitted before the first wait.
func NewReadLimiter(r float64, b int) *ReadLimiter {
	return &ReadLimiter{inner: rate.NewLimiter(rate.Limit(r), b)}
}

func (l *ReadLimiter) wait(ctx context.Context) error {
	if l == nil || l.inner == nil {
		return nil
	}
	return l.inner.Wait(ctx)
}
