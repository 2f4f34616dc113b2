package nakama

import (
	"context"

	"github.com/example/nakamastream/internal/ratelimit"
)

// endpoint is one rate-limited GET. One call runs at a time per endpoint, so
// overlapping callers on the same client run one after another and the
// second sees the limiter state left by the first. A caller whose context
// ends while waiting gives up without touching the limiter.
type endpoint[T any] struct {
	sem     chan struct{}
	path    string
	tr      *transport
	limiter ratelimit.Limiter
}

func newEndpoint[T any](path string, tr *transport, limiter ratelimit.Limiter) *endpoint[T] {
	return &endpoint[T]{sem: make(chan struct{}, 1), path: path, tr: tr, limiter: limiter}
}

// fetch runs the guarded call. apply is the caller's cache policy; it runs
// while the endpoint is held, once the limiter has recorded the success, and
// is skipped on any failure.
func (e *endpoint[T]) fetch(ctx context.Context, apply func(T)) (T, error) {
	var zero T
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return zero, apiErr(KindNoResponse, 0, "", ctx.Err())
	}
	defer func() { <-e.sem }()

	if !e.limiter.Allow() {
		return zero, ErrRateLimited
	}

	var out T
	if err := e.tr.getJSON(ctx, e.path, &out); err != nil {
		return zero, err
	}

	e.limiter.Record()
	if apply != nil {
		apply(out)
	}
	return out, nil
}
