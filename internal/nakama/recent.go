package nakama

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/ratelimit"
)

const recentAnimesPath = "/recent-animes"

// RecentClient fetches the newest-first anime list and remembers the most
// recently uploaded entry across calls.
type RecentClient struct {
	log     *zap.Logger
	limiter *ratelimit.Interval
	ep      *endpoint[[]Anime]

	mu     sync.RWMutex
	latest *Anime
}

func NewRecentClient(opts ...Option) *RecentClient {
	s := newSettings(opts)
	c := &RecentClient{
		log:     s.log,
		limiter: ratelimit.NewInterval(s.window, ratelimit.WithClock(s.now)),
	}
	c.ep = newEndpoint[[]Anime](recentAnimesPath, newTransport(s, maxBodySize), c.limiter)
	return c
}

// FetchRecent retrieves the recent anime list. When the first element's
// identifier differs from the stored one it becomes the most recent upload.
func (c *RecentClient) FetchRecent(ctx context.Context) ([]Anime, error) {
	var changed bool
	animes, err := c.ep.fetch(ctx, func(list []Anime) {
		changed = c.observe(list)
	})
	if errors.Is(err, ErrRateLimited) {
		return nil, err
	}
	if err != nil {
		logFailure(c.log, "fetch recent animes failed", recentAnimesPath, err)
		return nil, &FetchError{Op: "fetch recent animes", Err: err}
	}
	if changed {
		c.log.Info("new upload detected", zap.Stringer("anime_id", animes[0].ID), zap.String("title", animes[0].Title))
	}
	return animes, nil
}

func (c *RecentClient) observe(list []Anime) bool {
	if len(list) == 0 {
		return false
	}
	first := list[0]

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest != nil && c.latest.ID == first.ID {
		return false
	}
	c.latest = &first
	return true
}

// MostRecentUploaded returns the first element of the latest fetch whose
// identifier differed from the one stored before it.
func (c *RecentClient) MostRecentUploaded() (Anime, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.latest == nil {
		return Anime{}, false
	}
	return *c.latest, true
}

// RetryAfter reports how long until FetchRecent is permitted again.
func (c *RecentClient) RetryAfter() time.Duration {
	return c.limiter.Remaining()
}
