package nakama

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/ratelimit"
)

const animesPath = "/animes"

// CatalogClient fetches the complete anime list and keeps the last
// successful result for local search.
type CatalogClient struct {
	log     *zap.Logger
	limiter *ratelimit.Interval
	ep      *endpoint[[]Anime]

	mu     sync.RWMutex
	cached []Anime
	loaded bool
}

func NewCatalogClient(opts ...Option) *CatalogClient {
	s := newSettings(opts)
	c := &CatalogClient{
		log:     s.log,
		limiter: ratelimit.NewInterval(s.window, ratelimit.WithClock(s.now)),
	}
	c.ep = newEndpoint[[]Anime](animesPath, newTransport(s, catalogMaxBodySize), c.limiter)
	return c
}

// FetchAll retrieves every anime from the API. It returns ErrRateLimited
// without contacting the API when called again inside the rate limit window.
func (c *CatalogClient) FetchAll(ctx context.Context) ([]Anime, error) {
	animes, err := c.ep.fetch(ctx, c.store)
	if errors.Is(err, ErrRateLimited) {
		return nil, err
	}
	if err != nil {
		logFailure(c.log, "fetch animes failed", animesPath, err)
		return nil, &FetchError{Op: "fetch animes", Err: err}
	}
	return animes, nil
}

func (c *CatalogClient) store(animes []Anime) {
	c.mu.Lock()
	c.cached = animes
	c.loaded = true
	c.mu.Unlock()
}

// Cached returns the slice stored by the last successful FetchAll. ok is
// false before the first success.
func (c *CatalogClient) Cached() (animes []Anime, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached, c.loaded
}

// Search filters the cached animes by case-insensitive title substring.
// It never fetches; with no cache it returns an empty result.
func (c *CatalogClient) Search(query string) []Anime {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []Anime{}
	if !c.loaded {
		return out
	}
	q := strings.ToLower(query)
	for _, a := range c.cached {
		if strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, a)
		}
	}
	return out
}

// RetryAfter reports how long until FetchAll is permitted again.
func (c *CatalogClient) RetryAfter() time.Duration {
	return c.limiter.Remaining()
}
