package nakama

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/ratelimit"
)

const newCaptchaPath = "/auth/new-captcha"

// CaptchaClient requests captcha challenges, limited to a fixed number of
// successful requests per counting window. The window timer starts with the
// client; Close stops it.
type CaptchaClient struct {
	log     *zap.Logger
	counter *ratelimit.Counter
	ep      *endpoint[Captcha]
}

func NewCaptchaClient(opts ...Option) *CaptchaClient {
	s := newSettings(opts)
	counter := ratelimit.NewCounter(s.maxPerWindow, s.counterWindow)
	return &CaptchaClient{
		log:     s.log,
		counter: counter,
		ep:      newEndpoint[Captcha](newCaptchaPath, newTransport(s, maxBodySize), counter),
	}
}

// NewCaptcha fetches a fresh challenge. Remote failures are returned as
// *APIError so callers can tell a server error from a network problem.
func (c *CaptchaClient) NewCaptcha(ctx context.Context) (Captcha, error) {
	captcha, err := c.ep.fetch(ctx, nil)
	if err != nil && !errors.Is(err, ErrRateLimited) {
		logFailure(c.log, "new captcha failed", newCaptchaPath, err)
	}
	return captcha, err
}

// Close stops the counter reset timer. After Close the request count is no
// longer reset, so the client stays usable only until its budget runs out.
func (c *CaptchaClient) Close() error {
	c.counter.Stop()
	return nil
}
