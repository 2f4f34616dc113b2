package nakama

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/ratelimit"
)

const (
	DefaultBaseURL = "https://nakamastream.lat/api"
	DefaultTimeout = 5 * time.Second
)

type settings struct {
	baseURL       string
	timeout       time.Duration
	httpClient    *http.Client
	log           *zap.Logger
	now           func() time.Time
	window        time.Duration
	maxPerWindow  int
	counterWindow time.Duration
	maxBodySize   int64
}

// Option configures a client at construction. Settings are fixed afterwards.
type Option func(*settings)

func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithTimeout sets the per-request timeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithRateLimitWindow sets the minimum time between successful fetches for
// the catalog and recent clients.
func WithRateLimitWindow(d time.Duration) Option {
	return func(s *settings) { s.window = d }
}

// WithMaxRequestsPerMinute sets the captcha client's request budget per
// counting window.
func WithMaxRequestsPerMinute(n int) Option {
	return func(s *settings) { s.maxPerWindow = n }
}

// WithCounterWindow overrides the captcha counter reset interval (one minute).
func WithCounterWindow(d time.Duration) Option {
	return func(s *settings) { s.counterWindow = d }
}

// WithMaxBodySize caps the response body a client accepts. Larger bodies
// fail with "response too large". Without it the catalog allows 64 MiB and
// the other clients 4 MiB.
func WithMaxBodySize(n int64) Option {
	return func(s *settings) { s.maxBodySize = n }
}

func newSettings(opts []Option) settings {
	s := settings{
		baseURL:       DefaultBaseURL,
		timeout:       DefaultTimeout,
		now:           time.Now,
		window:        ratelimit.DefaultWindow,
		maxPerWindow:  ratelimit.DefaultMaxRequests,
		counterWindow: ratelimit.DefaultWindow,
	}
	for _, o := range opts {
		o(&s)
	}
	if strings.TrimSpace(s.baseURL) == "" {
		s.baseURL = DefaultBaseURL
	}
	s.baseURL = strings.TrimRight(strings.TrimSpace(s.baseURL), "/")
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}
