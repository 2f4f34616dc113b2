package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 60
)

// Limiter is the guard consulted before a remote call. Allow never blocks and
// Record is called by the owner only once the call has succeeded.
type Limiter interface {
	Allow() bool
	Record()
}

type Option func(*Interval)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Interval) {
		if now != nil {
			l.now = now
		}
	}
}

// Interval permits an operation once at least window has elapsed since the
// last recorded one.
type Interval struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
	now    func() time.Time
}

func NewInterval(window time.Duration, opts ...Option) *Interval {
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Interval{window: window, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Interval) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last.IsZero() || l.now().Sub(l.last) >= l.window
}

func (l *Interval) Record() {
	l.mu.Lock()
	l.last = l.now()
	l.mu.Unlock()
}

// Remaining reports how long until Allow returns true again.
func (l *Interval) Remaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last.IsZero() {
		return 0
	}
	if d := l.window - l.now().Sub(l.last); d > 0 {
		return d
	}
	return 0
}

func (l *Interval) Window() time.Duration { return l.window }

// Counter permits up to max operations per window. A ticker started by
// NewCounter zeroes the count every window regardless of request activity;
// call Stop to release it.
type Counter struct {
	mu    sync.Mutex
	max   int
	count int

	t        *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewCounter(max int, window time.Duration) *Counter {
	if max <= 0 {
		max = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	c := &Counter{
		max:  max,
		t:    time.NewTicker(window),
		done: make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *Counter) loop() {
	for {
		select {
		case <-c.done:
			return
		case <-c.t.C:
			c.Reset()
		}
	}
}

func (c *Counter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count < c.max
}

func (c *Counter) Record() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *Counter) Reset() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

// Count returns the number of operations recorded in the current window.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Counter) Stop() {
	if c == nil || c.t == nil {
		return
	}
	c.stopOnce.Do(func() {
		c.t.Stop()
		close(c.done)
	})
}
