// Package watcher polls the recent uploads list and publishes an event each
// time the client's most recent upload changes. The first upload observed
// after start only primes the watcher.
package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/nakama"
)

const DefaultSubject = "nakama.recent.uploaded"

// UploadEvent is the payload published for a newly detected upload.
type UploadEvent struct {
	EventID    string       `json:"event_id"`
	Anime      nakama.Anime `json:"anime"`
	DetectedAt time.Time    `json:"detected_at"`
}

// Watcher is driven by a single goroutine; Poll is not safe for concurrent use.
type Watcher struct {
	Recent    nakama.Recent
	Publisher Publisher
	Log       *zap.Logger
	Interval  time.Duration
	Subject   string

	now       func() time.Time
	primed    bool
	published nakama.ID
}

// Run polls immediately and then waits Interval after each poll completes
// until ctx is cancelled. When the client reports a longer RetryAfter the
// watcher waits for that instead.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		w.Poll(ctx)
		timer.Reset(w.nextWait())
	}
}

// retryAfterer is implemented by clients that can tell when their limiter
// opens again.
type retryAfterer interface {
	RetryAfter() time.Duration
}

func (w *Watcher) nextWait() time.Duration {
	wait := w.Interval
	if wait <= 0 {
		wait = time.Minute
	}
	if ra, ok := w.Recent.(retryAfterer); ok {
		wait = max(wait, ra.RetryAfter())
	}
	return wait
}

// Poll performs one fetch and publishes when the most recent upload differs
// from the last one seen. The client may have been refreshed by other
// callers, so a rate-limited poll still checks the stored upload. Poll
// reports whether an event was published.
func (w *Watcher) Poll(ctx context.Context) bool {
	log := w.logger()
	if _, err := w.Recent.FetchRecent(ctx); err != nil {
		if errors.Is(err, nakama.ErrRateLimited) {
			log.Debug("watcher: fetch skipped, rate limited")
		} else {
			log.Warn("watcher: fetch recent failed", zap.Error(err))
		}
	}

	latest, ok := w.Recent.MostRecentUploaded()
	if !ok || (w.primed && latest.ID == w.published) {
		return false
	}
	if !w.primed {
		w.primed = true
		w.published = latest.ID
		log.Info("watcher: primed", zap.Stringer("anime_id", latest.ID))
		return false
	}

	evt := UploadEvent{EventID: uuid.NewString(), Anime: latest, DetectedAt: w.clock()().UTC()}
	subject := w.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	if err := w.Publisher.Publish(ctx, subject, evt); err != nil {
		log.Warn("watcher: publish failed", zap.String("subject", subject), zap.Error(err))
		return false
	}
	w.published = latest.ID
	log.Info("watcher: upload event published",
		zap.String("event_id", evt.EventID),
		zap.Stringer("anime_id", evt.Anime.ID),
		zap.String("title", evt.Anime.Title),
	)
	return true
}

func (w *Watcher) logger() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}

func (w *Watcher) clock() func() time.Time {
	if w.now == nil {
		return time.Now
	}
	return w.now
}
