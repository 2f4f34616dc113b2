package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/nakama"
	"github.com/example/nakamastream/internal/platform/api"
	"github.com/example/nakamastream/internal/platform/httpserver"
)

// retryAfterer is implemented by clients that know when their rate limit
// window reopens.
type retryAfterer interface {
	RetryAfter() time.Duration
}

type Handlers struct {
	Log     *zap.Logger
	Catalog nakama.Catalog
	Recent  nakama.Recent
	Captcha nakama.CaptchaProvider
}

func (h Handlers) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/animes", h.FetchAll)
		r.Get("/animes/cached", h.Cached)
		r.Get("/animes/search", h.Search)
		r.Get("/recent", h.FetchRecent)
		r.Get("/recent/latest", h.Latest)
		r.Get("/captcha", h.NewCaptcha)
	})
}

func (h Handlers) FetchAll(w http.ResponseWriter, r *http.Request) {
	animes, err := h.Catalog.FetchAll(r.Context())
	if err != nil {
		h.writeErr(w, r, err, h.Catalog)
		return
	}
	api.WriteJSON(w, http.StatusOK, nonNil(animes))
}

func (h Handlers) Cached(w http.ResponseWriter, r *http.Request) {
	animes, ok := h.Catalog.Cached()
	if !ok {
		api.NotFound(w, "CACHE_EMPTY", "No anime list has been fetched yet", httpserver.RequestIDFromContext(r.Context()))
		return
	}
	api.WriteJSON(w, http.StatusOK, nonNil(animes))
}

func (h Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		api.BadRequest(w, "VALIDATION_QUERY", "Query parameter q is required", httpserver.RequestIDFromContext(r.Context()), nil)
		return
	}
	api.WriteJSON(w, http.StatusOK, h.Catalog.Search(q))
}

func (h Handlers) FetchRecent(w http.ResponseWriter, r *http.Request) {
	animes, err := h.Recent.FetchRecent(r.Context())
	if err != nil {
		h.writeErr(w, r, err, h.Recent)
		return
	}
	api.WriteJSON(w, http.StatusOK, nonNil(animes))
}

func (h Handlers) Latest(w http.ResponseWriter, r *http.Request) {
	anime, ok := h.Recent.MostRecentUploaded()
	if !ok {
		api.NotFound(w, "NO_RECENT_UPLOAD", "No recent upload has been seen yet", httpserver.RequestIDFromContext(r.Context()))
		return
	}
	api.WriteJSON(w, http.StatusOK, anime)
}

func (h Handlers) NewCaptcha(w http.ResponseWriter, r *http.Request) {
	captcha, err := h.Captcha.NewCaptcha(r.Context())
	if err != nil {
		h.writeErr(w, r, err, h.Captcha)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(captcha)
}

func (h Handlers) writeErr(w http.ResponseWriter, r *http.Request, err error, client any) {
	rid := httpserver.RequestIDFromContext(r.Context())
	if errors.Is(err, nakama.ErrRateLimited) {
		if ra, ok := client.(retryAfterer); ok {
			if d := ra.RetryAfter(); d > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
			}
		}
		api.RateLimited(w, "RATE_LIMITED", err.Error(), rid, nil)
		return
	}

	var details map[string]any
	var ae *nakama.APIError
	if errors.As(err, &ae) {
		details = map[string]any{"kind": ae.Kind.String()}
		if ae.Status != 0 {
			details["upstream_status"] = ae.Status
		}
	}
	if h.Log != nil {
		h.Log.Warn("upstream call failed", zap.String("path", r.URL.Path), zap.String("request_id", rid), zap.Error(err))
	}
	api.WriteError(w, http.StatusBadGateway, "UPSTREAM_FAILED", err.Error(), rid, details)
}

func nonNil(animes []nakama.Anime) []nakama.Anime {
	if animes == nil {
		return []nakama.Anime{}
	}
	return animes
}
