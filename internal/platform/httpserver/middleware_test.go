package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_RejectsUnusableIDs(t *testing.T) {
	cases := map[string]string{
		"too long":  strings.Repeat("a", maxRequestIDLen+1),
		"spaces":    "rid with spaces",
		"non ascii": "rid-é",
	}
	for name, rid := range cases {
		t.Run(name, func(t *testing.T) {
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(RequestIDFromContext(r.Context())))
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, rid)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got := rr.Body.String(); got == rid || len(got) != 36 {
				t.Fatalf("expected a minted uuid, got %q", got)
			}
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := newTestRouter(RouterConfig{Log: zap.New(core)})
	r.Get("/limited", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	for _, path := range []string{"/healthz", "/limited"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(RequestIDHeader, "rid-7")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 access log lines, got %d", len(entries))
	}
	ok, limited := entries[0], entries[1]
	if ok.Level != zapcore.DebugLevel || ok.ContextMap()["status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected healthz entry: %v %v", ok.Level, ok.ContextMap())
	}
	if limited.Level != zapcore.WarnLevel || limited.ContextMap()["status"] != int64(http.StatusTooManyRequests) {
		t.Fatalf("unexpected limited entry: %v %v", limited.Level, limited.ContextMap())
	}
	if limited.ContextMap()["request_id"] != "rid-7" || limited.ContextMap()["path"] != "/limited" {
		t.Fatalf("missing request fields: %v", limited.ContextMap())
	}
}
