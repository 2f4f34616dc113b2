package nakama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	userAgent = "nakamastream-client/1.0"

	maxBodySize        = 4 << 20
	catalogMaxBodySize = 64 << 20
)

type transport struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
	maxBody int64
}

// newTransport uses limit unless the caller set WithMaxBodySize.
func newTransport(s settings, limit int64) *transport {
	if s.maxBodySize > 0 {
		limit = s.maxBodySize
	}
	return &transport{baseURL: s.baseURL, hc: s.httpClient, log: s.log, maxBody: limit}
}

// getJSON performs a GET on baseURL+path and decodes the body into out. Every
// failure is an *APIError.
func (t *transport) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return apiErr(KindSetup, 0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.hc.Do(req)
	if err != nil {
		return apiErr(KindNoResponse, 0, "", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return apiErr(KindResponse, resp.StatusCode, "incomplete response body", err)
	}
	if int64(len(b)) > t.maxBody {
		return apiErr(KindResponse, resp.StatusCode, "response too large",
			fmt.Errorf("body exceeds %d bytes", t.maxBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErr(KindResponse, resp.StatusCode, serverMessage(b),
			fmt.Errorf("status %d body=%q", resp.StatusCode, snippet(b)))
	}
	if err := json.Unmarshal(b, out); err != nil {
		return apiErr(KindResponse, resp.StatusCode, "unexpected response payload", err)
	}
	return nil
}

// serverMessage extracts the "message" field of a JSON error body.
func serverMessage(b []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}

func snippet(b []byte) string {
	return string(b[:min(len(b), 200)])
}

func logFailure(log *zap.Logger, msg, path string, err error) {
	fields := []zap.Field{zap.String("path", path), zap.Error(err)}
	var ae *APIError
	if errors.As(err, &ae) {
		fields = append(fields, zap.Stringer("kind", ae.Kind), zap.Int("status", ae.Status))
		if ae.Err != nil {
			fields = append(fields, zap.NamedError("cause", ae.Err))
		}
	}
	log.Error(msg, fields...)
}
