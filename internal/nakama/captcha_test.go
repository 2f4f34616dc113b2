package nakama

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCaptcha_CountingWindow(t *testing.T) {
	api := newFakeAPI(t, "/auth/new-captcha", `{"token":"t-1","image":"data:image/png;base64,AAAA"}`)
	c := NewCaptchaClient(WithBaseURL(api.srv.URL), WithMaxRequestsPerMinute(2), WithCounterWindow(time.Hour))
	defer c.Close()

	for i := 0; i < 2; i++ {
		got, err := c.NewCaptcha(context.Background())
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if string(got) != `{"token":"t-1","image":"data:image/png;base64,AAAA"}` {
			t.Fatalf("unexpected payload %s", got)
		}
	}

	if _, err := c.NewCaptcha(context.Background()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if api.hits.Load() != 2 {
		t.Fatalf("expected 2 network calls, got %d", api.hits.Load())
	}

	c.counter.Reset()
	if _, err := c.NewCaptcha(context.Background()); err != nil {
		t.Fatalf("after reset: %v", err)
	}
}

func TestCaptcha_TimerResetsBudget(t *testing.T) {
	api := newFakeAPI(t, "/auth/new-captcha", `{}`)
	c := NewCaptchaClient(WithBaseURL(api.srv.URL), WithMaxRequestsPerMinute(1), WithCounterWindow(20*time.Millisecond))
	defer c.Close()

	if _, err := c.NewCaptcha(context.Background()); err != nil {
		t.Fatalf("first: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := c.NewCaptcha(context.Background())
		if err == nil {
			break
		}
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("unexpected error %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("budget was never reset")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCaptcha_ErrorsDoNotCount(t *testing.T) {
	api := newFakeAPI(t, "/auth/new-captcha", `{}`)
	api.respond(http.StatusTooManyRequests, `{"message":"slow down"}`)
	c := NewCaptchaClient(WithBaseURL(api.srv.URL), WithMaxRequestsPerMinute(1), WithCounterWindow(time.Hour))
	defer c.Close()

	_, err := c.NewCaptcha(context.Background())
	var ae *APIError
	if !errors.As(err, &ae) || ae.Kind != KindResponse {
		t.Fatalf("expected response-kind APIError, got %v", err)
	}
	if err.Error() != "api error: slow down" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if c.counter.Count() != 0 {
		t.Fatalf("failed call must not count, got %d", c.counter.Count())
	}

	api.respond(http.StatusOK, `{"token":"ok"}`)
	if _, err := c.NewCaptcha(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestCaptcha_CloseIdempotent(t *testing.T) {
	c := NewCaptchaClient()
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
