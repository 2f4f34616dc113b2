package run

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
)

func TestWithSignals_StartError(t *testing.T) {
	r := New(zap.NewNop())
	var shutdownCalled bool
	code := r.WithSignals(
		func(context.Context) error { return errors.New("listen: address in use") },
		func(context.Context) error {
			shutdownCalled = true
			return nil
		},
	)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !shutdownCalled {
		t.Fatal("expected shutdown to run")
	}
}

func TestWithSignals_ServerClosed(t *testing.T) {
	r := New(zap.NewNop())
	code := r.WithSignals(func(context.Context) error { return http.ErrServerClosed }, nil)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}
