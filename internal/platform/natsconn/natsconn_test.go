package natsconn

import (
	"testing"
	"time"
)

func TestOptions_Defaults(t *testing.T) {
	o := Options{URL: "nats://localhost:4222"}.withDefaults()
	if o.MaxReconnects != DefaultMaxReconnects || o.ReconnectWait != DefaultReconnectWait {
		t.Fatalf("unexpected defaults: max=%d wait=%s", o.MaxReconnects, o.ReconnectWait)
	}
	if o.Log == nil {
		t.Fatal("expected a nop logger")
	}

	o = Options{MaxReconnects: 9, ReconnectWait: time.Second}.withDefaults()
	if o.MaxReconnects != 9 || o.ReconnectWait != time.Second {
		t.Fatalf("explicit values overwritten: max=%d wait=%s", o.MaxReconnects, o.ReconnectWait)
	}
}

func TestNATSOptions_Name(t *testing.T) {
	base := len(Options{}.withDefaults().natsOptions())
	named := len(Options{Name: "nakama-gateway"}.withDefaults().natsOptions())
	if named != base+1 {
		t.Fatalf("expected name option to be added, got %d vs %d", named, base)
	}
}

func TestConnect_RequiresURL(t *testing.T) {
	if _, err := Connect(Options{}); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(Options{
		URL:           "nats://127.0.0.1:19999",
		Name:          "nakama-gateway",
		ReconnectWait: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error connecting to an unreachable server")
	}
}
