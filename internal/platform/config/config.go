package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string
}

// NakamaConfig holds the API client settings shared by the three clients.
type NakamaConfig struct {
	BaseURL             string
	Timeout             time.Duration
	RateLimitWindow     time.Duration
	CaptchaMaxPerMinute int
}

type WatchConfig struct {
	Enabled  bool
	Interval time.Duration
	Subject  string
	NATS     NATSConfig
}

// NATSConfig is the upload event broker. An empty URL means events are only
// logged.
type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	Nakama      NakamaConfig
	Watch       WatchConfig
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: env("SERVICE_NAME", "nakama-gateway"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr: env("HTTP_ADDR", ":8080"),
		},
		Nakama: NakamaConfig{
			BaseURL: env("NAKAMA_BASE_URL", "https://nakamastream.lat/api"),
		},
		Watch: WatchConfig{
			Subject: env("WATCH_SUBJECT", "nakama.recent.uploaded"),
			NATS:    NATSConfig{URL: env("NATS_URL", "")},
		},
	}

	var err error
	if cfg.Nakama.Timeout, err = envDuration("NAKAMA_TIMEOUT", 5*time.Second); err != nil {
		return AppConfig{}, err
	}
	if cfg.Nakama.RateLimitWindow, err = envDuration("NAKAMA_RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return AppConfig{}, err
	}
	if cfg.Nakama.CaptchaMaxPerMinute, err = envInt("NAKAMA_CAPTCHA_MAX_PER_MINUTE", 60); err != nil {
		return AppConfig{}, err
	}
	if cfg.Watch.Enabled, err = envBool("WATCH_ENABLED", true); err != nil {
		return AppConfig{}, err
	}
	if cfg.Watch.Interval, err = envDuration("WATCH_INTERVAL", cfg.Nakama.RateLimitWindow); err != nil {
		return AppConfig{}, err
	}
	if cfg.Watch.NATS.MaxReconnects, err = envInt("NATS_MAX_RECONNECTS", 5); err != nil {
		return AppConfig{}, err
	}
	if cfg.Watch.NATS.ReconnectWait, err = envDuration("NATS_RECONNECT_WAIT", 2*time.Second); err != nil {
		return AppConfig{}, err
	}
	// the watcher waits Interval after each poll finishes, so an interval
	// equal to the window is never rejected by the limiter
	if cfg.Watch.Interval < cfg.Nakama.RateLimitWindow {
		return AppConfig{}, fmt.Errorf("WATCH_INTERVAL (%s) must not be shorter than NAKAMA_RATE_LIMIT_WINDOW (%s)",
			cfg.Watch.Interval, cfg.Nakama.RateLimitWindow)
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
