package main

import (
	"context"
	"errors"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/nakamastream/internal/handlers"
	"github.com/example/nakamastream/internal/nakama"
	"github.com/example/nakamastream/internal/platform/config"
	"github.com/example/nakamastream/internal/platform/httpserver"
	"github.com/example/nakamastream/internal/platform/logging"
	"github.com/example/nakamastream/internal/platform/natsconn"
	"github.com/example/nakamastream/internal/platform/run"
	"github.com/example/nakamastream/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	clientOpts := []nakama.Option{
		nakama.WithBaseURL(cfg.Nakama.BaseURL),
		nakama.WithTimeout(cfg.Nakama.Timeout),
		nakama.WithLogger(log.Named("nakama")),
		nakama.WithRateLimitWindow(cfg.Nakama.RateLimitWindow),
		nakama.WithMaxRequestsPerMinute(cfg.Nakama.CaptchaMaxPerMinute),
	}
	catalog := nakama.NewCatalogClient(clientOpts...)
	recent := nakama.NewRecentClient(clientOpts...)
	captcha := nakama.NewCaptchaClient(clientOpts...)

	var nc *nats.Conn
	if cfg.Watch.Enabled && cfg.Watch.NATS.URL != "" {
		nc, err = natsconn.Connect(natsconn.Options{
			URL:           cfg.Watch.NATS.URL,
			Name:          cfg.ServiceName,
			MaxReconnects: cfg.Watch.NATS.MaxReconnects,
			ReconnectWait: cfg.Watch.NATS.ReconnectWait,
			Log:           log.Named("nats"),
		})
		if err != nil {
			log.Error("nats connect", zap.Error(err))
			run.Exit(1)
		}
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		Log: log.Named("http"),
		ReadyFunc: func() error {
			if nc != nil && !nc.IsConnected() {
				return errors.New("nats disconnected")
			}
			return nil
		},
	})
	handlers.Handlers{Log: log, Catalog: catalog, Recent: recent, Captcha: captcha}.Register(r)

	srv := httpserver.New(httpserver.Options{
		Addr:            cfg.HTTP.Addr,
		ServiceName:     cfg.ServiceName,
		Handler:         r,
		Log:             log,
		UpstreamTimeout: cfg.Nakama.Timeout,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if cfg.Watch.Enabled {
			w := &watcher.Watcher{
				Recent:    recent,
				Publisher: watcher.NewNATSPublisher(nc, log),
				Log:       log.Named("watcher"),
				Interval:  cfg.Watch.Interval,
				Subject:   cfg.Watch.Subject,
			}
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("watcher stopped", zap.Error(err))
				}
			}()
		}
		return srv.Start(ctx)
	}, srv.Shutdown)

	_ = captcha.Close()
	if nc != nil {
		nc.Close()
	}
	log.Info("exit", zap.Int("code", code))
	_ = log.Sync()
	run.Exit(code)
}
