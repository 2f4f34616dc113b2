// Package natsconn opens the gateway's NATS connection for upload events.
// Connection state changes are logged so a lost broker shows up next to the
// readiness failures it causes.
package natsconn

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	DefaultMaxReconnects = 5
	DefaultReconnectWait = 2 * time.Second
)

type Options struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
	Log           *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxReconnects <= 0 {
		o.MaxReconnects = DefaultMaxReconnects
	}
	if o.ReconnectWait <= 0 {
		o.ReconnectWait = DefaultReconnectWait
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	return o
}

func (o Options) natsOptions() []nats.Option {
	log := o.Log
	opts := []nats.Option{
		nats.MaxReconnects(o.MaxReconnects),
		nats.ReconnectWait(o.ReconnectWait),
		nats.RetryOnFailedConnect(false),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("nats connection closed")
		}),
	}
	if o.Name != "" {
		opts = append(opts, nats.Name(o.Name))
	}
	return opts
}

// Connect dials opts.URL once and fails fast; reconnects apply only after
// the first connection succeeded.
func Connect(opts Options) (*nats.Conn, error) {
	if opts.URL == "" {
		return nil, errors.New("nats connect: url is required")
	}
	opts = opts.withDefaults()

	nc, err := nats.Connect(opts.URL, opts.natsOptions()...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", opts.URL, err)
	}
	opts.Log.Info("nats connected", zap.String("url", nc.ConnectedUrl()), zap.String("name", opts.Name))
	return nc, nil
}
