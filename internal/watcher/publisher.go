package watcher

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher delivers upload events.
type Publisher interface {
	Publish(ctx context.Context, subject string, evt UploadEvent) error
}

// NATSPublisher publishes events as JSON on core NATS. With a nil connection
// it runs in stub mode and only logs.
type NATSPublisher struct {
	nc  *nats.Conn
	log *zap.Logger
}

func NewNATSPublisher(nc *nats.Conn, log *zap.Logger) *NATSPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	if nc == nil {
		log.Warn("NATS_URL not set, upload events will not be published (stub mode)")
	}
	return &NATSPublisher{nc: nc, log: log}
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, evt UploadEvent) error {
	if p.nc == nil {
		p.log.Debug("NATS stub: skipping publish", zap.String("subject", subject), zap.String("event_id", evt.EventID))
		return nil
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return err
	}
	p.log.Debug("NATS event published", zap.String("subject", subject), zap.String("event_id", evt.EventID))
	return nil
}
