package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWriteTimeout = 30 * time.Second

	// headroom over the upstream timeout for encoding the response
	writeMargin = 5 * time.Second
)

type Server struct {
	http *http.Server
	log  *zap.Logger
}

type Options struct {
	Addr        string
	ServiceName string
	Handler     http.Handler
	Log         *zap.Logger

	// UpstreamTimeout is the longest a handler waits on the nakama API.
	UpstreamTimeout time.Duration
}

func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	write := defaultWriteTimeout
	if opts.UpstreamTimeout > 0 {
		write = opts.UpstreamTimeout + writeMargin
	}
	return &Server{
		http: &http.Server{
			Addr:              opts.Addr,
			Handler:           opts.Handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      write,
		},
		log: log.With(zap.String("addr", opts.Addr), zap.String("service", opts.ServiceName)),
	}
}

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(context.Context) error {
	s.log.Info("http server starting", zap.Duration("write_timeout", s.http.WriteTimeout))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server draining")
	return s.http.Shutdown(ctx)
}
