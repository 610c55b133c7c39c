package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"laundry-service/internal/config"
)

type Server struct {
	*http.Server
	shutdownTimeout time.Duration
}

func New(addr string, h http.Handler, cfg config.ServerConfig) *Server {
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 5 * time.Second
	}
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: shutdown,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	select {
	case <-ctx.Done():
		ctx2, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx2)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
