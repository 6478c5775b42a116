package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// readHeaderTimeout bounds how long a client may take to send request headers.
	readHeaderTimeout = time.Second * 10
	// shutdownTimeout bounds how long in-flight requests are given to complete on shutdown.
	shutdownTimeout = time.Second * 5
)

// ServerConfig represents the configuration for the http server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string
	// Handler serves the requests.
	Handler http.Handler
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Server represents the http server.
type Server struct {
	cfg *ServerConfig
	srv *http.Server
}

// NewServer initializes a new http server.
func NewServer(cfg *ServerConfig) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           cfg.Handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Serve accepts connections on the provided listener until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Msgf("listening on %s", ln.Addr())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}

	s.cfg.Logger.Info().Msg("http server stopped")

	return nil
}

// Run listens on the configured address and serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, ln)
}
