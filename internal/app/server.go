package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/guttosm/catering-service/config"
	"github.com/rs/zerolog/log"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = time.Minute
	defaultShutdownTimeout = 10 * time.Second
	idleTimeout            = 60 * time.Second
	maxHeaderBytes         = 1 << 20
)

// Server serves the storefront until its context is cancelled, then drains
// in-flight requests and runs the shutdown hooks.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	hooks           []func(ctx context.Context) error
}

// NewServer builds a Server from the HTTP settings. Zero durations fall back
// to the defaults.
func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:           ":" + cfg.Port,
			Handler:        handler,
			ReadTimeout:    orDefault(cfg.ReadTimeout, defaultReadTimeout),
			WriteTimeout:   orDefault(cfg.WriteTimeout, defaultWriteTimeout),
			IdleTimeout:    idleTimeout,
			MaxHeaderBytes: maxHeaderBytes,
		},
		shutdownTimeout: orDefault(cfg.ShutdownTimeout, defaultShutdownTimeout),
	}
}

// OnShutdown registers fn to run after the listener has drained. Hooks run
// in registration order and share the shutdown deadline.
func (s *Server) OnShutdown(fn func(ctx context.Context) error) {
	s.hooks = append(s.hooks, fn)
}

// Run listens on the configured address and blocks until ctx is done or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = s.Shutdown()
		}
		return err
	case <-ctx.Done():
		log.Info().Err(context.Cause(ctx)).Msg("Shutting down")
	}
	return s.Shutdown()
}

// Shutdown stops accepting connections, waits for in-flight requests and
// then runs the shutdown hooks.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		errs = append(errs, err)
	}
	for _, hook := range s.hooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.hooks = nil

	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info().Msg("Server stopped gracefully")
	return nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
