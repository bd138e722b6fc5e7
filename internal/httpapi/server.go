package httpapi

import (
	"context"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessd/internal/config"
	"github.com/lgbarn/chessd/internal/errors"
)

// Server runs the API until its context is cancelled.
type Server struct {
	cfg *config.ServerConfig
	srv *http.Server
	log zerolog.Logger
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg *config.ServerConfig, handler http.Handler, log zerolog.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			MaxHeaderBytes:    1 << 16,
		},
	}
}

// Serve accepts connections on l until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	// Hijacked WebSocket connections outlive Shutdown; deriving request
	// contexts from ctx ends their loops.
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", l.Addr().String()).Msg("http listening")
		errc <- s.srv.Serve(l)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info().Msg("http shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}
