package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fleshka4/autoswap/internal/config"
	"github.com/fleshka4/autoswap/internal/status"
	"github.com/fleshka4/autoswap/internal/transport/http/dto"
)

// StatusSource provides the state reported by /status.
type StatusSource interface {
	Snapshot() status.Snapshot
}

// Server represents the HTTP status surface of the swap loop.
type Server struct {
	source StatusSource
	mux    *http.ServeMux
	logger *slog.Logger

	graceTimeout      time.Duration
	readHeaderTimeout time.Duration
}

// NewServer creates a new HTTP server with registered routes. metrics may be
// nil, in which case /metrics is not served.
func NewServer(source StatusSource, metrics http.Handler, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if source == nil {
		return nil, errors.New("status source is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		source: source,
		mux:    http.NewServeMux(),
		logger: logger,

		graceTimeout:      cfg.Status.GraceTimeout,
		readHeaderTimeout: cfg.Status.ReadHeaderTimeout,
	}

	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.logger.Warn("ping write error", slog.Any("error", err))
		}
	})
	if metrics != nil {
		s.mux.Handle("GET /metrics", metrics)
	}

	return s, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := dto.NewStatusResponse(s.source.Snapshot())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("status write error", slog.Any("error", err))
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within the configured grace timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "net.Listen")
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.logMiddleware(s.mux),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server starting", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "srv.Serve")
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down status server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.graceTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "srv.Shutdown")
	}
	s.logger.Info("status server stopped gracefully")
	return nil
}

// logMiddleware logs each HTTP request and the time taken to process it.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.String()),
			slog.Duration("took", time.Since(start)),
		)
	})
}
