package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/pkg/log"
)

// InFlightFunc reports the number of update handlers currently running.
type InFlightFunc func() int64

// Server is the liveness endpoint.
type Server struct {
	srv      *http.Server
	inFlight InFlightFunc
	started  time.Time
}

func NewServer(cfg *config.HealthConfig, inFlight InFlightFunc) *Server {
	s := &Server{
		inFlight: inFlight,
		started:  time.Now(),
	}

	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)

	s.srv = &http.Server{Addr: cfg.Addr, Handler: r}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting health server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"in_flight":      s.inFlight(),
	})
}
