package discord

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/osse101/PulseHub_Go/internal/logger"
)

// Health server routes
const (
	RouteHealth   = "GET /healthz"
	RouteLiveness = "GET /livez"
)

// HTTPServer exposes the bot's health endpoints to the orchestrator.
// /livez only proves the process answers; /healthz also checks the gateway and the API.
type HTTPServer struct {
	server *http.Server
	bot    *Bot
}

// NewHTTPServer creates the health server listening on port
func NewHTTPServer(port string, bot *Bot) *HTTPServer {
	srv := &HTTPServer{bot: bot}

	mux := http.NewServeMux()
	mux.HandleFunc(RouteHealth, srv.HandleHealth)
	mux.HandleFunc(RouteLiveness, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv.server = &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the routed handler
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves in the background
func (s *HTTPServer) Start() {
	go func() {
		logger.Info("Bot health server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Bot health server failed", "error", err)
		}
	}()
}

// Stop shuts the server down, waiting for in-flight probes until ctx ends
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
