package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/PulseHub_Go/internal/account"
	"github.com/osse101/PulseHub_Go/internal/authgate"
	"github.com/osse101/PulseHub_Go/internal/bansync"
	"github.com/osse101/PulseHub_Go/internal/database"
	"github.com/osse101/PulseHub_Go/internal/handler"
	"github.com/osse101/PulseHub_Go/internal/linking"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/metrics"
	"github.com/osse101/PulseHub_Go/internal/middleware"
	"github.com/osse101/PulseHub_Go/internal/threatlog"
)

// Options configures the HTTP surface
type Options struct {
	Port              int
	Version           string
	Environment       string
	APIKey            string
	TrustedProxies    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Services are the collaborators the routes dispatch to
type Services struct {
	DBPool   database.Pool
	Accounts account.Service
	Linking  linking.Service
	BanSync  bansync.Service
	Threats  threatlog.Service
	Gate     *authgate.Gate
	Web      *handler.WebHandlers
}

type Server struct {
	httpServer *http.Server
	detector   *SuspiciousActivityDetector
}

// NewServer creates a new Server instance
func NewServer(opts Options, svcs Services) *Server {
	detector := NewSuspiciousActivityDetector(opts.RateLimitRequests, opts.RateLimitWindow)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svcs, detector),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		detector: detector,
	}
}

// NewRouter builds the full route table
func NewRouter(opts Options, svcs Services, detector *SuspiciousActivityDetector) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(middleware.ClientInfoMiddleware(opts.TrustedProxies))
	r.Use(loggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(RateLimitMiddleware(detector, svcs.Threats, opts.APIKey))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svcs.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(opts.Version, opts.Environment))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Internal API used by the Discord bot and operators
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(opts.APIKey, detector, svcs.Threats))

		r.Post("/link", handler.HandleLink(svcs.Linking))
		r.Post("/bans", handler.HandleReportBan(svcs.BanSync))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/discord/{discordID}", handler.HandleGetAccountByDiscord(svcs.Accounts))
			r.Post("/password-reset", handler.HandlePasswordReset(svcs.Accounts))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/accounts/{accountID}/ban", handler.HandleAdminBan(svcs.BanSync))
			r.Get("/threats", handler.HandleListThreats(svcs.Threats))
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, ErrMsgNotFound, http.StatusNotFound)
		})
	})

	// Browser pages, every one of them behind the auth gate
	web := svcs.Web
	r.Group(func(r chi.Router) {
		r.Use(svcs.Gate.Middleware)

		r.Get("/", web.HandleSignupPage)
		r.Post("/signup", web.HandleSignup)
		r.Get("/login", web.HandleLoginPage)
		r.Post("/login", web.HandleLogin)
		r.Post("/logout", web.HandleLogout)

		r.With(authgate.RequireUnlinked).Get("/link", web.HandleLinkPage)
		r.With(authgate.RequireLinked).Get("/home", web.HandleHome)
	})

	r.NotFound(web.HandleNotFound)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		for _, p := range QuietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)

		clientIP := ""
		if info, ok := middleware.ClientInfoFromContext(ctx); ok {
			clientIP = info.IP
		}

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		log.Debug(LogMsgRequestHeaders, "headers", sanitizeHeaders(r.Header))

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// sanitizeHeaders copies h with credentials redacted
func sanitizeHeaders(h http.Header) http.Header {
	sanitized := make(http.Header, len(h))
	for k, v := range h {
		if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) || strings.EqualFold(k, HeaderCookie) {
			sanitized[k] = []string{RedactedValue}
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
