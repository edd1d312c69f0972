// Package web provides the HTTP server and handlers for the wildlife
// observation dashboard.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/wildlife/internal/chart"
	"github.com/JonMunkholm/wildlife/internal/config"
	"github.com/JonMunkholm/wildlife/internal/core"
	mw "github.com/JonMunkholm/wildlife/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// contentSecurityPolicy only allows same-origin resources; chart images
// are served from /charts and the dashboard has no inline script or style.
const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; font-src 'self'; frame-ancestors 'none'"

// Server is the HTTP server for the dashboard.
type Server struct {
	cfg     *config.Config
	session *core.Session
	board   *chart.Board
	limiter *core.Limiter
	metrics *metrics

	rate       *rateLimiter
	exportRate *rateLimiter

	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server for session. The session may still be loading.
func NewServer(cfg *config.Config, session *core.Session) *Server {
	s := &Server{
		cfg:     cfg,
		session: session,
		limiter: core.NewLimiter(cfg.Charts.MaxConcurrent, cfg.Charts.MaxWaitTime),
		router:  chi.NewRouter(),
	}
	s.metrics = newMetrics(session, s.boardStats, s.limiter)

	size := chart.Size{Width: cfg.Charts.Width, Height: cfg.Charts.Height}
	s.board = chart.NewBoard(s.metrics.instrumentRender(chart.SVGRenderer(size)), cfg.Charts.CacheSets)

	if cfg.Rate.Enabled {
		s.rate = newRateLimiter(cfg.Rate.RequestsPerMinute, time.Minute)
		s.exportRate = newRateLimiter(cfg.Rate.ExportLimit, time.Minute)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) boardStats() chart.BoardStats {
	if s.board == nil {
		return chart.BoardStats{}
	}
	return s.board.Stats()
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(mw.Instrument(s.metrics))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)

	if s.rate != nil {
		s.router.Use(s.rate.middleware(s))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health checks
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)

	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	}

	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/charts/{kind}.svg", s.handleChart)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security))

		r.Get("/status", s.handleStatus)
		r.Get("/filters", s.handleFilters)
		r.Get("/records", s.handleRecords)
		r.Get("/projection", s.handleProjection)

		r.Group(func(r chi.Router) {
			if s.exportRate != nil {
				r.Use(s.exportRate.middleware(s))
			}
			r.Get("/export", s.handleExport)
		})
	})
}

// Start begins listening for HTTP requests. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, waits for in-flight renders and
// exports, and releases the chart board.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.limiter.Drain(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.rate != nil {
		s.rate.close()
	}
	if s.exportRate != nil {
		s.exportRate.close()
	}
	s.board.Release()
	return errors.Join(errs...)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			h.Set("Content-Security-Policy", contentSecurityPolicy)
		}
		next.ServeHTTP(w, r)
	})
}
