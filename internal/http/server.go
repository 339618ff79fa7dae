// Package http serves the embed API, health checks and metrics.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"videoembed/internal/core"
	"videoembed/internal/flood"
	"videoembed/internal/i18n"
	"videoembed/pkg/text"
)

const (
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 64 << 10
	requestIDHeader = "X-Request-ID"
)

type Server struct {
	config    *core.Config
	logger    *zap.Logger
	server    *http.Server
	metrics   *Metrics
	service   *core.Service
	scanner   *text.Scanner
	limiter   *flood.Limiter
	localizer *i18n.Localizer
	ready     atomic.Bool
}

// NewServer wires the API routes. Request limiting is off when the flood limit is 0.
func NewServer(config *core.Config, service *core.Service, metrics *Metrics, logger *zap.Logger) *Server {
	s := &Server{
		config:    config,
		logger:    logger.Named("http"),
		metrics:   metrics,
		service:   service,
		scanner:   text.NewScanner(service),
		localizer: i18n.NewLocalizer(config.App.Language),
	}

	if config.App.FloodLimitPerMinute > 0 {
		s.limiter = flood.New(config.App.FloodLimitPerMinute)
		metrics.Registry().MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "videoembed_flood_active_clients",
				Help: "Number of clients tracked by the flood limiter",
			},
			func() float64 { return float64(s.limiter.GetStats().ActiveClients) },
		))
	}

	s.server = createHTTPServer(&config.Server, s.setupRoutes())
	return s
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /{$}", s.handleHome)

	mux.Handle("GET /api/v1/providers", s.route("providers", s.handleProviders))
	mux.Handle("GET /api/v1/validate", s.route("validate", s.handleValidate))
	mux.Handle("GET /api/v1/embed/{provider}", s.route("resolve", s.handleResolve))
	mux.Handle("POST /api/v1/embed/{provider}", s.route("build", s.handleBuild))
	mux.Handle("POST /api/v1/scan", s.route("scan", s.handleScan))

	return mux
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", listener.Addr().String()))

	go func() {
		<-ctx.Done()
		s.ready.Store(false)
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
		if s.limiter != nil {
			s.limiter.Stop()
		}
	}()

	s.ready.Store(true)
	if err := s.server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// route wraps an API handler with a request ID, flood limiting and request metrics.
func (s *Server) route(name string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		rec.Header().Set(requestIDHeader, requestID)

		if s.limiter != nil && !s.limiter.Allow(clientAddr(r), name) {
			s.metrics.recordRateLimited(name)
			s.writeError(rec, r, http.StatusTooManyRequests, "RATE_LIMITED", "error.rate_limited")
		} else {
			handler(rec, r)
		}

		elapsed := time.Since(start)
		s.metrics.recordRequest(name, rec.status, elapsed)
		s.logger.Debug("Handled request",
			zap.String("route", name),
			zap.String("request_id", requestID),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Service: serviceName})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	localizer := s.localizerFor(r)
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable,
			statusResponse{Status: localizer.T("status.not_ready"), Service: serviceName})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: localizer.T("status.ready"), Service: serviceName})
}

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
    </style>
</head>
<body>
    <h1 class="header">{{.Title}}</h1>
    <p>{{.Description}}</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><a href="/api/v1/providers">/api/v1/providers</a> - Supported providers</div>
    <div class="endpoint">/api/v1/validate?url=... - Check a link</div>
    <div class="endpoint">GET /api/v1/embed/{provider}?url=...&amp;start=...&amp;width=...&amp;height=... - Resolve with defaults</div>
    <div class="endpoint">POST /api/v1/embed/{provider} - Build from explicit options</div>
    <div class="endpoint">POST /api/v1/scan - Find links in pasted text</div>
    <div class="endpoint"><a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint"><a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint"><a href="/readyz">Ready</a> - Readiness check</div>

    <h2>Providers</h2>
    <ul>{{range .Providers}}<li>{{.}}</li>{{end}}</ul>
</body>
</html>`))

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	localizer := s.localizerFor(r)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	if err := homeTemplate.Execute(w, map[string]any{
		"Language":    localizer.Language(),
		"Title":       localizer.T("index.title"),
		"Description": localizer.T("index.description"),
		"Providers":   s.service.Providers(),
	}); err != nil {
		s.logger.Debug("Failed to write home page", zap.Error(err))
	}
}

// localizerFor honours a supported ?lang= override, otherwise uses the configured language.
func (s *Server) localizerFor(r *http.Request) *i18n.Localizer {
	if lang := r.URL.Query().Get("lang"); lang != "" && i18n.IsSupported(lang) && lang != s.localizer.Language() {
		return i18n.NewLocalizer(lang)
	}
	return s.localizer
}
