// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"transfer-cost/api/envelope"
	"transfer-cost/core/cost"
	"transfer-cost/internal/config"
)

// Preflight header values sent to the calculator widget
const (
	preflightAllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	preflightAllowMethods = "GET,POST,OPTIONS"
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Version  string
	Server   config.ServerConfig
	Currency string

	Logger *zap.Logger
	Engine *cost.Engine
	Audit  envelope.AuditLogger

	// Registry receives the metrics and backs GET /metrics.
	// Nil uses the Prometheus default registry.
	Registry *prometheus.Registry
}

// Server is the API server
type Server struct {
	handler *Handler
	router  chi.Router
	version string
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Engine == nil {
		opts.Engine = cost.NewEngine()
	}
	if opts.Audit == nil {
		opts.Audit = &envelope.ZapAuditLogger{Logger: opts.Logger.Named("audit")}
	}
	if opts.Currency == "" {
		opts.Currency = config.Default().Output.Currency
	}
	if len(opts.Server.CORSAllowedOrigins) == 0 {
		opts.Server.CORSAllowedOrigins = []string{"*"}
	}
	if opts.Server.MetricsNamespace == "" {
		opts.Server.MetricsNamespace = config.Default().Server.MetricsNamespace
	}

	var metrics *Metrics
	if opts.Server.MetricsEnabled {
		var reg prometheus.Registerer
		if opts.Registry != nil {
			reg = opts.Registry
		}
		metrics = NewMetrics(opts.Server.MetricsNamespace, reg)
	}

	s := &Server{
		handler: NewHandler(opts.Engine, opts.Audit, metrics, opts.Logger, opts.Currency),
		router:  chi.NewRouter(),
		version: opts.Version,
		logger:  opts.Logger,
	}

	s.registerRoutes(opts, metrics)
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes(opts Options, metrics *Metrics) {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key", "X-Amz-Security-Token"},
		ExposedHeaders:   []string{headerRateTable, headerInputHash, headerQuoteID, "Content-Disposition"},
		AllowCredentials: opts.Server.CORSAllowCredentials,
		MaxAge:           300,
	}))

	// Core endpoints
	r.Post("/calculate", s.handler.Calculate)
	r.Options("/calculate", s.handlePreflight)
	r.Post("/calculate/export", s.handler.Export)

	// Supporting endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/rate-tables", s.handler.RateTables)

	if metrics != nil {
		var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
		if opts.Registry != nil {
			gatherer = opts.Registry
		}
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}

// handlePreflight answers OPTIONS requests that carry no CORS preflight headers
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", preflightAllowHeaders)
	h.Set("Access-Control-Allow-Methods", preflightAllowMethods)
	w.WriteHeader(http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, VersionResponse{
		Version:    s.version,
		Engine:     "transfer-cost",
		APIVersion: "v1",
	}, http.StatusOK)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// writeJSON marshals data before writing the status, so an encoding
// failure still becomes a 500 with the generic payload.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, data interface{}, status int) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error("response encoding failed", zap.Error(err))
		body, status = internalErrorBody, http.StatusInternalServerError
	}
	writeBody(w, body, status)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	// ErrorResponse holds only strings
	body, _ := json.Marshal(ErrorResponse{Error: message, Code: code})
	writeBody(w, body, status)
}

func writeBody(w http.ResponseWriter, body []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

var internalErrorBody, _ = json.Marshal(ErrorResponse{Error: MsgInternal, Code: CodeInternal})
