// Package gateway serves the grading and quiz-generation HTTP surface.
//
// DESIGN: One Gateway per process, built once from an immutable Config:
//   - auth.Gate:           bearer credential check (inside the pipeline)
//   - prompts.Factory:     operation payload -> prompt text
//   - Completer:           upstream chat completion (external.Client in production)
//   - Pipeline:            the per-request state machine
//   - metrics/tracker/costTracker: reporting only, never affect responses
//
// FILES:
//   - gateway.go:      construction, routing, server lifecycle
//   - pipeline.go:     request state machine
//   - handler.go:      HTTP handlers and response writing
//   - middleware.go:   request ID, panic recovery
//   - errors.go:       failure taxonomy -> status/message
//   - stats.go:        GET /stats (loopback only)
//   - request.go:      client address helpers
//   - init_logging.go: startup telemetry event
package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hlai/ai-hub-gateway/external"
	"github.com/hlai/ai-hub-gateway/internal/auth"
	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/costcontrol"
	"github.com/hlai/ai-hub-gateway/internal/monitoring"
	"github.com/hlai/ai-hub-gateway/internal/operations"
	"github.com/hlai/ai-hub-gateway/internal/prompts"
)

// Gateway is the HTTP server and its collaborators.
type Gateway struct {
	config      *config.Config
	gate        *auth.Gate
	pipeline    *Pipeline
	metrics     *monitoring.MetricsCollector
	tracker     *monitoring.Tracker
	costTracker *costcontrol.Tracker
	server      *http.Server

	upstream  Completer
	rng       prompts.Rand
	estimator external.Estimator
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCompleter replaces the upstream client.
func WithCompleter(c Completer) Option {
	return func(g *Gateway) {
		g.upstream = c
	}
}

// WithRand sets the random source for question-generation draws.
func WithRand(r prompts.Rand) Option {
	return func(g *Gateway) {
		g.rng = r
	}
}

// WithEstimator sets the prompt token estimator.
func WithEstimator(e external.Estimator) Option {
	return func(g *Gateway) {
		g.estimator = e
	}
}

// New creates a gateway from a validated config.
func New(cfg *config.Config, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		config:  cfg,
		metrics: monitoring.NewMetricsCollector(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.upstream == nil {
		g.upstream = external.NewClient(cfg.Upstream)
	}
	if g.estimator == nil {
		g.estimator = external.NewEstimator(cfg.Monitoring)
	}

	tracker, err := monitoring.NewTracker(monitoring.TelemetryConfig{
		Enabled:     cfg.Monitoring.TelemetryEnabled,
		LogPath:     cfg.Monitoring.TelemetryPath,
		LogToStdout: cfg.Monitoring.LogToStdout,
	})
	if err != nil {
		return nil, err
	}
	g.tracker = tracker
	g.costTracker = costcontrol.NewTracker(cfg.CostControl)

	g.gate = auth.SetupGate(cfg)
	g.pipeline = NewPipeline(g.gate, prompts.NewFactory(g.rng), g.upstream, g.estimator, PipelineOptions{
		TopP:        cfg.Upstream.TopP,
		SafePrompts: cfg.Gateway.SafePrompts,
	})

	if !cfg.Upstream.Configured() {
		log.Warn().Msg("upstream: Azure OpenAI endpoint, deployment or key missing, operations will return 503")
	}

	g.server = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           g.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.ReadTimeout,
	}

	g.tracker.RecordInit(buildInitEvent(cfg))
	return g, nil
}

// Handler returns the routed, middleware-wrapped HTTP handler.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", g.handleHealth)
	mux.HandleFunc("GET /stats", g.handleStats)
	mux.HandleFunc("POST /grade", g.handleGrade)
	for _, kind := range []operations.Kind{
		operations.GenerateKey,
		operations.AnalyzeTopics,
		operations.GenerateQuestions,
		operations.RefineQuestion,
		operations.GenerateDistractors,
	} {
		mux.HandleFunc("POST /"+string(kind), g.handleOperation(kind))
	}
	return g.withMiddleware(mux)
}

// Start listens and serves until Shutdown. A clean shutdown returns nil.
func (g *Gateway) Start() error {
	log.Info().
		Str("addr", g.server.Addr).
		Int("gateway_keys", g.gate.Count()).
		Bool("safe_prompts", g.config.Gateway.SafePrompts).
		Msg("gateway listening")
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts connections on l until Shutdown.
func (g *Gateway) Serve(l net.Listener) error {
	if err := g.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases background workers.
func (g *Gateway) Shutdown(ctx context.Context) error {
	err := g.server.Shutdown(ctx)
	g.costTracker.Close()
	_ = g.tracker.Close()
	return err
}

// Metrics exposes the collector for the process banner and tests.
func (g *Gateway) Metrics() *monitoring.MetricsCollector { return g.metrics }

// shutdownTimeout is how long in-flight requests get to finish.
func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Upstream.Timeout > config.DefaultShutdownTimeout {
		return cfg.Upstream.Timeout
	}
	return config.DefaultShutdownTimeout
}

// ShutdownTimeout is the drain budget for Shutdown.
func (g *Gateway) ShutdownTimeout() time.Duration { return shutdownTimeout(g.config) }
