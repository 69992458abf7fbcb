// Package monitoring - types.go defines shared types.
//
// DESIGN: These types are used by both gateway/ and monitoring/ packages.
// Defined here ONCE to avoid duplication and circular imports.
//
// TYPES:
//   - RequestEvent:  Telemetry data for each operation request
//   - InitEvent:     Startup configuration snapshot
//   - Config types:  TelemetryConfig, LoggerConfig
package monitoring

import "time"

// =============================================================================
// EVENT TYPES - Structured data for telemetry recording
// =============================================================================

// RequestEvent captures one request through the gateway.
type RequestEvent struct {
	RequestID   string    `json:"request_id"`
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	ClientIP    string    `json:"client_ip"`
	ClientID    string    `json:"client_id,omitempty"` // masked credential
	Operation   string    `json:"operation,omitempty"`
	Quality     string    `json:"quality,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model,omitempty"`
	Temperature float64   `json:"temperature"`
	StatusCode  int       `json:"status_code"`
	Success     bool      `json:"success"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Error       string    `json:"error,omitempty"`

	// Softened is true when the prompt that produced the result was softened,
	// either up front (safe prompts) or on the content-filter retry.
	Softened      bool `json:"softened"`
	Retried       bool `json:"retried"`
	UpstreamCalls int  `json:"upstream_calls"`

	EstimatedPromptTokens int     `json:"estimated_prompt_tokens,omitempty"`
	PromptTokens          int64   `json:"prompt_tokens,omitempty"`
	CompletionTokens      int64   `json:"completion_tokens,omitempty"`
	TotalTokens           int64   `json:"total_tokens,omitempty"`
	CostUSD               float64 `json:"cost_usd,omitempty"`

	UpstreamLatencyMs int64 `json:"upstream_latency_ms"`
	TotalLatencyMs    int64 `json:"total_latency_ms"`
}

// InitEvent captures gateway startup configuration.
type InitEvent struct {
	Timestamp            time.Time      `json:"timestamp"`
	Event                string         `json:"event"`
	ServerPort           int            `json:"server_port"`
	ServerReadTimeoutMs  int64          `json:"server_read_timeout_ms"`
	ServerWriteTimeoutMs int64          `json:"server_write_timeout_ms"`
	GatewayKeysCount     int            `json:"gateway_keys_count"`
	SafePrompts          bool           `json:"safe_prompts"`
	DebugUpstreamErrors  bool           `json:"debug_upstream_errors"`
	Upstream             InitUpstream   `json:"upstream"`
	CostControlEnabled   bool           `json:"cost_control_enabled"`
	TokenEstimation      bool           `json:"token_estimation"`
	TelemetryPath        string         `json:"telemetry_path,omitempty"`
	Operations           []string       `json:"operations"`
	Extra                map[string]any `json:"extra,omitempty"`
}

// InitUpstream summarizes the upstream config without leaking secrets.
type InitUpstream struct {
	Endpoint      string   `json:"endpoint,omitempty"`
	Deployment    string   `json:"deployment,omitempty"`
	APIVersion    string   `json:"api_version"`
	HasAPIKey     bool     `json:"has_api_key"`
	Configured    bool     `json:"configured"`
	TimeoutMs     int64    `json:"timeout_ms"`
	TopP          float64  `json:"top_p"`
	ExtraBodyKeys []string `json:"extra_body_keys,omitempty"`
}

// =============================================================================
// CONFIG TYPES
// =============================================================================

// TelemetryConfig contains telemetry configuration.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	LogPath     string `yaml:"log_path"`
	LogToStdout bool   `yaml:"log_to_stdout"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stdout, stderr, or file path
}
