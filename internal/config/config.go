// Package config loads the gateway configuration.
//
// DESIGN: Configuration is resolved once at startup into an immutable Config:
//  1. YAML file (optional) with ${VAR:-default} expansion in string values
//  2. Environment overlay (non-empty env values win)
//  3. Defaults for anything still unset
//
// Missing upstream coordinates are not a load error. The gateway still boots,
// /health still answers, and each call reports ConfigMissing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full gateway configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	CostControl CostControlConfig `yaml:"cost_control"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GatewayConfig controls client-facing behavior.
type GatewayConfig struct {
	// APIKeys is the accepted bearer credential set.
	APIKeys []string `yaml:"api_keys"`

	// SafePrompts softens every prompt before the first upstream call.
	SafePrompts bool `yaml:"safe_prompts"`

	// DebugUpstreamErrors adds raw failure text to 502/503 bodies.
	DebugUpstreamErrors bool `yaml:"debug_upstream_errors"`
}

// UpstreamConfig holds the Azure OpenAI coordinates.
type UpstreamConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	Deployment string        `yaml:"deployment"`
	APIVersion string        `yaml:"api_version"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	TopP       float64       `yaml:"top_p"`

	// ExtraBody is merged into every chat completion request body
	// (e.g. {"seed": 7} or {"response_format": {"type": "json_object"}}).
	ExtraBody map[string]any `yaml:"extra_body"`
}

// Configured reports whether endpoint, deployment and key are all present.
func (u UpstreamConfig) Configured() bool {
	return u.Endpoint != "" && u.Deployment != "" && u.APIKey != ""
}

// MonitoringConfig controls logging and telemetry.
type MonitoringConfig struct {
	LogLevel         string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat        string `yaml:"log_format"` // json, console
	LogOutput        string `yaml:"log_output"` // stdout, stderr, or file path
	TelemetryEnabled bool   `yaml:"telemetry_enabled"`
	TelemetryPath    string `yaml:"telemetry_path"`
	LogToStdout      bool   `yaml:"log_to_stdout"`

	// TokenEstimation enables tiktoken prompt estimates (loads BPE ranks on first use).
	TokenEstimation bool `yaml:"token_estimation"`
}

// Load reads an optional YAML file and overlays the process environment.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		data = b
	}
	return LoadFromBytes(data, os.Getenv)
}

// LoadFromBytes builds a Config from YAML bytes and an env lookup.
func LoadFromBytes(data []byte, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.expandEnv(getenv)
	cfg.applyEnv(getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandEnv resolves ${VAR} references left in YAML string values.
func (c *Config) expandEnv(getenv func(string) string) {
	c.Upstream.Endpoint = resolveEnvVar(c.Upstream.Endpoint, getenv)
	c.Upstream.Deployment = resolveEnvVar(c.Upstream.Deployment, getenv)
	c.Upstream.APIVersion = resolveEnvVar(c.Upstream.APIVersion, getenv)
	c.Upstream.APIKey = resolveEnvVar(c.Upstream.APIKey, getenv)
	c.Monitoring.TelemetryPath = resolveEnvVar(c.Monitoring.TelemetryPath, getenv)

	var keys []string
	for _, k := range c.Gateway.APIKeys {
		keys = append(keys, splitKeys(resolveEnvVar(k, getenv))...)
	}
	c.Gateway.APIKeys = keys
}

// applyEnv overlays the deployment environment variables.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("AZURE_OPENAI_ENDPOINT")); v != "" {
		c.Upstream.Endpoint = v
	}
	if v := strings.TrimSpace(getenv("AZURE_DEPLOYMENT")); v != "" {
		c.Upstream.Deployment = v
	}
	if v := strings.TrimSpace(getenv("AZURE_API_VERSION")); v != "" {
		c.Upstream.APIVersion = v
	}
	if v := strings.TrimSpace(getenv("AZURE_OPENAI_API_KEY")); v != "" {
		c.Upstream.APIKey = v
	}
	if v := getenv("SAFE_PROMPTS"); v != "" {
		c.Gateway.SafePrompts = envBool(v)
	}
	if v := getenv("DEBUG_AZURE_ERRORS"); v != "" {
		c.Gateway.DebugUpstreamErrors = envBool(v)
	}
	c.Gateway.APIKeys = append(c.Gateway.APIKeys, splitKeys(getenv("GATEWAY_API_KEYS"))...)
	c.Gateway.APIKeys = append(c.Gateway.APIKeys, splitKeys(getenv("GATEWAY_API_KEY"))...)

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		c.Monitoring.LogLevel = v
	}
	if v := strings.TrimSpace(getenv("LOG_FORMAT")); v != "" {
		c.Monitoring.LogFormat = v
	}
	if v := strings.TrimSpace(getenv("TELEMETRY_PATH")); v != "" {
		c.Monitoring.TelemetryPath = v
		c.Monitoring.TelemetryEnabled = true
	}
}

func (c *Config) applyDefaults() {
	c.Upstream.Endpoint = strings.TrimRight(c.Upstream.Endpoint, "/")
	if c.Upstream.APIVersion == "" {
		c.Upstream.APIVersion = DefaultAPIVersion
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.TopP == 0 {
		c.Upstream.TopP = DefaultTopP
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if c.Monitoring.LogLevel == "" {
		c.Monitoring.LogLevel = "info"
	}
	if c.Monitoring.LogFormat == "" {
		c.Monitoring.LogFormat = "console"
	}
	if c.Monitoring.LogOutput == "" {
		c.Monitoring.LogOutput = "stdout"
	}
	c.Gateway.APIKeys = dedupe(c.Gateway.APIKeys)
}

// Validate checks value ranges. Upstream presence is checked per call.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.TopP <= 0 || c.Upstream.TopP > 1 {
		return fmt.Errorf("upstream.top_p must be in (0, 1], got %v", c.Upstream.TopP)
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < 2*c.Upstream.Timeout {
		return fmt.Errorf("server.write_timeout (%s) must be at least twice upstream.timeout (%s)",
			c.Server.WriteTimeout, c.Upstream.Timeout)
	}
	switch strings.ToLower(c.Monitoring.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("monitoring.log_level must be debug, info, warn or error, got %q", c.Monitoring.LogLevel)
	}
	if err := c.CostControl.Validate(); err != nil {
		return err
	}
	return nil
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
