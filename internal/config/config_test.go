package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	cfg, err := LoadFromBytes(nil, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultAPIVersion, cfg.Upstream.APIVersion)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.Upstream.Timeout)
	assert.InDelta(t, DefaultTopP, cfg.Upstream.TopP, 1e-9)
	assert.Empty(t, cfg.Gateway.APIKeys)
	assert.False(t, cfg.Upstream.Configured())
	assert.Equal(t, "info", cfg.Monitoring.LogLevel)
}

func TestLoadFromBytes_EnvOverlay(t *testing.T) {
	cfg, err := LoadFromBytes(nil, envMap(map[string]string{
		"AZURE_OPENAI_ENDPOINT": "https://example.openai.azure.com/",
		"AZURE_DEPLOYMENT":      "grader",
		"AZURE_OPENAI_API_KEY":  "secret",
		"GATEWAY_API_KEYS":      " k1, k2 ,,k1",
		"GATEWAY_API_KEY":       "k3",
		"SAFE_PROMPTS":          "Yes",
		"DEBUG_AZURE_ERRORS":    "0",
		"PORT":                  "9100",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com", cfg.Upstream.Endpoint)
	assert.Equal(t, "grader", cfg.Upstream.Deployment)
	assert.True(t, cfg.Upstream.Configured())
	assert.Equal(t, []string{"k1", "k2", "k3"}, cfg.Gateway.APIKeys)
	assert.True(t, cfg.Gateway.SafePrompts)
	assert.False(t, cfg.Gateway.DebugUpstreamErrors)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, ":9100", cfg.ListenAddr())
}

func TestLoadFromBytes_YAML(t *testing.T) {
	yamlCfg := `
server:
  port: 8081
gateway:
  api_keys: ["${HUB_KEYS}", "static"]
  safe_prompts: true
upstream:
  endpoint: ${AZ_ENDPOINT:-https://fallback.example}
  deployment: gpt-4o
  api_key: ${AZ_KEY}
  timeout: 20s
  extra_body:
    seed: 7
cost_control:
  enabled: true
  pricing:
    gpt-4o:
      input_per_mtok: 1
      output_per_mtok: 2
`
	cfg, err := LoadFromBytes([]byte(yamlCfg), envMap(map[string]string{
		"HUB_KEYS": "a,b",
		"AZ_KEY":   "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"a", "b", "static"}, cfg.Gateway.APIKeys)
	assert.True(t, cfg.Gateway.SafePrompts)
	assert.Equal(t, "https://fallback.example", cfg.Upstream.Endpoint)
	assert.Equal(t, "secret", cfg.Upstream.APIKey)
	assert.Equal(t, 20*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 7, cfg.Upstream.ExtraBody["seed"])
	assert.True(t, cfg.CostControl.Enabled)
	assert.InDelta(t, 2.0, cfg.CostControl.Pricing["gpt-4o"].OutputPerMTok, 1e-9)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "server: ["},
		{"port range", "server:\n  port: 70000\n"},
		{"top_p range", "upstream:\n  top_p: 1.5\n"},
		{"log level", "monitoring:\n  log_level: verbose\n"},
		{"write timeout too short", "server:\n  write_timeout: 30s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml), envMap(nil))
			assert.Error(t, err)
		})
	}
}

func TestResolveEnvVar(t *testing.T) {
	getenv := envMap(map[string]string{"SET": "value"})

	assert.Equal(t, "plain", resolveEnvVar("plain", getenv))
	assert.Equal(t, "value", resolveEnvVar("${SET}", getenv))
	assert.Equal(t, "value", resolveEnvVar("${SET:-other}", getenv))
	assert.Equal(t, "other", resolveEnvVar("${UNSET:-other}", getenv))
	assert.Equal(t, "", resolveEnvVar("${UNSET}", getenv))
}

func TestEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes "} {
		assert.True(t, envBool(v), v)
	}
	for _, v := range []string{"", "0", "no", "on"} {
		assert.False(t, envBool(v), v)
	}
}
