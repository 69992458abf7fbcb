package gateway

import (
	"sort"
	"strings"
	"time"

	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/monitoring"
	"github.com/hlai/ai-hub-gateway/internal/operations"
)

func buildInitEvent(cfg *config.Config) *monitoring.InitEvent {
	ev := &monitoring.InitEvent{
		Timestamp:            time.Now(),
		Event:                "gateway_init",
		ServerPort:           cfg.Server.Port,
		ServerReadTimeoutMs:  cfg.Server.ReadTimeout.Milliseconds(),
		ServerWriteTimeoutMs: cfg.Server.WriteTimeout.Milliseconds(),
		GatewayKeysCount:     len(cfg.Gateway.APIKeys),
		SafePrompts:          cfg.Gateway.SafePrompts,
		DebugUpstreamErrors:  cfg.Gateway.DebugUpstreamErrors,
		CostControlEnabled:   cfg.CostControl.Enabled,
		TokenEstimation:      cfg.Monitoring.TokenEstimation,
		TelemetryPath:        cfg.Monitoring.TelemetryPath,
		Upstream: monitoring.InitUpstream{
			Endpoint:   cfg.Upstream.Endpoint,
			Deployment: cfg.Upstream.Deployment,
			APIVersion: cfg.Upstream.APIVersion,
			HasAPIKey:  strings.TrimSpace(cfg.Upstream.APIKey) != "",
			Configured: cfg.Upstream.Configured(),
			TimeoutMs:  cfg.Upstream.Timeout.Milliseconds(),
			TopP:       cfg.Upstream.TopP,
		},
	}

	for key := range cfg.Upstream.ExtraBody {
		ev.Upstream.ExtraBodyKeys = append(ev.Upstream.ExtraBodyKeys, key)
	}
	sort.Strings(ev.Upstream.ExtraBodyKeys)

	for _, k := range operations.All {
		ev.Operations = append(ev.Operations, string(k))
	}
	return ev
}
