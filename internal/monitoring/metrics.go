// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for operational metrics:
//   - requests/successes: Total and successful operation requests
//   - failures:           Split by kind (auth, payload, upstream, parse)
//   - retries:            Content-filter retries with a softened prompt
//   - tokens:             Upstream-reported and locally estimated usage
//   - operations:         Per-operation request counts
package monitoring

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector collects operational metrics.
type MetricsCollector struct {
	startedAt time.Time

	// Request counters
	requests         atomic.Int64
	successes        atomic.Int64
	authFailures     atomic.Int64
	badRequests      atomic.Int64
	upstreamFailures atomic.Int64
	parseFailures    atomic.Int64
	configMissing    atomic.Int64

	// Softening counters
	softenedRetries atomic.Int64
	softenedPrompts atomic.Int64

	// Token counters
	promptTokens          atomic.Int64 // upstream-reported
	completionTokens      atomic.Int64 // upstream-reported
	estimatedPromptTokens atomic.Int64 // local estimate before the call

	opsMu      sync.Mutex
	operations map[string]int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startedAt:  time.Now(),
		operations: make(map[string]int64),
	}
}

// RecordRequest records a finished operation request.
func (mc *MetricsCollector) RecordRequest(operation string, success bool) {
	mc.requests.Add(1)
	if success {
		mc.successes.Add(1)
	}
	if operation == "" {
		return
	}
	mc.opsMu.Lock()
	mc.operations[operation]++
	mc.opsMu.Unlock()
}

// RecordFailure records a failed request by error kind.
func (mc *MetricsCollector) RecordFailure(kind string) {
	switch kind {
	case "unauthorized", "not_configured":
		mc.authFailures.Add(1)
	case "bad_request":
		mc.badRequests.Add(1)
	case "upstream_failure":
		mc.upstreamFailures.Add(1)
	case "parse_failure":
		mc.parseFailures.Add(1)
	case "config_missing":
		mc.configMissing.Add(1)
	}
}

// RecordSoftened records a softened prompt; retry is true for content-filter retries.
func (mc *MetricsCollector) RecordSoftened(retry bool) {
	mc.softenedPrompts.Add(1)
	if retry {
		mc.softenedRetries.Add(1)
	}
}

// RecordAPIUsage records token usage reported by the upstream.
func (mc *MetricsCollector) RecordAPIUsage(promptTokens, completionTokens int64) {
	mc.promptTokens.Add(promptTokens)
	mc.completionTokens.Add(completionTokens)
}

// RecordEstimate records a local prompt-token estimate.
func (mc *MetricsCollector) RecordEstimate(tokens int) {
	mc.estimatedPromptTokens.Add(int64(tokens))
}

// StartedAt returns when the metrics collector was created.
func (mc *MetricsCollector) StartedAt() time.Time { return mc.startedAt }

// FullStats returns all metrics in a structured format for the /stats endpoint.
func (mc *MetricsCollector) FullStats() StatsResponse {
	uptime := time.Since(mc.startedAt)
	requests := mc.requests.Load()
	successes := mc.successes.Load()

	return StatsResponse{
		Uptime:        formatDuration(uptime),
		UptimeSeconds: int64(uptime.Seconds()),
		StartedAt:     mc.startedAt.Format(time.RFC3339),
		Requests: RequestStats{
			Total:      requests,
			Successful: successes,
			Failed:     requests - successes,
		},
		Failures: FailureStats{
			Auth:          mc.authFailures.Load(),
			BadRequest:    mc.badRequests.Load(),
			ConfigMissing: mc.configMissing.Load(),
			Upstream:      mc.upstreamFailures.Load(),
			Parse:         mc.parseFailures.Load(),
		},
		Softening: SofteningStats{
			Prompts: mc.softenedPrompts.Load(),
			Retries: mc.softenedRetries.Load(),
		},
		Tokens: TokenStats{
			Prompt:          mc.promptTokens.Load(),
			Completion:      mc.completionTokens.Load(),
			EstimatedPrompt: mc.estimatedPromptTokens.Load(),
		},
		Operations: mc.operationCounts(),
	}
}

func (mc *MetricsCollector) operationCounts() []OperationCount {
	mc.opsMu.Lock()
	defer mc.opsMu.Unlock()

	out := make([]OperationCount, 0, len(mc.operations))
	for name, n := range mc.operations {
		out = append(out, OperationCount{Operation: name, Requests: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// StatsResponse is the structured response for the /stats endpoint.
type StatsResponse struct {
	Uptime        string           `json:"uptime"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartedAt     string           `json:"started_at"`
	Requests      RequestStats     `json:"requests"`
	Failures      FailureStats     `json:"failures"`
	Softening     SofteningStats   `json:"softening"`
	Tokens        TokenStats       `json:"tokens"`
	Operations    []OperationCount `json:"operations"`
}

// RequestStats holds request count metrics.
type RequestStats struct {
	Total      int64 `json:"total"`
	Successful int64 `json:"successful"`
	Failed     int64 `json:"failed"`
}

// FailureStats splits failed requests by kind.
type FailureStats struct {
	Auth          int64 `json:"auth"`
	BadRequest    int64 `json:"bad_request"`
	ConfigMissing int64 `json:"config_missing"`
	Upstream      int64 `json:"upstream"`
	Parse         int64 `json:"parse"`
}

// SofteningStats holds prompt softening metrics.
type SofteningStats struct {
	Prompts int64 `json:"prompts"`
	Retries int64 `json:"retries"`
}

// TokenStats holds token usage metrics.
type TokenStats struct {
	Prompt          int64 `json:"prompt"`
	Completion      int64 `json:"completion"`
	EstimatedPrompt int64 `json:"estimated_prompt"`
}

// OperationCount is the request count for one operation.
type OperationCount struct {
	Operation string `json:"operation"`
	Requests  int64  `json:"requests"`
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
