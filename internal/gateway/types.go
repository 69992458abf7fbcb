// Package gateway types - types for the grading gateway.
//
// DESIGN: Types used by the gateway for:
//   - Pipeline processing context (per-request trace)
//   - Pipeline input and output
//
// Types are defined here to avoid circular imports and provide clear contracts.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/external"
	"github.com/hlai/ai-hub-gateway/internal/operations"
)

// HeaderRequestID carries a client-supplied or generated request ID.
const HeaderRequestID = "X-Request-ID"

// Completer is the upstream call the pipeline depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature, topP float64, maxTokens int) (*external.Completion, error)
}

// =============================================================================
// PIPELINE CONTEXT - Carries state through processing
// =============================================================================

// PipelineContext records what happened to one request. It is owned by the
// request goroutine and never shared.
type PipelineContext struct {
	RequestID  string
	Method     string
	Path       string
	ClientIP   string
	ReceivedAt time.Time

	Stage     Stage
	ClientID  string // masked credential
	Operation string // raw, as sent
	Kind      operations.Kind
	Quality   string

	Temperature           float64
	EstimatedPromptTokens int
	Softened              bool
	Retried               bool
	UpstreamCalls         int
	UpstreamLatency       time.Duration

	Model string
	Usage external.Usage
}

// NewPipelineContext creates a new pipeline context.
func NewPipelineContext(r *http.Request, requestID string) *PipelineContext {
	return &PipelineContext{
		RequestID:  requestID,
		Method:     r.Method,
		Path:       r.URL.Path,
		ClientIP:   clientIP(r),
		ReceivedAt: time.Now(),
	}
}

// =============================================================================
// PIPELINE INPUT / OUTPUT
// =============================================================================

// Request is one operation call as received on the wire.
type Request struct {
	Authorization string
	Operation     string
	Quality       string
	Payload       gjson.Result

	// GradingOnly restricts Operation to the grading kinds (/grade).
	GradingOnly bool
}

// Result is the 200 response body.
type Result struct {
	Provider string         `json:"provider"`
	Content  any            `json:"content"`
	Usage    external.Usage `json:"usage"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status             string `json:"status"`
	GatewayConfigured  bool   `json:"gateway_configured"`
	GatewayKeysCount   int    `json:"gateway_keys_count"`
	UpstreamConfigured bool   `json:"upstream_configured"`
}

// ErrorResponse is the body of every non-200 answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
