// HTTP request handling for the grading gateway.
//
// DESIGN: Main request flow:
//   - handleGrade():     POST /grade, operation chosen by the body (grading kinds only)
//   - handleOperation(): POST /<operation>, one fixed operation per route
//   - serve():           run the pipeline, write the answer, record telemetry
//
// Request bodies that are missing or not a JSON object are treated as {}.
package gateway

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/internal/auth"
	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/monitoring"
	"github.com/hlai/ai-hub-gateway/internal/operations"
	"github.com/hlai/ai-hub-gateway/internal/utils"
)

// handleHealth returns gateway health status. No auth.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:             "ok",
		GatewayConfigured:  g.gate.Configured(),
		GatewayKeysCount:   g.gate.Count(),
		UpstreamConfigured: g.config.Upstream.Configured(),
	})
}

// handleGrade serves the four grading operations.
func (g *Gateway) handleGrade(w http.ResponseWriter, r *http.Request) {
	body := readBody(w, r)
	g.serve(w, r, Request{
		Operation:   body.Get("operation").String(),
		Quality:     body.Get("quality").String(),
		Payload:     body.Get("payload"),
		GradingOnly: true,
	})
}

// handleOperation serves a dedicated single-operation route.
func (g *Gateway) handleOperation(kind operations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := readBody(w, r)
		payload := body.Get("payload")
		// generate_key clients send fields at the top level.
		if kind == operations.GenerateKey && !payload.IsObject() {
			payload = body
		}
		g.serve(w, r, Request{
			Operation: string(kind),
			Quality:   body.Get("quality").String(),
			Payload:   payload,
		})
	}
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request, req Request) {
	pc := NewPipelineContext(r, getRequestID(r))
	req.Authorization = r.Header.Get(auth.HeaderAuthorization)

	result, err := g.pipeline.Run(r.Context(), pc, req)
	if err != nil {
		gerr := asError(err)
		g.writeError(w, gerr)
		g.recordRequest(pc, gerr.Kind.Status(), gerr)
		return
	}

	writeJSON(w, http.StatusOK, result)
	g.recordRequest(pc, http.StatusOK, nil)
}

// readBody returns the request body as a JSON object, or {} when it is
// absent, oversized or not an object.
func readBody(w http.ResponseWriter, r *http.Request) gjson.Result {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil || !gjson.ValidBytes(data) {
		return gjson.Parse("{}")
	}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return gjson.Parse("{}")
	}
	return v
}

// writeError writes a JSON error response. Debug mode adds the raw upstream
// failure text for upstream and configuration failures.
func (g *Gateway) writeError(w http.ResponseWriter, gerr *Error) {
	resp := ErrorResponse{Error: gerr.Message}
	if g.config.Gateway.DebugUpstreamErrors && gerr.Kind.exposesDetails() && gerr.Cause != nil {
		resp.Details = gerr.Cause.Error()
	}
	writeJSON(w, gerr.Kind.Status(), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := utils.MarshalNoEscape(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		status = http.StatusInternalServerError
		data = []byte(`{"error":"` + msgInternal + `"}`)
	}
	w.Header().Set(auth.HeaderContentType, "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// getRequestID gets or generates a request ID.
func getRequestID(r *http.Request) string {
	if id := requestIDFromContext(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(HeaderRequestID); id != "" {
		return id
	}
	return uuid.New().String()
}

// =============================================================================
// TELEMETRY
// =============================================================================

func (g *Gateway) recordRequest(pc *PipelineContext, status int, gerr *Error) {
	success := gerr == nil
	g.metrics.RecordRequest(string(pc.Kind), success)
	if gerr != nil {
		g.metrics.RecordFailure(gerr.Kind.String())
	}
	if pc.Softened {
		g.metrics.RecordSoftened(pc.Retried)
	}
	if pc.EstimatedPromptTokens > 0 {
		g.metrics.RecordEstimate(pc.EstimatedPromptTokens)
	}
	g.metrics.RecordAPIUsage(pc.Usage.Prompt, pc.Usage.Completion)

	var cost float64
	if success && pc.Usage.Total > 0 {
		cost = g.costTracker.RecordUsage(pc.ClientID, pc.Model, int(pc.Usage.Prompt), int(pc.Usage.Completion))
	}

	event := &monitoring.RequestEvent{
		RequestID:             pc.RequestID,
		Timestamp:             pc.ReceivedAt,
		Method:                pc.Method,
		Path:                  pc.Path,
		ClientIP:              pc.ClientIP,
		ClientID:              pc.ClientID,
		Operation:             pc.Operation,
		Quality:               pc.Quality,
		Model:                 pc.Model,
		Temperature:           pc.Temperature,
		StatusCode:            status,
		Success:               success,
		Softened:              pc.Softened,
		Retried:               pc.Retried,
		UpstreamCalls:         pc.UpstreamCalls,
		EstimatedPromptTokens: pc.EstimatedPromptTokens,
		PromptTokens:          pc.Usage.Prompt,
		CompletionTokens:      pc.Usage.Completion,
		TotalTokens:           pc.Usage.Total,
		CostUSD:               cost,
		UpstreamLatencyMs:     pc.UpstreamLatency.Milliseconds(),
		TotalLatencyMs:        time.Since(pc.ReceivedAt).Milliseconds(),
	}
	if pc.Kind != "" {
		event.Provider = operations.Lookup(pc.Kind).Provider
	}
	if gerr != nil {
		event.ErrorKind = gerr.Kind.String()
		if gerr.Cause != nil {
			event.Error = utils.TruncateForLog(gerr.Cause.Error(), config.MaxErrorBodyLogLen)
		}
	}
	g.tracker.RecordRequest(event)

	logEvent := log.Info()
	if gerr != nil && status >= http.StatusInternalServerError {
		logEvent = log.Warn()
	}
	logEvent.
		Str("request_id", pc.RequestID).
		Str("operation", pc.Operation).
		Str("stage", pc.Stage.String()).
		Int("status", status).
		Int64("latency_ms", event.TotalLatencyMs).
		Bool("softened", pc.Softened).
		Bool("retried", pc.Retried).
		Int64("total_tokens", pc.Usage.Total).
		Str("error_kind", event.ErrorKind).
		Msg("request")
}
