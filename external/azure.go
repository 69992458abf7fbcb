// Package external calls the upstream language model.
//
// DESIGN: One Azure OpenAI chat completions deployment serves every operation.
// The client is stateless apart from its *http.Client and is safe for
// concurrent use. Failures come back as *CallError so callers can classify
// them (config missing, transport, upstream rejection, content filter)
// without string matching at the call site.
//
// FILES:
//   - azure.go:     Client and Complete()
//   - classify.go:  CallError and failure classification
//   - tokens.go:    Prompt token estimation
//   - llm_types.go: Wire types
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/utils"
)

// =============================================================================
// Client
// =============================================================================

// Client calls one Azure OpenAI deployment.
type Client struct {
	cfg        config.UpstreamConfig
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient.Timeout = timeout
	}
}

// NewClient creates an upstream client. Ambient proxy settings are ignored:
// the upstream is always dialed directly.
func NewClient(cfg config.UpstreamConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultUpstreamTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = (&net.Dialer{
		Timeout:   config.DefaultDialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configured reports whether endpoint, deployment and key are present.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// Deployment returns the configured deployment name.
func (c *Client) Deployment() string {
	return c.cfg.Deployment
}

// =============================================================================
// Completion
// =============================================================================

// Complete sends prompt as a single user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, temperature, topP float64, maxTokens int) (*Completion, error) {
	if !c.Configured() {
		return nil, &CallError{Reason: ReasonConfigMissing}
	}

	body, err := c.buildBody(prompt, temperature, topP, maxTokens)
	if err != nil {
		return nil, &CallError{Reason: ReasonTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Reason: ReasonTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CallError{Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseSize))
	if err != nil {
		return nil, &CallError{Reason: ReasonTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().
			Int("status", resp.StatusCode).
			Str("body", utils.TruncateForLog(string(respBody), config.MaxErrorBodyLogLen)).
			Dur("latency", time.Since(start)).
			Msg("upstream rejected completion")
		return nil, &CallError{Reason: ReasonRejected, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if !gjson.ValidBytes(respBody) {
		return nil, &CallError{Reason: ReasonTransport, Err: fmt.Errorf("invalid JSON in upstream response")}
	}

	completion := parseCompletion(respBody, c.cfg.Deployment)
	log.Debug().
		Str("model", completion.Model).
		Int64("total_tokens", completion.Usage.Total).
		Dur("latency", time.Since(start)).
		Msg("upstream completion")
	return completion, nil
}

func (c *Client) completionsURL() string {
	path := fmt.Sprintf("/openai/deployments/%s/chat/completions", url.PathEscape(c.cfg.Deployment))
	return utils.JoinEndpointURL(c.cfg.Endpoint, path) + "?api-version=" + url.QueryEscape(c.cfg.APIVersion)
}

func (c *Client) buildBody(prompt string, temperature, topP float64, maxTokens int) ([]byte, error) {
	body, err := json.Marshal(ChatRequest{
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	// Extra parameters never override the per-call sampling fields.
	for key, value := range c.cfg.ExtraBody {
		switch key {
		case "messages", "temperature", "top_p", "max_tokens":
			continue
		}
		body, err = sjson.SetBytes(body, key, value)
		if err != nil {
			return nil, fmt.Errorf("extra_body %q: %w", key, err)
		}
	}
	return body, nil
}

func parseCompletion(body []byte, deployment string) *Completion {
	parsed := gjson.ParseBytes(body)

	model := parsed.Get("model").String()
	if model == "" {
		model = deployment
	}

	return &Completion{
		Text:  parsed.Get("choices.0.message.content").String(),
		Model: model,
		Usage: Usage{
			Prompt:     parsed.Get("usage.prompt_tokens").Int(),
			Completion: parsed.Get("usage.completion_tokens").Int(),
			Total:      parsed.Get("usage.total_tokens").Int(),
		},
		Raw: body,
	}
}
