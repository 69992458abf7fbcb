// Package config - defaults.go centralizes magic numbers and default values.
//
// DESIGN: All default values that appear in multiple places should be defined here.
// This makes configuration more maintainable and auditable.
package config

import "time"

// =============================================================================
// TOKEN ESTIMATION
// =============================================================================

// TokenEstimateRatio is the approximate number of characters per token.
// Used for rough token counting when exact counts aren't available.
const TokenEstimateRatio = 4

// DefaultTokenEncoding is the tiktoken encoding used for prompt estimates.
const DefaultTokenEncoding = "cl100k_base"

// =============================================================================
// UPSTREAM DEFAULTS
// =============================================================================

// DefaultAPIVersion is the Azure OpenAI api-version query parameter.
const DefaultAPIVersion = "2024-02-15-preview"

// DefaultUpstreamTimeout bounds a single completion call.
const DefaultUpstreamTimeout = 60 * time.Second

// DefaultTopP is the nucleus sampling value sent with every completion.
const DefaultTopP = 0.9

// MaxResponseSize is the maximum allowed upstream response body (50MB).
const MaxResponseSize = 50 * 1024 * 1024

// MaxErrorBodyLogLen limits error response body in logs to prevent bloat.
const MaxErrorBodyLogLen = 500

// =============================================================================
// PROMPT CONTENT CEILINGS
// =============================================================================

// MaxTopicAnalysisChars caps course content embedded into topic extraction prompts.
const MaxTopicAnalysisChars = 150000

// MaxTopicContentChars caps topic content embedded into question generation prompts.
const MaxTopicContentChars = 5000

// MaxOldQuestionChars caps the replaced question quoted in regeneration prompts.
const MaxOldQuestionChars = 500

// MaxExistingQuestions is how many prior questions are listed for deduplication.
const MaxExistingQuestions = 10

// =============================================================================
// HTTP AND NETWORKING
// =============================================================================

// DefaultPort is the listen port when neither config nor PORT set one.
const DefaultPort = 8000

// DefaultDialTimeout is the TCP dial timeout.
const DefaultDialTimeout = 30 * time.Second

// MaxRequestBodySize is the maximum allowed request body (10MB).
const MaxRequestBodySize = 10 * 1024 * 1024

// DefaultServerReadTimeout for HTTP server.
const DefaultServerReadTimeout = 30 * time.Second

// DefaultServerWriteTimeout for HTTP server. Must fit a call plus one softened retry.
const DefaultServerWriteTimeout = 3 * time.Minute

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second
