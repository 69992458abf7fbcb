// Chat completion wire types for the Azure OpenAI deployment.
//
// These types are used by:
//   - azure.go: Client.Complete() request body and result
package external

// ChatMessage is one message in the chat completions format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat completions request body. ExtraBody parameters
// from configuration are patched in after marshaling.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

// Usage is the token accounting reported by the upstream.
// Absent counts are zero.
type Usage struct {
	Prompt     int64 `json:"prompt"`
	Completion int64 `json:"completion"`
	Total      int64 `json:"total"`
}

// Completion is a successful upstream call.
type Completion struct {
	Text  string // first choice message content, "" when absent
	Model string // upstream-reported model, falls back to the deployment
	Usage Usage
	Raw   []byte // full upstream body, kept for debugging
}
