// Package prompts builds upstream prompt text for every gateway operation.
//
// DESIGN: Build is the single entry point:
//  1. ParseKind rejects names outside the closed operation set (ErrUnsupportedOperation)
//  2. Decode turns the permissive wire payload into a typed Request (FieldError on missing required fields)
//  3. render picks the builder for the Request type
//
// Builders are pure functions of the Request. The only nondeterminism is the
// difficulty/Bloom's draw in question generation, which goes through Rand.
//
// FILES:
//   - payload.go:      typed requests and wire decoding
//   - grading.go:      rubric, semantic similarity, quiz summary, answer key
//   - quizgen.go:      topic extraction, question generation, refinement, distractors
//   - distribution.go: weighted label selection
//   - soften.go:       content-filter softening
package prompts

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/internal/operations"
)

// ErrUnsupportedOperation is returned for operation names outside the closed set.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ErrInvalidPayload is returned when the payload is present but not an object.
var ErrInvalidPayload = errors.New("invalid request payload")

// FieldError reports a missing required field. Message is client-facing.
type FieldError struct {
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func missing(msg string) error { return &FieldError{Message: msg} }

// Prompt is a built prompt and the request it was built from.
type Prompt struct {
	Request Request
	Text    string
}

// Factory builds prompts. Safe for concurrent use if its Rand is.
type Factory struct {
	rng Rand
}

// NewFactory creates a Factory. A nil rng uses the process-wide source.
func NewFactory(rng Rand) *Factory {
	if rng == nil {
		rng = globalRand{}
	}
	return &Factory{rng: rng}
}

// Build decodes payload for the named operation and renders its prompt.
func (f *Factory) Build(operation string, payload gjson.Result) (*Prompt, error) {
	kind, ok := operations.ParseKind(operation)
	if !ok {
		return nil, ErrUnsupportedOperation
	}
	req, err := Decode(kind, payload)
	if err != nil {
		return nil, err
	}
	return &Prompt{Request: req, Text: f.Render(req)}, nil
}

// Render produces the prompt text for an already decoded request.
func (f *Factory) Render(req Request) string {
	switch r := req.(type) {
	case *RubricRequest:
		return buildRubricPrompt(r)
	case *SemanticRequest:
		return buildSemanticSimilarityPrompt(r)
	case *QuizSummaryRequest:
		return buildQuizSummaryPrompt(r)
	case *GenerateKeyRequest:
		return buildGenerateKeyPrompt(r)
	case *TopicAnalysisRequest:
		return buildTopicExtractionPrompt(r)
	case *QuestionGenerationRequest:
		return buildQuestionGenerationPrompt(r, f.rng)
	case *RefinementRequest:
		return buildQuestionRefinementPrompt(r)
	case *DistractorRequest:
		return buildDistractorPrompt(r)
	}
	panic(fmt.Sprintf("prompts: no builder for %T", req))
}
