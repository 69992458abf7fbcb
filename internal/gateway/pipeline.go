package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/external"
	"github.com/hlai/ai-hub-gateway/internal/auth"
	"github.com/hlai/ai-hub-gateway/internal/operations"
	"github.com/hlai/ai-hub-gateway/internal/prompts"
	"github.com/hlai/ai-hub-gateway/internal/response"
)

// Stage is a pipeline state. Terminal failures are reported as *Error with
// the stage left where the failure happened.
type Stage int

const (
	StageAuthorizing Stage = iota
	StageBuildingPrompt
	StageCalling
	StageRetryingSoftened
	StageExtracting
	StageNormalizing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageAuthorizing:
		return "authorizing"
	case StageBuildingPrompt:
		return "building_prompt"
	case StageCalling:
		return "calling"
	case StageRetryingSoftened:
		return "retrying_softened"
	case StageExtracting:
		return "extracting"
	case StageNormalizing:
		return "normalizing"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Pipeline runs one operation request end to end:
//
//	Authorizing -> BuildingPrompt -> Calling -> (RetryingSoftened) -> Extracting -> Normalizing -> Done
//
// A content-filter rejection gets exactly one retry with a softened prompt,
// unless the first prompt was already softened. Nothing else is retried.
type Pipeline struct {
	gate        *auth.Gate
	factory     *prompts.Factory
	upstream    Completer
	estimator   external.Estimator
	topP        float64
	safePrompts bool
}

// PipelineOptions are the fixed inputs of a Pipeline.
type PipelineOptions struct {
	TopP        float64
	SafePrompts bool
}

// NewPipeline creates a pipeline. Every dependency is read-only after construction.
func NewPipeline(gate *auth.Gate, factory *prompts.Factory, upstream Completer, estimator external.Estimator, opts PipelineOptions) *Pipeline {
	if estimator == nil {
		estimator = external.RatioEstimator{}
	}
	return &Pipeline{
		gate:        gate,
		factory:     factory,
		upstream:    upstream,
		estimator:   estimator,
		topP:        opts.TopP,
		safePrompts: opts.SafePrompts,
	}
}

// Run executes req, recording progress in pc.
func (p *Pipeline) Run(ctx context.Context, pc *PipelineContext, req Request) (*Result, error) {
	// Authorizing
	pc.Stage = StageAuthorizing
	switch p.gate.Authorize(req.Authorization) {
	case auth.NotConfigured:
		return nil, &Error{Kind: KindNotConfigured, Message: msgNotConfigured}
	case auth.Unauthorized:
		return nil, &Error{Kind: KindUnauthenticated, Message: msgUnauthorized}
	}
	pc.ClientID = auth.ClientID(req.Authorization)

	// BuildingPrompt
	pc.Stage = StageBuildingPrompt
	prompt, profile, err := p.build(pc, req)
	if err != nil {
		return nil, err
	}

	pc.Temperature = profile.Temperature(req.Quality)
	if qg, ok := prompt.Request.(*prompts.QuestionGenerationRequest); ok && qg.IsRegeneration {
		pc.Temperature = operations.RegenerationTemperature
	}
	pc.EstimatedPromptTokens = p.estimator.Estimate(prompt.Text)

	// Calling
	pc.Stage = StageCalling
	text := prompt.Text
	if p.safePrompts {
		text = prompts.SoftenFor(text, profile.Shape)
		pc.Softened = true
	}
	completion, err := p.call(ctx, pc, profile, text)

	if err != nil && !p.safePrompts && external.Classify(err) == external.FailureContentFiltered {
		pc.Stage = StageRetryingSoftened
		pc.Retried = true
		pc.Softened = true
		completion, err = p.call(ctx, pc, profile, prompts.SoftenFor(prompt.Text, profile.Shape))
	}
	if err != nil {
		if external.Classify(err) == external.FailureConfigMissing {
			return nil, &Error{Kind: KindConfigMissing, Message: profile.Unavailable, Cause: err}
		}
		return nil, &Error{Kind: KindUpstreamUnavailable, Message: profile.Unavailable, Cause: err}
	}
	pc.Model = completion.Model
	pc.Usage = completion.Usage

	// Extracting
	pc.Stage = StageExtracting
	var content any
	if profile.Shape == operations.ShapeText {
		content = response.PlainText(completion.Text)
	} else {
		parsed, err := response.Extract(completion.Text)
		if err == nil && !response.Conforms(profile, parsed) {
			err = fmt.Errorf("%w: unexpected %s", response.ErrUnparseable, describe(parsed))
		}
		if err != nil {
			return nil, &Error{Kind: KindParseFailed, Message: msgParseFailed, Cause: err}
		}

		// Normalizing
		pc.Stage = StageNormalizing
		content = response.Normalize(pc.Kind, parsed, hintsFor(prompt.Request, completion.Usage))
	}

	pc.Stage = StageDone
	return &Result{Provider: profile.Provider, Content: content, Usage: completion.Usage}, nil
}

func (p *Pipeline) build(pc *PipelineContext, req Request) (*prompts.Prompt, operations.Profile, error) {
	op := strings.TrimSpace(req.Operation)
	pc.Operation = op
	if op == "" || !payloadShapeOK(req.Payload) {
		return nil, operations.Profile{}, &Error{Kind: KindBadRequest, Message: msgInvalidPayload}
	}

	kind, ok := operations.ParseKind(op)
	if !ok || (req.GradingOnly && !kind.IsGrading()) {
		return nil, operations.Profile{}, &Error{Kind: KindBadRequest, Message: msgUnsupported}
	}
	profile := operations.Lookup(kind)
	pc.Kind = kind
	pc.Quality = strings.ToLower(strings.TrimSpace(req.Quality))
	if pc.Quality == "" {
		pc.Quality = string(profile.DefaultQuality)
	}

	prompt, err := p.factory.Build(op, req.Payload)
	if err != nil {
		var fe *prompts.FieldError
		switch {
		case errors.As(err, &fe):
			return nil, profile, &Error{Kind: KindBadRequest, Message: fe.Message, Cause: err}
		case errors.Is(err, prompts.ErrUnsupportedOperation):
			return nil, profile, &Error{Kind: KindBadRequest, Message: msgUnsupported, Cause: err}
		default:
			return nil, profile, &Error{Kind: KindBadRequest, Message: msgInvalidPayload, Cause: err}
		}
	}
	return prompt, profile, nil
}

func (p *Pipeline) call(ctx context.Context, pc *PipelineContext, profile operations.Profile, text string) (*external.Completion, error) {
	pc.UpstreamCalls++
	start := time.Now()
	completion, err := p.upstream.Complete(ctx, text, pc.Temperature, p.topP, profile.MaxTokens)
	pc.UpstreamLatency += time.Since(start)

	if err != nil {
		log.Warn().
			Str("request_id", pc.RequestID).
			Str("operation", pc.Operation).
			Int("attempt", pc.UpstreamCalls).
			Bool("softened", pc.Softened).
			Str("failure", external.Classify(err).String()).
			Msg("upstream call failed")
	}
	return completion, err
}

// payloadShapeOK accepts an object, or nothing at all.
func payloadShapeOK(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null || v.IsObject()
}

func hintsFor(req prompts.Request, usage external.Usage) response.Hints {
	switch r := req.(type) {
	case *prompts.QuestionGenerationRequest:
		return response.Hints{QuestionTypes: r.QuestionTypes, NumQuestions: r.NumQuestions, Tokens: usage}
	case *prompts.RefinementRequest:
		return response.Hints{QuestionType: r.QuestionType, Difficulty: r.Difficulty}
	}
	return response.Hints{}
}

func describe(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	}
	return v.Type.String()
}
