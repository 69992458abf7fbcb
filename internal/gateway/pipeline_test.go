package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/external"
	"github.com/hlai/ai-hub-gateway/internal/auth"
	"github.com/hlai/ai-hub-gateway/internal/operations"
	"github.com/hlai/ai-hub-gateway/internal/prompts"
	"github.com/hlai/ai-hub-gateway/internal/response"
)

// fixedRand always draws the same value.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

// fakeCompleter replays scripted results in order.
type fakeCompleter struct {
	results []fakeResult
	prompts []string
	temps   []float64
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, temperature, _ float64, _ int) (*external.Completion, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.temps = append(f.temps, temperature)
	if i >= len(f.results) {
		return nil, errors.New("unexpected call")
	}
	r := f.results[i]
	if r.err != nil {
		return nil, r.err
	}
	return &external.Completion{
		Text:  r.text,
		Model: "gpt-4o",
		Usage: external.Usage{Prompt: 3, Completion: 2, Total: 5},
	}, nil
}

var errFiltered = &external.CallError{
	Reason:     external.ReasonRejected,
	StatusCode: http.StatusBadRequest,
	Body:       `{"error":{"code":"content_filter"}}`,
}

func newTestPipeline(c Completer, safe bool) *Pipeline {
	return NewPipeline(auth.NewGate([]string{"k1"}), prompts.NewFactory(fixedRand(0)), c, nil, PipelineOptions{TopP: 0.9, SafePrompts: safe})
}

func runPipeline(t *testing.T, p *Pipeline, req Request) (*PipelineContext, *Result, error) {
	t.Helper()
	pc := NewPipelineContext(httptest.NewRequest(http.MethodPost, "/grade", nil), "req-1")
	if req.Authorization == "" {
		req.Authorization = "Bearer k1"
	}
	res, err := p.Run(context.Background(), pc, req)
	return pc, res, err
}

func errorKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var gerr *Error
	require.True(t, errors.As(err, &gerr), "%v", err)
	return gerr.Kind
}

func TestPipeline_Success(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{text: `{"score":3}`}}}
	pc, res, err := runPipeline(t, newTestPipeline(c, false), Request{
		Operation: " grade_text ",
		Quality:   "FAST",
		Payload:   gjson.Parse(`{"question":"q"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, StageDone, pc.Stage)
	assert.Equal(t, "fast", pc.Quality)
	assert.Equal(t, 1, pc.UpstreamCalls)
	assert.False(t, pc.Softened)
	assert.Equal(t, "gpt-4o", pc.Model)
	assert.Positive(t, pc.EstimatedPromptTokens)
	assert.Equal(t, "hub:text", res.Provider)
	assert.Equal(t, int64(5), res.Usage.Total)
	assert.InDelta(t, 0.2, c.temps[0], 1e-9)
}

func TestPipeline_DefaultQuality(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{text: `{"topics":[]}`}}}
	pc, _, err := runPipeline(t, newTestPipeline(c, false), Request{
		Operation: "analyze_topics",
		Payload:   gjson.Parse(`{"content":"x"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "best", pc.Quality)
	assert.InDelta(t, 0.3, pc.Temperature, 1e-9)
}

func TestPipeline_AuthFailsBeforeAnything(t *testing.T) {
	c := &fakeCompleter{}
	p := newTestPipeline(c, false)

	pc, _, err := runPipeline(t, p, Request{Authorization: "Bearer nope", Operation: "grade_text"})
	assert.Equal(t, KindUnauthenticated, errorKind(t, err))
	assert.Equal(t, StageAuthorizing, pc.Stage)

	open := NewPipeline(auth.NewGate(nil), prompts.NewFactory(nil), c, nil, PipelineOptions{})
	_, _, err = runPipeline(t, open, Request{Operation: "grade_text"})
	assert.Equal(t, KindNotConfigured, errorKind(t, err))

	assert.Empty(t, c.prompts)
}

func TestPipeline_BadRequestOrdering(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		message string
	}{
		{"blank op", Request{Operation: "", Payload: gjson.Parse(`{}`)}, msgInvalidPayload},
		{"array payload beats unknown op", Request{Operation: "nope", Payload: gjson.Parse(`[]`)}, msgInvalidPayload},
		{"unknown op", Request{Operation: "nope"}, msgUnsupported},
		{"grading only", Request{Operation: "generate_key", GradingOnly: true}, msgUnsupported},
		{"field error", Request{Operation: "analyze_topics", Payload: gjson.Parse(`{}`)}, "Missing content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCompleter{}
			pc, _, err := runPipeline(t, newTestPipeline(c, false), tt.req)

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, KindBadRequest, gerr.Kind)
			assert.Equal(t, tt.message, gerr.Message)
			assert.Equal(t, StageBuildingPrompt, pc.Stage)
			assert.Empty(t, c.prompts)
		})
	}
}

func TestPipeline_SoftenedRetry(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{err: errFiltered}, {text: `{"overall_feedback":"ok"}`}}}
	pc, res, err := runPipeline(t, newTestPipeline(c, false), Request{Operation: "quiz_summary"})
	require.NoError(t, err)

	assert.Equal(t, StageDone, pc.Stage)
	assert.True(t, pc.Softened)
	assert.True(t, pc.Retried)
	assert.Equal(t, 2, pc.UpstreamCalls)
	require.Len(t, c.prompts, 2)
	assert.Equal(t, prompts.Soften(c.prompts[0]), c.prompts[1])
	assert.Equal(t, c.temps[0], c.temps[1])
	assert.Equal(t, "hub:summary", res.Provider)
}

func TestPipeline_SoftenedPromptKeepsOutputShape(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		output   string
		reminder string
		check    func(t *testing.T, res *Result)
	}{
		{
			name:     "generate_key",
			req:      Request{Operation: "generate_key", Payload: gjson.Parse(`{"question_text":"Discuss tides."}`)},
			output:   "- Tides follow the moon",
			reminder: prompts.SoftenedTextReminder,
			check: func(t *testing.T, res *Result) {
				assert.Equal(t, "- Tides follow the moon", res.Content)
			},
		},
		{
			name:     "generate_questions",
			req:      Request{Operation: "generate_questions", Payload: gjson.Parse(`{"topic_title":"Valves"}`)},
			output:   `[{"questiontext":"What does a gate valve do?"}]`,
			reminder: prompts.SoftenedArrayReminder,
			check: func(t *testing.T, res *Result) {
				require.IsType(t, response.QuestionsContent{}, res.Content)
				assert.Len(t, res.Content.(response.QuestionsContent).Questions, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/retry", func(t *testing.T) {
			c := &fakeCompleter{results: []fakeResult{{err: errFiltered}, {text: tt.output}}}
			pc, res, err := runPipeline(t, newTestPipeline(c, false), tt.req)
			require.NoError(t, err)

			assert.True(t, pc.Retried)
			require.Len(t, c.prompts, 2)
			assert.True(t, strings.HasSuffix(c.prompts[1], tt.reminder))
			assert.NotContains(t, c.prompts[1], prompts.SoftenedReminder)
			tt.check(t, res)
		})

		t.Run(tt.name+"/safe_prompts", func(t *testing.T) {
			c := &fakeCompleter{results: []fakeResult{{text: tt.output}}}
			pc, res, err := runPipeline(t, newTestPipeline(c, true), tt.req)
			require.NoError(t, err)

			assert.True(t, pc.Softened)
			require.Len(t, c.prompts, 1)
			assert.True(t, strings.HasSuffix(c.prompts[0], tt.reminder))
			assert.NotContains(t, c.prompts[0], prompts.SoftenedReminder)
			tt.check(t, res)
		})
	}
}

func TestPipeline_SoftenedRetryUsesProfileShape(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{err: errFiltered}, {text: `{"topics":[]}`}}}
	_, _, err := runPipeline(t, newTestPipeline(c, false), Request{
		Operation: "analyze_topics",
		Payload:   gjson.Parse(`{"content":"x"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, prompts.SoftenFor(c.prompts[0], operations.ShapeObject), c.prompts[1])
}

func TestPipeline_SoftenedRetryFailsOnce(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{err: errFiltered}, {err: errFiltered}, {text: `{}`}}}
	pc, _, err := runPipeline(t, newTestPipeline(c, false), Request{Operation: "generate_distractors",
		Payload: gjson.Parse(`{"question_text":"q","correct_answer":"a"}`)})

	assert.Equal(t, KindUpstreamUnavailable, errorKind(t, err))
	assert.Equal(t, StageRetryingSoftened, pc.Stage)
	assert.Equal(t, 2, pc.UpstreamCalls)
	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "AI distractor generation is temporarily unavailable", gerr.Message)
}

func TestPipeline_SafePromptsNoRetry(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{err: errFiltered}}}
	pc, _, err := runPipeline(t, newTestPipeline(c, true), Request{Operation: "grade_text"})

	assert.Equal(t, KindUpstreamUnavailable, errorKind(t, err))
	assert.Equal(t, StageCalling, pc.Stage)
	assert.True(t, pc.Softened)
	assert.False(t, pc.Retried)
	assert.Equal(t, 1, pc.UpstreamCalls)
}

func TestPipeline_ConfigMissing(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{err: &external.CallError{Reason: external.ReasonConfigMissing}}}}
	_, _, err := runPipeline(t, newTestPipeline(c, false), Request{Operation: "grade_rubric"})
	assert.Equal(t, KindConfigMissing, errorKind(t, err))
	assert.Len(t, c.prompts, 1)
}

func TestPipeline_ParseFailure(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{text: "no json here"}}}
	pc, _, err := runPipeline(t, newTestPipeline(c, false), Request{Operation: "semantic_similarity"})
	assert.Equal(t, KindParseFailed, errorKind(t, err))
	assert.Equal(t, StageExtracting, pc.Stage)
}

func TestPipeline_RegenerationTemperature(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{text: `[{"questiontext":"q"}]`}}}
	pc, _, err := runPipeline(t, newTestPipeline(c, false), Request{
		Operation: "generate_questions",
		Quality:   "fast",
		Payload:   gjson.Parse(`{"topic_title":"t","is_regeneration":true}`),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, pc.Temperature, 1e-9)
	assert.InDelta(t, 0.9, c.temps[0], 1e-9)
}

func TestPipeline_GenerateKeyText(t *testing.T) {
	c := &fakeCompleter{results: []fakeResult{{text: "```markdown\nKey points\n```"}}}
	_, res, err := runPipeline(t, newTestPipeline(c, false), Request{
		Operation: "generate_key",
		Payload:   gjson.Parse(`{"question":"q"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Key points", res.Content)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "retrying_softened", StageRetryingSoftened.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(99).String())
}
