package prompts

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/operations"
)

// =============================================================================
// TYPED REQUESTS - one per operation, decoded at the wire boundary
// =============================================================================

// Request is a decoded, validated operation payload.
type Request interface {
	Kind() operations.Kind
}

// RubricRequest drives grade_rubric and grade_text.
type RubricRequest struct {
	Operation          operations.Kind
	Question           string
	Submission         string
	AnswerKey          string
	CustomInstructions string
	RubricJSON         string // verbatim JSON or the client's string, empty when absent
}

func (r *RubricRequest) Kind() operations.Kind { return r.Operation }

// SemanticRequest drives semantic_similarity.
type SemanticRequest struct {
	AnswerKey     string
	StudentAnswer string
}

func (*SemanticRequest) Kind() operations.Kind { return operations.SemanticSimilarity }

// QuizSummaryRequest drives quiz_summary. Numeric fields are nil when the
// client sent something that is not a number.
type QuizSummaryRequest struct {
	QuizName          string
	Score             *float64
	MaxScore          *float64
	AverageScore      *float64
	AverageSimilarity *float64
	Details           []QuizDetail
}

func (*QuizSummaryRequest) Kind() operations.Kind { return operations.QuizSummary }

// QuizDetail is one attempted question in a quiz summary.
type QuizDetail struct {
	Question        string
	QuestionType    string
	Score           *float64
	MaxScore        *float64
	Similarity      *float64
	StudentResponse string
	ExpectedAnswer  string
}

// GenerateKeyRequest drives generate_key.
type GenerateKeyRequest struct {
	QuestionName string
	QuestionText string
}

func (*GenerateKeyRequest) Kind() operations.Kind { return operations.GenerateKey }

// TopicAnalysisRequest drives analyze_topics.
type TopicAnalysisRequest struct {
	Content string
}

func (*TopicAnalysisRequest) Kind() operations.Kind { return operations.AnalyzeTopics }

// QuestionGenerationRequest drives generate_questions.
type QuestionGenerationRequest struct {
	TopicTitle        string
	TopicContent      string
	QuestionTypes     []string
	Difficulty        Distribution
	Blooms            Distribution
	NumQuestions      int
	ExistingQuestions []string
	IsRegeneration    bool
	OldQuestionText   string
}

func (*QuestionGenerationRequest) Kind() operations.Kind { return operations.GenerateQuestions }

// RefinementRequest drives refine_question.
type RefinementRequest struct {
	ExistingQuestion string
	TopicTitle       string
	TopicContent     string
	QuestionType     string
	Difficulty       string
}

func (*RefinementRequest) Kind() operations.Kind { return operations.RefineQuestion }

// DistractorRequest drives generate_distractors.
type DistractorRequest struct {
	QuestionText   string
	CorrectAnswer  string
	Difficulty     string
	NumDistractors int
}

func (*DistractorRequest) Kind() operations.Kind { return operations.GenerateDistractors }

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	defaultQuestionType   = "multichoice"
	defaultDifficulty     = "medium"
	defaultNumDistractors = 3
	defaultQuizName       = "Quiz"
)

// DefaultDifficulty is used when a request carries no difficulty mapping.
var DefaultDifficulty = Distribution{{"easy", 20}, {"medium", 60}, {"hard", 20}}

// DefaultBlooms is used when a request carries no Bloom's taxonomy mapping.
var DefaultBlooms = Distribution{
	{"remember", 20}, {"understand", 25}, {"apply", 25},
	{"analyze", 15}, {"evaluate", 10}, {"create", 5},
}

// =============================================================================
// DECODING
// =============================================================================

// Decode converts a raw payload into the operation's typed request.
// A missing or null payload decodes as empty; any other non-object is ErrInvalidPayload.
func Decode(kind operations.Kind, payload gjson.Result) (Request, error) {
	if payload.Exists() && payload.Type != gjson.Null && !payload.IsObject() {
		return nil, ErrInvalidPayload
	}

	switch kind {
	case operations.GradeRubric, operations.GradeText:
		return &RubricRequest{
			Operation:          kind,
			Question:           text(payload, "question"),
			Submission:         text(payload, "submission", "student_answer"),
			AnswerKey:          text(payload, "answer_key"),
			CustomInstructions: text(payload, "custom_instructions"),
			RubricJSON:         rawJSON(payload.Get("rubric_json")),
		}, nil

	case operations.SemanticSimilarity:
		return &SemanticRequest{
			AnswerKey:     text(payload, "answer_key"),
			StudentAnswer: text(payload, "submission", "student_answer"),
		}, nil

	case operations.QuizSummary:
		return decodeQuizSummary(payload), nil

	case operations.GenerateKey:
		req := &GenerateKeyRequest{
			QuestionName: text(payload, "question", "question_name"),
			QuestionText: text(payload, "question_text", "questionText"),
		}
		if req.QuestionName == "" && req.QuestionText == "" {
			return nil, missing("Missing question or question_text")
		}
		return req, nil

	case operations.AnalyzeTopics:
		req := &TopicAnalysisRequest{Content: text(payload, "content")}
		if req.Content == "" {
			return nil, missing("Missing content")
		}
		return req, nil

	case operations.GenerateQuestions:
		return decodeQuestionGeneration(payload)

	case operations.RefineQuestion:
		req := &RefinementRequest{
			ExistingQuestion: text(payload, "existing_question"),
			TopicTitle:       text(payload, "topic_title"),
			TopicContent:     text(payload, "topic_content"),
			QuestionType:     textOr(payload, "question_type", defaultQuestionType),
			Difficulty:       textOr(payload, "difficulty", defaultDifficulty),
		}
		if req.ExistingQuestion == "" || req.TopicTitle == "" {
			return nil, missing("Missing existing_question or topic_title")
		}
		return req, nil

	case operations.GenerateDistractors:
		req := &DistractorRequest{
			QuestionText:   text(payload, "question_text"),
			CorrectAnswer:  text(payload, "correct_answer"),
			Difficulty:     textOr(payload, "difficulty", defaultDifficulty),
			NumDistractors: positiveInt(payload.Get("num_distractors"), defaultNumDistractors),
		}
		if req.QuestionText == "" || req.CorrectAnswer == "" {
			return nil, missing("Missing question_text or correct_answer")
		}
		return req, nil
	}

	return nil, ErrUnsupportedOperation
}

func decodeQuizSummary(payload gjson.Result) *QuizSummaryRequest {
	req := &QuizSummaryRequest{
		QuizName:          textOr(payload, "quiz_name", defaultQuizName),
		Score:             number(payload.Get("score")),
		MaxScore:          number(payload.Get("max_score")),
		AverageScore:      number(payload.Get("average_score")),
		AverageSimilarity: number(payload.Get("average_similarity")),
	}
	for _, d := range payload.Get("details").Array() {
		if !d.IsObject() {
			continue
		}
		req.Details = append(req.Details, QuizDetail{
			Question:        text(d, "question"),
			QuestionType:    text(d, "questiontype"),
			Score:           number(d.Get("score")),
			MaxScore:        number(d.Get("maxscore")),
			Similarity:      number(d.Get("similarity")),
			StudentResponse: text(d, "student_response"),
			ExpectedAnswer:  text(d, "expected_answer"),
		})
	}
	return req
}

func decodeQuestionGeneration(payload gjson.Result) (*QuestionGenerationRequest, error) {
	req := &QuestionGenerationRequest{
		TopicTitle:      text(payload, "topic_title"),
		TopicContent:    text(payload, "topic_content"),
		QuestionTypes:   stringList(payload.Get("question_types")),
		Difficulty:      distribution(payload.Get("difficulty_distribution"), DefaultDifficulty),
		Blooms:          distribution(payload.Get("blooms_distribution"), DefaultBlooms),
		IsRegeneration:  payload.Get("is_regeneration").Bool(),
		OldQuestionText: text(payload, "old_question_text"),
	}
	if req.TopicTitle == "" {
		return nil, missing("Missing topic_title")
	}
	if len(req.QuestionTypes) == 0 {
		req.QuestionTypes = []string{defaultQuestionType}
	}
	req.NumQuestions = positiveInt(payload.Get("num_questions"), len(req.QuestionTypes))

	existing := payload.Get("existing_questions").Array()
	if len(existing) > config.MaxExistingQuestions {
		existing = existing[len(existing)-config.MaxExistingQuestions:]
	}
	for _, q := range existing {
		req.ExistingQuestions = append(req.ExistingQuestions, scalarOrRaw(q))
	}
	return req, nil
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// text returns the first non-blank scalar among keys, trimmed.
func text(p gjson.Result, keys ...string) string {
	for _, k := range keys {
		v := p.Get(k)
		if v.Type != gjson.String && v.Type != gjson.Number {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

func textOr(p gjson.Result, key, def string) string {
	if s := text(p, key); s != "" {
		return s
	}
	return def
}

func number(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}

func positiveInt(v gjson.Result, def int) int {
	if v.Type != gjson.Number {
		return def
	}
	if n := int(v.Int()); n > 0 {
		return n
	}
	return def
}

// rawJSON keeps structured values verbatim and trims string values.
func rawJSON(v gjson.Result) string {
	if v.IsObject() || v.IsArray() {
		return strings.TrimSpace(v.Raw)
	}
	if v.Type == gjson.String {
		return strings.TrimSpace(v.Str)
	}
	return ""
}

func scalarOrRaw(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}

func stringList(v gjson.Result) []string {
	var out []string
	for _, item := range v.Array() {
		if item.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(item.Str); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// distribution keeps the client's declared key order.
func distribution(v gjson.Result, def Distribution) Distribution {
	if !v.IsObject() {
		return def
	}
	var d Distribution
	v.ForEach(func(label, weight gjson.Result) bool {
		d = append(d, Weight{Label: label.String(), Weight: weight.Float()})
		return true
	})
	if len(d) == 0 {
		return def
	}
	return d
}
