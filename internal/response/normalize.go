package response

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/internal/operations"
)

// Hints carries request-side values that shape normalized output.
type Hints struct {
	QuestionTypes []string // generate_questions: per-slot types
	NumQuestions  int      // generate_questions: output cap
	QuestionType  string   // refine_question
	Difficulty    string   // refine_question fallback
	Tokens        any      // generate_questions echoes usage inside content
}

// =============================================================================
// OUTPUT SHAPES
// =============================================================================

// SemanticContent is the semantic_similarity result.
type SemanticContent struct {
	MatchedConcepts          []any  `json:"matched_concepts"`
	PartiallyMatchedConcepts []any  `json:"partially_matched_concepts"`
	MissingConcepts          []any  `json:"missing_concepts"`
	Reasoning                string `json:"reasoning"`
}

// SummaryContent is the quiz_summary result.
type SummaryContent struct {
	OverallFeedback string `json:"overall_feedback"`
	Strengths       []any  `json:"strengths"`
	Improvements    []any  `json:"improvements"`
}

// RubricContent is the grade_rubric result.
type RubricContent struct {
	Criteria []any  `json:"criteria"`
	Feedback string `json:"feedback"`
}

// TextContent is the grade_text result.
type TextContent struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Feedback string  `json:"feedback"`
	Criteria []any   `json:"criteria"`
}

// TopicsContent is the analyze_topics result.
type TopicsContent struct {
	Topics []any `json:"topics"`
}

// Question is one generated question.
type Question struct {
	QuestionText    string `json:"questiontext"`
	QuestionType    string `json:"questiontype"`
	Difficulty      string `json:"difficulty"`
	BloomsLevel     string `json:"blooms_level"`
	Answers         []any  `json:"answers"`
	GeneralFeedback string `json:"generalfeedback"`
	AIReasoning     string `json:"ai_reasoning"`
}

// QuestionsContent is the generate_questions result.
type QuestionsContent struct {
	Questions []Question `json:"questions"`
	Tokens    any        `json:"tokens"`
}

// RefinedQuestion is the regenerated question.
type RefinedQuestion struct {
	QuestionText    string `json:"questiontext"`
	QuestionType    string `json:"questiontype"`
	Difficulty      string `json:"difficulty"`
	BloomsLevel     string `json:"blooms_level"`
	Answers         []any  `json:"answers"`
	GeneralFeedback string `json:"generalfeedback"`
}

// RefinedContent is the refine_question result.
type RefinedContent struct {
	Question RefinedQuestion `json:"question"`
}

// DistractorsContent is the generate_distractors result.
type DistractorsContent struct {
	Distractors []any `json:"distractors"`
}

const (
	defaultQuestionType = "multichoice"
	defaultDifficulty   = "medium"
	defaultBlooms       = "understand"
	defaultMaxScore     = 100
)

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize maps extracted JSON onto the operation's fixed key set. Absent or
// mistyped fields take type-appropriate defaults; it never fails.
func Normalize(kind operations.Kind, v gjson.Result, h Hints) any {
	switch kind {
	case operations.SemanticSimilarity:
		return SemanticContent{
			MatchedConcepts:          list(v.Get("matched_concepts")),
			PartiallyMatchedConcepts: list(v.Get("partially_matched_concepts")),
			MissingConcepts:          list(v.Get("missing_concepts")),
			Reasoning:                str(v.Get("reasoning"), ""),
		}
	case operations.QuizSummary:
		return SummaryContent{
			OverallFeedback: str(v.Get("overall_feedback"), ""),
			Strengths:       list(v.Get("strengths")),
			Improvements:    list(v.Get("improvements")),
		}
	case operations.GradeRubric:
		return RubricContent{
			Criteria: list(v.Get("criteria")),
			Feedback: str(v.Get("feedback"), ""),
		}
	case operations.GradeText:
		return TextContent{
			Score:    num(v.Get("score"), 0),
			MaxScore: num(v.Get("max_score"), defaultMaxScore),
			Feedback: str(v.Get("feedback"), ""),
			Criteria: list(v.Get("criteria")),
		}
	case operations.AnalyzeTopics:
		return TopicsContent{Topics: list(v.Get("topics"))}
	case operations.GenerateQuestions:
		return normalizeQuestions(v, h)
	case operations.RefineQuestion:
		return RefinedContent{Question: RefinedQuestion{
			QuestionText:    str(v.Get("questiontext"), ""),
			QuestionType:    orDefault(h.QuestionType, defaultQuestionType),
			Difficulty:      str(v.Get("difficulty"), orDefault(h.Difficulty, defaultDifficulty)),
			BloomsLevel:     str(v.Get("blooms_level"), defaultBlooms),
			Answers:         list(v.Get("answers")),
			GeneralFeedback: str(v.Get("generalfeedback"), ""),
		}}
	case operations.GenerateDistractors:
		return DistractorsContent{Distractors: list(v.Get("distractors"))}
	}
	return map[string]any{}
}

// PlainText is the generate_key content: the model text without fences.
func PlainText(text string) string {
	return StripFences(text)
}

func normalizeQuestions(v gjson.Result, h Hints) QuestionsContent {
	items := v.Array()
	if h.NumQuestions > 0 && len(items) > h.NumQuestions {
		items = items[:h.NumQuestions]
	}

	questions := make([]Question, 0, len(items))
	for i, q := range items {
		if !q.IsObject() {
			continue
		}
		qtype := defaultQuestionType
		if i < len(h.QuestionTypes) {
			qtype = h.QuestionTypes[i]
		}
		questions = append(questions, Question{
			QuestionText:    str(q.Get("questiontext"), ""),
			QuestionType:    qtype,
			Difficulty:      str(q.Get("difficulty"), defaultDifficulty),
			BloomsLevel:     str(q.Get("blooms_level"), defaultBlooms),
			Answers:         list(q.Get("answers")),
			GeneralFeedback: str(q.Get("generalfeedback"), ""),
			AIReasoning:     str(q.Get("ai_reasoning"), ""),
		})
	}
	return QuestionsContent{Questions: questions, Tokens: h.Tokens}
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

func list(v gjson.Result) []any {
	if v.IsArray() {
		if arr, ok := v.Value().([]any); ok {
			return arr
		}
	}
	return []any{}
}

func str(v gjson.Result, def string) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return def
	case v.IsObject() || v.IsArray():
		return v.Raw
	default:
		return v.String()
	}
}

func num(v gjson.Result, def float64) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f
		}
	}
	return def
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
