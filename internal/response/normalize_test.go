package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/internal/operations"
)

func normalizeJSON(t *testing.T, kind operations.Kind, raw string, h Hints) string {
	t.Helper()
	out, err := json.Marshal(Normalize(kind, gjson.Parse(raw), h))
	require.NoError(t, err)
	return string(out)
}

func TestNormalize_SemanticFencedOutput(t *testing.T) {
	v, err := Extract("```json\n{\"matched_concepts\":[\"a\"],\"partially_matched_concepts\":[],\"missing_concepts\":[\"b\"],\"reasoning\":\"ok\"}\n```")
	require.NoError(t, err)

	got := Normalize(operations.SemanticSimilarity, v, Hints{})
	assert.Equal(t, SemanticContent{
		MatchedConcepts:          []any{"a"},
		PartiallyMatchedConcepts: []any{},
		MissingConcepts:          []any{"b"},
		Reasoning:                "ok",
	}, got)
}

func TestNormalize_DefaultsForEmptyObject(t *testing.T) {
	tests := []struct {
		kind     operations.Kind
		expected string
	}{
		{operations.SemanticSimilarity, `{"matched_concepts":[],"partially_matched_concepts":[],"missing_concepts":[],"reasoning":""}`},
		{operations.QuizSummary, `{"overall_feedback":"","strengths":[],"improvements":[]}`},
		{operations.GradeRubric, `{"criteria":[],"feedback":""}`},
		{operations.GradeText, `{"score":0,"max_score":100,"feedback":"","criteria":[]}`},
		{operations.AnalyzeTopics, `{"topics":[]}`},
		{operations.GenerateDistractors, `{"distractors":[]}`},
		{operations.RefineQuestion, `{"question":{"questiontext":"","questiontype":"multichoice","difficulty":"medium","blooms_level":"understand","answers":[],"generalfeedback":""}}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.JSONEq(t, tt.expected, normalizeJSON(t, tt.kind, `{}`, Hints{}))
		})
	}
}

func TestNormalize_GradeText(t *testing.T) {
	got := normalizeJSON(t, operations.GradeText,
		`{"score":"7.5","max_score":10,"feedback":{"tone":"good"},"criteria":"none","extra":true}`, Hints{})
	assert.JSONEq(t, `{"score":7.5,"max_score":10,"feedback":"{\"tone\":\"good\"}","criteria":[]}`, got)
}

func TestNormalize_GradeRubricKeepsCriteria(t *testing.T) {
	got := normalizeJSON(t, operations.GradeRubric,
		`{"criteria":[{"name":"Accuracy","score":8,"max_score":10}],"feedback":"Solid."}`, Hints{})
	assert.JSONEq(t, `{"criteria":[{"name":"Accuracy","score":8,"max_score":10}],"feedback":"Solid."}`, got)
}

func TestNormalize_Questions(t *testing.T) {
	raw := `[
		{"questiontext":"Q1","questiontype":"ignored","answers":[{"text":"a","fraction":1}]},
		"not an object",
		{"questiontext":"Q3","difficulty":"hard","blooms_level":"apply","ai_reasoning":"r"},
		{"questiontext":"Q4"}
	]`
	got := Normalize(operations.GenerateQuestions, gjson.Parse(raw), Hints{
		QuestionTypes: []string{"multichoice", "essay", "truefalse"},
		NumQuestions:  3,
		Tokens:        map[string]int{"total": 5},
	}).(QuestionsContent)

	require.Len(t, got.Questions, 2)
	assert.Equal(t, "Q1", got.Questions[0].QuestionText)
	assert.Equal(t, "multichoice", got.Questions[0].QuestionType)
	assert.Equal(t, "medium", got.Questions[0].Difficulty)
	assert.Equal(t, "understand", got.Questions[0].BloomsLevel)
	assert.Len(t, got.Questions[0].Answers, 1)

	assert.Equal(t, "Q3", got.Questions[1].QuestionText)
	assert.Equal(t, "truefalse", got.Questions[1].QuestionType)
	assert.Equal(t, "hard", got.Questions[1].Difficulty)
	assert.Equal(t, "apply", got.Questions[1].BloomsLevel)
	assert.Equal(t, "r", got.Questions[1].AIReasoning)
	assert.Equal(t, []any{}, got.Questions[1].Answers)

	assert.Equal(t, map[string]int{"total": 5}, got.Tokens)
}

func TestNormalize_QuestionsBeyondTypesDefaultToMultichoice(t *testing.T) {
	got := Normalize(operations.GenerateQuestions, gjson.Parse(`[{},{}]`), Hints{
		QuestionTypes: []string{"essay"},
		NumQuestions:  5,
	}).(QuestionsContent)

	require.Len(t, got.Questions, 2)
	assert.Equal(t, "essay", got.Questions[0].QuestionType)
	assert.Equal(t, "multichoice", got.Questions[1].QuestionType)
}

func TestNormalize_RefineUsesRequestHints(t *testing.T) {
	got := normalizeJSON(t, operations.RefineQuestion,
		`{"questiontext":"New Q","questiontype":"essay","answers":[{"text":"x"}]}`,
		Hints{QuestionType: "truefalse", Difficulty: "hard"})
	assert.JSONEq(t, `{"question":{"questiontext":"New Q","questiontype":"truefalse","difficulty":"hard",
		"blooms_level":"understand","answers":[{"text":"x"}],"generalfeedback":""}}`, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	kinds := []operations.Kind{
		operations.SemanticSimilarity, operations.QuizSummary, operations.GradeRubric,
		operations.GradeText, operations.AnalyzeTopics, operations.GenerateDistractors,
	}
	for _, k := range kinds {
		once := normalizeJSON(t, k, `{"score":3,"topics":[1],"strengths":["s"],"distractors":[{"text":"d"}]}`, Hints{})
		twice := normalizeJSON(t, k, once, Hints{})
		assert.JSONEq(t, once, twice, k)
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "- point A\n- point B", PlainText("```\n- point A\n- point B\n```"))
	assert.Equal(t, "Key points.", PlainText("  Key points.\n"))
}
