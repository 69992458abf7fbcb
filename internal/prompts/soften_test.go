package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hlai/ai-hub-gateway/internal/operations"
)

func TestSoften_Rules(t *testing.T) {
	prompt := strings.Join([]string{
		"You are an expert educational grader.",
		"You must grade the student's work and return STRICT JSON.",
		"Educator Custom Instructions (highest priority - override any default guidance):",
		"Be generous.",
		"- You MUST evaluate the submission against each criterion.",
		"Each item must start with a label. Return strict Json.",
		"Mustard is not a keyword.",
		"Do NOT wrap your response in markdown code blocks. Return only raw JSON.",
	}, "\n") + "\n"

	got := Soften(prompt)

	assert.Equal(t, strings.Join([]string{
		"You are an expert educational grader.",
		"Please grade the student's work and return valid JSON.",
		"Be generous.",
		"- Please evaluate the submission against each criterion.",
		"Each item should start with a label. Return valid JSON.",
		"Mustard is not a keyword.",
		"Return a valid JSON object without markdown code fences.",
		SoftenedReminder,
	}, "\n"), got)
}

func TestSoften_Properties(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		buildRubricPrompt(&RubricRequest{Question: "q", Submission: "s", CustomInstructions: "ci", RubricJSON: `{"a":1}`}),
		buildSemanticSimilarityPrompt(&SemanticRequest{AnswerKey: "k", StudentAnswer: "a"}),
		buildQuizSummaryPrompt(&QuizSummaryRequest{QuizName: "Quiz"}),
		"line one\noverride any default guidance\nOVERRIDE ANY DEFAULT GUIDANCE twice\nSTRICT JSON and strict json",
	}

	for _, in := range inputs {
		once := Soften(in)
		lower := strings.ToLower(once)

		assert.NotContains(t, lower, "override any default guidance")
		assert.NotContains(t, lower, "strict json")
		assert.NotContains(t, lower, "do not wrap your response")
		assert.True(t, strings.HasSuffix(once, SoftenedReminder))
		assert.Equal(t, once, Soften(once), "soften must be idempotent")
	}
}

func TestSoften_KeepsContent(t *testing.T) {
	prompt := buildRubricPrompt(&RubricRequest{Question: "What is 2+2?", Submission: "four"})
	got := Soften(prompt)

	assert.Contains(t, got, "What is 2+2?")
	assert.Contains(t, got, "four")
	assert.Equal(t, 1, strings.Count(got, SoftenedReminder))
}

func TestSoftenFor_ReminderMatchesShape(t *testing.T) {
	questions := buildQuestionGenerationPrompt(&QuestionGenerationRequest{
		TopicTitle:    "Valves",
		QuestionTypes: []string{"essay"},
		Difficulty:    DefaultDifficulty,
		Blooms:        DefaultBlooms,
	}, &seqRand{draws: []int{0}})
	key := buildGenerateKeyPrompt(&GenerateKeyRequest{QuestionText: "Discuss tides."})

	tests := []struct {
		name     string
		prompt   string
		shape    operations.Shape
		reminder string
		others   []string
	}{
		{"object", buildRubricPrompt(&RubricRequest{Question: "q"}), operations.ShapeObject, SoftenedReminder,
			[]string{SoftenedArrayReminder, SoftenedTextReminder}},
		{"array", questions, operations.ShapeArray, SoftenedArrayReminder,
			[]string{SoftenedReminder, SoftenedTextReminder}},
		{"text", key, operations.ShapeText, SoftenedTextReminder,
			[]string{SoftenedReminder, SoftenedArrayReminder}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SoftenFor(tt.prompt, tt.shape)
			assert.True(t, strings.HasSuffix(got, tt.reminder))
			assert.Equal(t, 1, strings.Count(got, tt.reminder))
			for _, other := range tt.others {
				assert.NotContains(t, got, other)
			}
			if tt.shape != operations.ShapeObject {
				assert.NotContains(t, got, "JSON object")
			}
			assert.Equal(t, got, SoftenFor(got, tt.shape))
		})
	}
}

func TestSoftenFor_FenceLineFollowsShape(t *testing.T) {
	prompt := "Answer the question.\nDo NOT wrap your response in markdown code blocks."

	assert.Equal(t, "Answer the question.\nReturn plain text without markdown code fences.\n"+SoftenedTextReminder,
		SoftenFor(prompt, operations.ShapeText))
	assert.Equal(t, "Answer the question.\nReturn a valid JSON array without markdown code fences.\n"+SoftenedArrayReminder,
		SoftenFor(prompt, operations.ShapeArray))
	assert.Equal(t, Soften(prompt), SoftenFor(prompt, operations.ShapeObject))
}
