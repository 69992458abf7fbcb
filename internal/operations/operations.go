// Package operations defines the closed set of gateway operations.
//
// DESIGN: Each operation has a fixed Profile:
//   - sampling:  quality tier -> temperature table, default tier, max_tokens
//   - shape:     what the model must return (JSON object, JSON array, plain text)
//   - surface:   provider tag and the stable client-facing failure message
//
// Unknown operation names are rejected by ParseKind, never defaulted.
package operations

import "strings"

// Kind identifies a gateway operation.
type Kind string

const (
	GradeRubric         Kind = "grade_rubric"
	GradeText           Kind = "grade_text"
	SemanticSimilarity  Kind = "semantic_similarity"
	QuizSummary         Kind = "quiz_summary"
	GenerateKey         Kind = "generate_key"
	AnalyzeTopics       Kind = "analyze_topics"
	GenerateQuestions   Kind = "generate_questions"
	RefineQuestion      Kind = "refine_question"
	GenerateDistractors Kind = "generate_distractors"
)

// All lists every operation in declaration order.
var All = []Kind{
	GradeRubric, GradeText, SemanticSimilarity, QuizSummary,
	GenerateKey, AnalyzeTopics, GenerateQuestions, RefineQuestion, GenerateDistractors,
}

// ParseKind maps a wire name onto a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.TrimSpace(s))
	_, ok := profiles[k]
	return k, ok
}

// IsGrading reports whether the operation is served by /grade.
func (k Kind) IsGrading() bool {
	switch k {
	case GradeRubric, GradeText, SemanticSimilarity, QuizSummary:
		return true
	}
	return false
}

// Quality is the coarse sampling knob sent by clients.
type Quality string

const (
	Fast     Quality = "fast"
	Balanced Quality = "balanced"
	Best     Quality = "best"
)

// Shape is the form the model output must take.
type Shape int

const (
	ShapeObject Shape = iota // JSON object
	ShapeArray               // JSON array
	ShapeText                // plain text, no JSON extraction
)

// RegenerationTemperature replaces the tier temperature when a question is regenerated.
const RegenerationTemperature = 0.9

// Profile is the static behavior of one operation.
type Profile struct {
	Kind               Kind
	DefaultQuality     Quality
	Temperatures       map[Quality]float64
	DefaultTemperature float64
	MaxTokens          int
	Shape              Shape

	// RequiredKey must be present in the extracted object, if set.
	RequiredKey string

	// Provider is the tag returned to clients ("hub:<kind>").
	Provider string

	// Unavailable is the stable message for upstream failures.
	Unavailable string
}

// Temperature resolves a raw quality string. Blank uses the default tier;
// unknown tiers use the default temperature.
func (p Profile) Temperature(quality string) float64 {
	q := Quality(strings.ToLower(strings.TrimSpace(quality)))
	if q == "" {
		q = p.DefaultQuality
	}
	if t, ok := p.Temperatures[q]; ok {
		return t
	}
	return p.DefaultTemperature
}

// Lookup returns the profile for k. k must come from ParseKind.
func Lookup(k Kind) Profile {
	return profiles[k]
}

const gradingUnavailable = "AI grading is temporarily unavailable"

func gradingProfile(k Kind, provider string) Profile {
	return Profile{
		Kind:               k,
		DefaultQuality:     Balanced,
		Temperatures:       map[Quality]float64{Fast: 0.2, Balanced: 0.4, Best: 0.6},
		DefaultTemperature: 0.4,
		MaxTokens:          1800,
		Shape:              ShapeObject,
		Provider:           "hub:" + provider,
		Unavailable:        gradingUnavailable,
	}
}

var profiles = map[Kind]Profile{
	GradeRubric:        gradingProfile(GradeRubric, "rubric"),
	GradeText:          gradingProfile(GradeText, "text"),
	SemanticSimilarity: gradingProfile(SemanticSimilarity, "semantic"),
	QuizSummary:        gradingProfile(QuizSummary, "summary"),
	GenerateKey: {
		Kind:               GenerateKey,
		DefaultQuality:     Balanced,
		DefaultTemperature: 0.2,
		MaxTokens:          500,
		Shape:              ShapeText,
		Provider:           "hub:generate_key",
		Unavailable:        "AI key generation is temporarily unavailable",
	},
	AnalyzeTopics: {
		Kind:               AnalyzeTopics,
		DefaultQuality:     Best,
		Temperatures:       map[Quality]float64{Fast: 0.2, Balanced: 0.3, Best: 0.3},
		DefaultTemperature: 0.3,
		MaxTokens:          8000,
		Shape:              ShapeObject,
		RequiredKey:        "topics",
		Provider:           "hub:analyze_topics",
		Unavailable:        "AI topic analysis is temporarily unavailable",
	},
	GenerateQuestions: {
		Kind:               GenerateQuestions,
		DefaultQuality:     Balanced,
		Temperatures:       map[Quality]float64{Fast: 0.5, Balanced: 0.7, Best: 0.7},
		DefaultTemperature: 0.7,
		MaxTokens:          3000,
		Shape:              ShapeArray,
		Provider:           "hub:generate_questions",
		Unavailable:        "AI question generation is temporarily unavailable",
	},
	RefineQuestion: {
		Kind:               RefineQuestion,
		DefaultQuality:     Balanced,
		Temperatures:       map[Quality]float64{Fast: 0.7, Balanced: 0.9, Best: 0.9},
		DefaultTemperature: 0.9,
		MaxTokens:          1500,
		Shape:              ShapeObject,
		Provider:           "hub:refine_question",
		Unavailable:        "AI question refinement is temporarily unavailable",
	},
	GenerateDistractors: {
		Kind:               GenerateDistractors,
		DefaultQuality:     Balanced,
		Temperatures:       map[Quality]float64{Fast: 0.5, Balanced: 0.7, Best: 0.7},
		DefaultTemperature: 0.7,
		MaxTokens:          800,
		Shape:              ShapeObject,
		Provider:           "hub:generate_distractors",
		Unavailable:        "AI distractor generation is temporarily unavailable",
	},
}
