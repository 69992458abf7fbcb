package prompts

import (
	"fmt"
	"strings"
)

// =============================================================================
// RUBRIC / TEXT GRADING
// =============================================================================

func buildRubricPrompt(r *RubricRequest) string {
	instructions := r.CustomInstructions
	if r.AnswerKey != "" {
		instructions = strings.TrimSpace(instructions + "\n\nAnswer key / grading notes:\n" + r.AnswerKey)
	}
	hasInstructions := instructions != ""

	var b strings.Builder
	b.WriteString("You are an expert educational grader.\n")
	b.WriteString("You must grade the student's work and return STRICT JSON.\n\n")
	fmt.Fprintf(&b, "Question / Assignment:\n%s\n\n", r.Question)
	fmt.Fprintf(&b, "Student Submission:\n%s\n\n", r.Submission)

	if hasInstructions {
		b.WriteString("Educator Custom Instructions (highest priority - override any default guidance):\n")
		fmt.Fprintf(&b, "%s\n\n", instructions)
		b.WriteString("You MUST follow every instruction above exactly. If any request conflicts with other guidance, the custom instructions win.\n\n")
	}

	if r.RubricJSON != "" {
		fmt.Fprintf(&b, "Grading Rubric (JSON structure):\n%s\n\n", r.RubricJSON)
		b.WriteString("IMPORTANT INSTRUCTIONS:\n")
		b.WriteString("- You MUST evaluate the submission against each criterion defined in the rubric above.\n")
		b.WriteString("- For each criterion, assign a score based on the rubric levels provided.\n")
		b.WriteString("- Use the EXACT criterion names from the rubric in your response.\n")
		b.WriteString("- The total score should be the sum of all criterion scores.\n")
		b.WriteString("- The max_score should be the sum of all maximum scores from the rubric.\n")
		if hasInstructions {
			b.WriteString("- Even if the rubric shows higher point values, NEVER exceed the limits or rules stated in the educator instructions above.\n")
		}
	} else {
		b.WriteString("No specific rubric provided. Grade on clarity, correctness, and completeness.\n")
		b.WriteString("Use reasonable maximum scores for each criterion.\n")
	}

	b.WriteString("\nReturn JSON with at least these fields:\n")
	b.WriteString("{\n")
	b.WriteString(`  "score": number,        // total numeric grade (sum of all criteria scores)` + "\n")
	b.WriteString(`  "max_score": number,    // total possible points (sum of all criteria max scores)` + "\n")
	b.WriteString(`  "feedback": string,     // overall teacher-style feedback` + "\n")
	b.WriteString(`  "criteria": [           // REQUIRED breakdown by criterion` + "\n")
	b.WriteString(`    {"name": "criterion name", "score": earned_points, "max_score": possible_points, "feedback": "specific feedback for this criterion"}` + "\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n")
	b.WriteString("\nDo NOT wrap your response in markdown code blocks. Return only raw JSON.\n")
	return b.String()
}

// =============================================================================
// SEMANTIC SIMILARITY
// =============================================================================

// semanticExamples are style anchors only; the model is told not to copy them.
var semanticExamples = []struct{ key, student, output string }{
	{
		"Uses include a main dish and an accompaniment/garnish.",
		"Can be served as a main meal or as an accompaniment, e.g., pasta or rice.",
		`{"reasoning":"Student states both required uses with equivalent phrasing and a supporting example.","matched_concepts":["served as a main dish","served as an accompaniment/garnish"],"partially_matched_concepts":[],"missing_concepts":[]}`,
	},
	{
		"Provide five items: A, B, C, D, E.",
		"A, B, D, E.",
		`{"reasoning":"Four of five required items are present; one is missing.","matched_concepts":["A","B","D","E"],"partially_matched_concepts":[],"missing_concepts":["C"]}`,
	},
	{
		"Provide five items: A, B, C, D, E.",
		"A, C.",
		`{"reasoning":"Two of five required items are present; three are missing.","matched_concepts":["A","C"],"partially_matched_concepts":[],"missing_concepts":["B","D","E"]}`,
	},
	{
		"Usable product after 80% yield from 10 kg is 8000 g. Cost per 200 g portion is 2.50 AED.",
		"Usable product is 8000 g. Cost per 200 g portion is 20 AED.",
		`{"reasoning":"Yield calculation is correct; portion cost is incorrect.","matched_concepts":["usable product = 8000 g"],"partially_matched_concepts":[],"missing_concepts":["200 g portion cost = 2.50 AED"]}`,
	},
	{
		"Unit tests catch defects early and prevent regressions.",
		"They help find bugs early and stop changes from breaking existing behavior.",
		`{"reasoning":"Student captures both purposes with equivalent phrasing.","matched_concepts":["catch defects early","prevent regressions"],"partially_matched_concepts":[],"missing_concepts":[]}`,
	},
	{
		"Store potatoes in a dark place to prevent sprouting/greening.",
		"To prevent photosynthesis.",
		`{"reasoning":"The answer does not address sprouting/greening.","matched_concepts":[],"partially_matched_concepts":[],"missing_concepts":["prevent sprouting/greening"]}`,
	},
}

func buildSemanticSimilarityPrompt(r *SemanticRequest) string {
	var b strings.Builder
	b.WriteString("You are grading an answer against an answer key.\n")
	b.WriteString("Use a teacher-like, slightly lenient approach that focuses on meaning, reasoning, and correctness.\n")
	b.WriteString("Accept equivalent phrasing and synonyms; do not penalize minor wording differences.\n")
	b.WriteString("Do not award credit for incorrect or unrelated statements.\n")
	b.WriteString("For multi-part questions, treat each required part as a separate concept.\n")
	b.WriteString("Extract 3-8 key concepts from the key answer (core requirements only; do not include optional examples as required concepts).\n")
	b.WriteString("Label each concept as matched (fully covered), partially_matched (some evidence but incomplete/unclear), or missing.\n")
	b.WriteString("Apply this style for any subject or domain.\n")
	b.WriteString("Return only raw JSON with keys (no markdown, no extra text):\n")
	b.WriteString("- reasoning (brief explanation)\n")
	b.WriteString("- matched_concepts (array of short phrases fully covered)\n")
	b.WriteString("- partially_matched_concepts (array of short phrases partially covered)\n")
	b.WriteString("- missing_concepts (array of short phrases not covered)\n\n")
	b.WriteString("Examples (for style only; do not copy wording):\n")
	for i, ex := range semanticExamples {
		fmt.Fprintf(&b, "Example %d\nKey: %s\nStudent: %s\nOutput: %s\n\n", i+1, ex.key, ex.student, ex.output)
	}
	fmt.Fprintf(&b, "Answer key:\n%s\n\n", r.AnswerKey)
	fmt.Fprintf(&b, "Student answer:\n%s\n", r.StudentAnswer)
	return b.String()
}

// =============================================================================
// QUIZ SUMMARY
// =============================================================================

const quizSummaryScaffold = `You are a professional instructor writing feedback for a student.
Write concise, teacher-style feedback in a supportive but direct tone.
Provide exactly 3 areas of excellence, 3 areas for improvement, and an overall assessment paragraph.
Each list item must start with a short label followed by ' - ' and a specific explanation.
If performance criteria codes (e.g., PC 1.1) appear in the question text or expected answer, use them as labels.
If no codes exist, use short topic labels (e.g., Q3, Technique, Concept).
Apply the same style across any subject area.
Overall feedback must be two short paragraphs (2-3 sentences each).
Paragraph 1 should highlight specific strengths observed in the attempt (not generic praise).
Paragraph 2 should give specific, actionable next steps tied to missing concepts or weak areas.
Do not mention AI or the system.
Return JSON only in this format:
{
  "overall_feedback": "text",
  "strengths": ["...", "...", "..."],
  "improvements": ["...", "...", "..."]
}
Style example (use tone and structure only; do not copy wording):
Overall Assessment Feedback:
"Maria, you've demonstrated a strong foundation in core culinary principles, especially in identifying foundational elements and applying professional techniques. Your explanations show you can connect methods to outcomes, which is an important strength at this stage."
"To move from a good level to an outstanding level, add more technical depth in procedural answers and include specific examples that show why methods work. Focus on precision in terminology and step-by-step reasoning so your responses consistently cover all required points."
Areas of excellence:
- "PC 1.1 - Strong understanding of foundational types and their applications, clearly linked to core principles."
- "PC 1.6 - Clear grasp of preparation and service procedures, including correct sequencing."
- "PC 1.5 - Accurate definition and examples, showing awareness of practical use in operations."
Areas for improvement:
- "PC 1.3 - Add derivative examples and explain how technique changes affect outcomes."
- "PC 2.2 - Include more procedural details about handling, cleaning, and maintenance practices."
- "PC 2.4 - Use more precise technical terms and measurements where relevant."
Non-culinary label example:
- "Q4 - Correctly applied the formula but did not explain the reasoning steps."
`

func buildQuizSummaryPrompt(r *QuizSummaryRequest) string {
	var b strings.Builder
	b.WriteString(quizSummaryScaffold)
	fmt.Fprintf(&b, "Quiz: %s\n", r.QuizName)
	if r.Score != nil && r.MaxScore != nil && *r.MaxScore > 0 {
		fmt.Fprintf(&b, "Overall score: %.2f / %.2f\n", *r.Score, *r.MaxScore)
	} else {
		b.WriteString("Overall score: n/a\n")
	}
	if r.AverageScore != nil {
		fmt.Fprintf(&b, "Average score across questions: %.2f%%\n", *r.AverageScore)
	}
	if r.AverageSimilarity != nil {
		fmt.Fprintf(&b, "Average essay semantic match: %.2f%%\n", *r.AverageSimilarity)
	}
	b.WriteString("Question details (full attempt):\n")

	for i, d := range r.Details {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, d.Question)
		fmt.Fprintf(&b, "Type: %s\n", d.QuestionType)
		if d.Score != nil && d.MaxScore != nil && *d.MaxScore > 0 {
			fmt.Fprintf(&b, "Score: %.2f / %.2f\n", *d.Score, *d.MaxScore)
		}
		if d.Similarity != nil {
			fmt.Fprintf(&b, "Essay semantic match: %.2f%%\n", *d.Similarity)
		}
		fmt.Fprintf(&b, "Student response: %s\n", d.StudentResponse)
		fmt.Fprintf(&b, "Expected answer: %s\n\n", d.ExpectedAnswer)
	}
	return b.String()
}

// =============================================================================
// ANSWER KEY
// =============================================================================

func buildGenerateKeyPrompt(r *GenerateKeyRequest) string {
	var b strings.Builder
	b.WriteString("You are an instructor. Write a concise model answer key for the essay question below.\n")
	b.WriteString("Capture the key points a high-scoring response should include.\n")
	b.WriteString("Return plain text with bullet points if helpful. Keep it under 200 words.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", r.QuestionName)
	fmt.Fprintf(&b, "Question text: %s\n", r.QuestionText)
	return b.String()
}
