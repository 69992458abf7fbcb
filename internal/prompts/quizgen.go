package prompts

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hlai/ai-hub-gateway/internal/config"
	"github.com/hlai/ai-hub-gateway/internal/utils"
)

// TruncationMarker is appended to course content cut at MaxTopicAnalysisChars.
const TruncationMarker = "\n[content truncated]"

// =============================================================================
// TOPIC EXTRACTION
// =============================================================================

const topicExtractionHeader = `You are an educational content analyzer. Extract meaningful topics from the content structure.

CONTENT TO ANALYZE:
---
`

const topicExtractionInstructions = `
---

INSTRUCTIONS:
1. Look for structural elements in the content:
   - Topic markers: "=== TOPIC: [Name] ([Type]) ===" - use the [Name] as the topic title
   - Activity Name fields after topic markers
   - Headings (# Heading, ## Subheading in markdown)
   - Chapter markers (Chapter 1:, Module 2:, Week 3:)

2. CRITICAL NAMING RULES:
   - When you see "=== TOPIC: [Activity Name] ([Type]) ===" markers, use the EXACT [Activity Name] as the topic title
   - Example: "=== TOPIC: Introduction to Python (Lesson) ===" → topic title = "Introduction to Python"
   - NEVER use generic names like "SCORM", "Lesson", "Forum", "Page" as topic titles
   - NEVER use the activity TYPE as the title - use the actual NAME
   - The topic title should describe WHAT the content teaches, not what format it's in
   - DO NOT include prefixes like "SCORM:", "SECTION:", "COURSE:", "LESSON:" in topic titles
   - BAD: "SCORM: Control Safety Hazards" - GOOD: "Control Safety Hazards"
   - BAD: "SECTION: Valves: Introduction" - GOOD: "Valves: Introduction" or just "Introduction to Valves"

3. Extract ALL topics/sections found - do NOT limit the number
4. For each topic, note key concepts mentioned in that section
5. Focus on the EDUCATIONAL CONTENT, not the delivery format

EXCLUSION RULES - DO NOT include as topics:
- Pure numbers (1, 2, 3, 4.5, etc.)
- Generic module types alone (SCORM, Lesson, Forum, Page, Book, Resource)
- Exercise markers without context (Exercise 1, Practice, Worksheet)
- Navigation elements (Next, Previous, Home, Back)
- Empty or placeholder content

ONLY extract topics that represent actual subject matter or educational content.

FORMAT YOUR RESPONSE AS JSON:
{
  "topics": [
    {
      "title": "The actual activity name or content title (NOT 'SCORM' or 'Lesson')",
      "description": "Main concepts covered in this section",
      "level": 1,
      "subtopics": [
        {
          "title": "Subsection or key concept",
          "description": "Brief description",
          "level": 2
        }
      ],
      "learning_objectives": [
        "What students learn from this section"
      ],
      "content_excerpt": "First 300 chars from this section"
    }
  ]
}

CRITICAL RULES:
- Use EXACT activity names from "=== TOPIC: [Name] ===" markers as topic titles
- NEVER use "SCORM", "Lesson", "Forum" etc. alone as topic titles - these are formats, not topics
- NEVER prefix titles with "SCORM:", "SECTION:", "COURSE:", "LESSON:" etc.
- If you see "Activity Name: XYZ" in the content, "XYZ" should be the topic title (without any prefix)
- Questions will be generated ABOUT the topic title, so it must be descriptive of the SUBJECT MATTER
- Return ONLY valid JSON, no additional text`

func buildTopicExtractionPrompt(r *TopicAnalysisRequest) string {
	content, cut := utils.TruncateRunes(r.Content, config.MaxTopicAnalysisChars)
	if cut {
		content += TruncationMarker
	}
	return topicExtractionHeader + content + topicExtractionInstructions
}

// =============================================================================
// QUESTION GENERATION
// =============================================================================

var questionTypeNames = map[string]string{
	"multichoice": "Multiple Choice",
	"truefalse":   "True/False",
	"shortanswer": "Short Answer (question MUST include a hint, answer MUST be ONE WORD only)",
	"essay":       "Essay (include model answer and grading rubric in generalfeedback)",
	"matching":    "Matching",
}

const difficultyGuide = `DIFFICULTY LEVELS:
EASY: Basic recall/definitions. MCQ distractors clearly wrong.
MEDIUM: Apply/analyze concepts. MCQ distractors plausible but distinguishable.
HARD: Critical thinking/scenarios. All MCQ options seem reasonable.

`

const questionOutputFormat = `

Return a JSON array with the following structure:
[{
  "questiontext": "...",
  "questiontype": "...",
  "difficulty": "...",
  "blooms_level": "...",
  "answers": [{"text": "...", "fraction": 1 or 0, "feedback": "..."}],
  "generalfeedback": "...",
  "ai_reasoning": "..."
}]

CRITICAL: Return ONLY valid JSON array, no explanatory text, no markdown code blocks, no additional content.`

func buildQuestionGenerationPrompt(r *QuestionGenerationRequest, rng Rand) string {
	content, cut := utils.TruncateRunes(r.TopicContent, config.MaxTopicContentChars)
	if cut {
		content += "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nContent:\n%s\n\n", r.TopicTitle, content)

	if r.IsRegeneration && r.OldQuestionText != "" {
		old, _ := utils.TruncateRunes(r.OldQuestionText, config.MaxOldQuestionChars)
		b.WriteString("**REGENERATION REQUEST**\n")
		b.WriteString("You MUST generate a COMPLETELY DIFFERENT question. DO NOT use the same wording, structure, or approach.\n")
		b.WriteString("OLD QUESTION TO REPLACE (DO NOT REGENERATE THIS):\n")
		fmt.Fprintf(&b, "\"%s\"\n\n", old)
		b.WriteString("Generate a NEW question that tests the SAME topic but uses:\n")
		b.WriteString("- Different wording and phrasing\n")
		b.WriteString("- Different angle or perspective\n")
		b.WriteString("- Different examples or scenarios\n\n")
	} else if len(r.ExistingQuestions) > 0 {
		b.WriteString("AVOID similar to:\n")
		for _, q := range r.ExistingQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	b.WriteString(difficultyGuide)

	// One independent draw per requested slot.
	for i, qtype := range r.QuestionTypes {
		name, ok := questionTypeNames[qtype]
		if !ok {
			name = questionTypeNames["multichoice"]
		}
		difficulty := r.Difficulty.Select(rng)
		blooms := r.Blooms.Select(rng)
		fmt.Fprintf(&b, "%d. %s (Difficulty: %s, Bloom's: %s)\n", i+1, name, difficulty, blooms)
	}

	b.WriteString(questionOutputFormat)

	if slices.Contains(r.QuestionTypes, "essay") {
		b.WriteString("\n\nNote for ESSAY questions: generalfeedback MUST include model answer (150+ words), key points, and grading criteria.")
	}
	return b.String()
}

// =============================================================================
// REFINEMENT AND DISTRACTORS
// =============================================================================

func buildQuestionRefinementPrompt(r *RefinementRequest) string {
	return fmt.Sprintf(`You are an expert educator. Regenerate the following question to make it better.

Topic: %[1]s
Question Type: %[2]s
Difficulty: %[3]s

EXISTING QUESTION:
%[4]s

INSTRUCTIONS:
- Generate a COMPLETELY DIFFERENT question on the same topic
- Use different wording, examples, and approach
- Maintain the same difficulty level and question type
- Ensure high quality and clarity

Return JSON format:
{
  "questiontext": "...",
  "questiontype": "%[2]s",
  "difficulty": "%[3]s",
  "blooms_level": "...",
  "answers": [
    {"text": "...", "fraction": 1, "feedback": "..."}
  ],
  "generalfeedback": "..."
}

Return ONLY valid JSON, no additional text.`, r.TopicTitle, r.QuestionType, r.Difficulty, r.ExistingQuestion)
}

func buildDistractorPrompt(r *DistractorRequest) string {
	return fmt.Sprintf(`Generate %[1]d plausible wrong answers (distractors) for this multiple choice question.

Question: %[2]s
Correct Answer: %[3]s
Difficulty: %[4]s

INSTRUCTIONS:
- Generate distractors that are PLAUSIBLE but INCORRECT
- For %[4]s difficulty:
  - EASY: Distractors should be clearly wrong to knowledgeable students
  - MEDIUM: Distractors should be somewhat plausible
  - HARD: Distractors should be very plausible and require careful thought
- Each distractor should represent a common misconception or error
- Provide reasoning for why each distractor is plausible

Return JSON format:
{
  "distractors": [
    {"text": "...", "reasoning": "Why this is plausible but wrong"},
    ...
  ]
}

Return ONLY valid JSON, no additional text.`, r.NumDistractors, r.QuestionText, r.CorrectAnswer, r.Difficulty)
}
