package prompts

import (
	"regexp"
	"strings"

	"github.com/hlai/ai-hub-gateway/internal/operations"
)

// Closing reminders for softened prompts, one per expected output shape.
const (
	SoftenedReminder      = "Please return only a valid JSON object."
	SoftenedArrayReminder = "Please return only a valid JSON array."
	SoftenedTextReminder  = "Please return only plain text."
)

var (
	strictJSONPattern = regexp.MustCompile(`(?i)strict json`)
	youMustPattern    = regexp.MustCompile(`(?i)\byou\s+must\b`)
	mustPattern       = regexp.MustCompile(`(?i)\bmust\b`)
)

// softenedEnding is the reminder and the fence-line restatement for a shape.
func softenedEnding(shape operations.Shape) (reminder, fenceLine string) {
	switch shape {
	case operations.ShapeArray:
		return SoftenedArrayReminder, "Return a valid JSON array without markdown code fences."
	case operations.ShapeText:
		return SoftenedTextReminder, "Return plain text without markdown code fences."
	}
	return SoftenedReminder, "Return a valid JSON object without markdown code fences."
}

// Soften softens a prompt that expects a JSON object.
func Soften(prompt string) string {
	return SoftenFor(prompt, operations.ShapeObject)
}

// SoftenFor rewrites imperative phrasing that tends to trip upstream content
// filters. Applied line by line:
//   - lines claiming priority over all other guidance are dropped
//   - the "do not wrap your response" line becomes a neutral restatement
//   - "strict json" becomes "valid JSON"
//   - "you must" becomes "please", any other "must" becomes "should"
//
// The reminder matching shape is appended once, so the closing line never
// contradicts the output the prompt asks for. SoftenFor is idempotent.
func SoftenFor(prompt string, shape operations.Shape) string {
	reminder, fenceLine := softenedEnding(shape)
	lines := strings.Split(strings.TrimSuffix(prompt, "\n"), "\n")
	out := make([]string, 0, len(lines)+1)

	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "override any default guidance") {
			continue
		}
		if strings.Contains(lower, "do not wrap your response") {
			out = append(out, fenceLine)
			continue
		}
		line = strictJSONPattern.ReplaceAllString(line, "valid JSON")
		line = youMustPattern.ReplaceAllStringFunc(line, func(m string) string {
			if m[0] == 'Y' {
				return "Please"
			}
			return "please"
		})
		line = mustPattern.ReplaceAllString(line, "should")
		out = append(out, line)
	}

	if len(out) == 0 || out[len(out)-1] != reminder {
		out = append(out, reminder)
	}
	return strings.Join(out, "\n")
}
