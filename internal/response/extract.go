// Package response recovers and normalizes model output.
//
// DESIGN: Two stages, both total functions over arbitrary text:
//   - Extract:   text -> JSON object/array, or ErrUnparseable (never panics)
//   - Normalize: JSON -> fixed per-operation shape, defaults for absent fields
package response

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hlai/ai-hub-gateway/internal/operations"
)

// ErrUnparseable means no JSON object or array could be recovered.
var ErrUnparseable = errors.New("model output is not recoverable as JSON")

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z0-9_+-]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// StripFences trims whitespace and one leading/trailing markdown code fence.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Extract recovers a JSON object or array from model output. It tries the
// fence-stripped text whole, then the leftmost '{' to rightmost '}' span,
// then the leftmost '[' to rightmost ']' span.
func Extract(text string) (gjson.Result, error) {
	s := StripFences(text)
	if s == "" {
		return gjson.Result{}, ErrUnparseable
	}
	if v, ok := parseContainer(s); ok {
		return v, nil
	}
	for _, delims := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		if candidate, ok := span(s, delims[0], delims[1]); ok {
			if v, ok := parseContainer(candidate); ok {
				return v, nil
			}
		}
	}
	return gjson.Result{}, ErrUnparseable
}

// Conforms reports whether v has the shape the operation expects.
func Conforms(p operations.Profile, v gjson.Result) bool {
	switch p.Shape {
	case operations.ShapeArray:
		return v.IsArray()
	case operations.ShapeObject:
		if !v.IsObject() {
			return false
		}
		return p.RequiredKey == "" || v.Get(p.RequiredKey).Exists()
	}
	return false
}

func parseContainer(s string) (gjson.Result, bool) {
	if !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	v := gjson.Parse(s)
	if !v.IsObject() && !v.IsArray() {
		return gjson.Result{}, false
	}
	return v, true
}

func span(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
