package core

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// MaxReasons caps the reasons list in a normalized result.
	MaxReasons = 8
	// RawExcerptLimit caps the upstream excerpt surfaced to callers on a
	// format error.
	RawExcerptLimit = 1000
)

// Truthy reports JSON-value truthiness: null, false, 0, NaN and the empty
// string are false; every other value, including objects and arrays, is
// true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// ClampConfidence coerces an arbitrary JSON value to a confidence in
// [0, 1]. Non-numeric, missing and non-finite input becomes 0.
func ClampConfidence(v any) float64 {
	n, ok := v.(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Min(1, math.Max(0, n))
}

// CoerceReasons coerces an arbitrary JSON value to at most MaxReasons
// short strings, order preserved. Anything that is not an array becomes
// an empty list; non-string elements are rendered rather than dropped.
func CoerceReasons(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	if len(items) > MaxReasons {
		items = items[:MaxReasons]
	}
	reasons := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			reasons = append(reasons, s)
			continue
		}
		reasons = append(reasons, fmt.Sprint(item))
	}
	return reasons
}

// NormalizeResult coerces one element of the upstream results array into a
// ClassificationResult. Every field has a documented default, so
// normalization always succeeds; a malformed element yields defaults
// rather than failing the batch.
func NormalizeResult(v any) ClassificationResult {
	obj, _ := v.(map[string]any)
	return ClassificationResult{
		ID:         obj["id"],
		IsPhishing: Truthy(obj["isPhishing"]),
		Confidence: ClampConfidence(obj["confidence"]),
		Reasons:    CoerceReasons(obj["reasons"]),
	}
}

// Excerpt returns at most limit bytes of text, trimmed back to a valid
// UTF-8 boundary.
func Excerpt(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	excerpt := text[:limit]
	for !utf8.ValidString(excerpt) && len(excerpt) > 0 {
		excerpt = excerpt[:len(excerpt)-1]
	}
	return excerpt
}
