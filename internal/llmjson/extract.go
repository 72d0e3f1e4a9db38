// Package llmjson pulls structured data out of LLM free text. Model responses
// are not guaranteed to be pure JSON; they often wrap a single object in
// conversational preamble or markdown fences. Callers get best-effort decoding
// and are expected to supply their own fallback values.
package llmjson

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ExtractObject returns the first balanced {...} substring of raw, honoring
// string literals and escapes so braces inside values do not break matching.
// Returns "" when raw contains no complete object.
func ExtractObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	return ""
}

// DecodeObject extracts the first object from raw and unmarshals it into dst.
func DecodeObject(raw string, dst any) bool {
	obj := ExtractObject(stripFences(raw))
	if obj == "" {
		return false
	}
	return json.Unmarshal([]byte(obj), dst) == nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// Float coerces a decoded JSON value into a float64. Models occasionally emit
// scores as strings or integers; NaN means "absent or unusable".
func Float(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// String coerces a decoded JSON value into a trimmed string.
func String(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		return ""
	}
}

// Bool coerces a decoded JSON value into a bool, accepting "true"/"yes" strings.
func Bool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
