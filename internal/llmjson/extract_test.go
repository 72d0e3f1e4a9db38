package llmjson

import (
	"math"
	"testing"
)

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "preamble and trailer",
			raw:  "好的，以下是评估结果：\n{\"score\": 8}\n希望对你有帮助。",
			want: `{"score": 8}`,
		},
		{
			name: "nested objects",
			raw:  `prefix {"plan": {"topics": ["a"]}} suffix`,
			want: `{"plan": {"topics": ["a"]}}`,
		},
		{
			name: "braces inside string values",
			raw:  `{"q": "what does {x} mean?"}`,
			want: `{"q": "what does {x} mean?"}`,
		},
		{
			name: "escaped quote inside string",
			raw:  `{"q": "say \"hi\" {now}"}`,
			want: `{"q": "say \"hi\" {now}"}`,
		},
		{
			name: "no object",
			raw:  "plain prose without json",
			want: "",
		},
		{
			name: "unbalanced",
			raw:  `{"a": 1`,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractObject(tc.raw); got != tc.want {
				t.Fatalf("ExtractObject(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestDecodeObjectWithFences(t *testing.T) {
	var out struct {
		Score float64 `json:"score"`
	}
	raw := "```json\n{\"score\": 9.5}\n```"
	if !DecodeObject(raw, &out) {
		t.Fatalf("expected fenced object to decode")
	}
	if out.Score != 9.5 {
		t.Fatalf("score = %v, want 9.5", out.Score)
	}
}

func TestDecodeObjectFailure(t *testing.T) {
	var out map[string]any
	if DecodeObject("no json here", &out) {
		t.Fatalf("expected decode to fail on prose")
	}
}

func TestFloatCoercion(t *testing.T) {
	if got := Float("7.5"); got != 7.5 {
		t.Fatalf("Float(\"7.5\") = %v", got)
	}
	if got := Float(float64(3)); got != 3 {
		t.Fatalf("Float(3) = %v", got)
	}
	if got := Float("not a number"); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
	if got := Float(nil); !math.IsNaN(got) {
		t.Fatalf("expected NaN for nil, got %v", got)
	}
}

func TestBoolCoercion(t *testing.T) {
	if !Bool("yes") || !Bool(true) || !Bool(float64(1)) {
		t.Fatalf("expected truthy coercions")
	}
	if Bool("no") || Bool(nil) {
		t.Fatalf("expected falsy coercions")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(12, 0, 10); got != 10 {
		t.Fatalf("Clamp(12) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Fatalf("Clamp(-1) = %v", got)
	}
	if got := Clamp(math.NaN(), 0, 10); got != 0 {
		t.Fatalf("Clamp(NaN) = %v", got)
	}
	if got := Clamp(7, 0, 10); got != 7 {
		t.Fatalf("Clamp(7) = %v", got)
	}
}
