package services

import (
	"math"

	"github.com/offerready/interviewai/internal/llmjson"
	"github.com/offerready/interviewai/internal/models"
)

// Decision is the model's verdict on one candidate answer: immediate
// conversational feedback, a 0-10 score with an improvement hint, the next
// action, and the question to ask next.
type Decision struct {
	Feedback       string
	Score          float64
	Hint           string
	Action         string // follow_up | next_topic
	NextQuestion   string
	TopicCompleted bool
}

// fallbackDecision keeps the interview moving when the model's response does
// not decode: the raw text is treated as the next question verbatim.
func fallbackDecision(raw string) Decision {
	return Decision{
		Feedback:       "好的",
		Score:          7.0,
		Action:         models.ActionNextTopic,
		NextQuestion:   raw,
		TopicCompleted: false,
	}
}

// ParseDecision decodes the model's free-text response into a Decision.
// The second return reports whether a structured object was found; on false
// the returned Decision is the fallback built from the raw text.
func ParseDecision(raw string) (Decision, bool) {
	var obj map[string]any
	if !llmjson.DecodeObject(raw, &obj) {
		return fallbackDecision(raw), false
	}

	d := Decision{
		Feedback:       llmjson.String(obj["feedback"]),
		Score:          llmjson.Float(obj["score"]),
		Hint:           llmjson.String(obj["hint"]),
		Action:         llmjson.String(obj["action"]),
		NextQuestion:   llmjson.String(obj["next_question"]),
		TopicCompleted: llmjson.Bool(obj["topic_completed"]),
	}

	if d.NextQuestion == "" {
		return fallbackDecision(raw), false
	}
	if d.Feedback == "" {
		d.Feedback = "好的"
	}
	if math.IsNaN(d.Score) {
		d.Score = 7.0
	}
	d.Score = llmjson.Clamp(d.Score, 0, 10)
	if d.Action != models.ActionFollowUp && d.Action != models.ActionNextTopic {
		d.Action = models.ActionNextTopic
	}
	return d, true
}
