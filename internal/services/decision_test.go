package services

import (
	"testing"

	"github.com/offerready/interviewai/internal/models"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		parsed bool
		want   Decision
	}{
		{
			name:   "clean json",
			raw:    `{"feedback":"很好","score":8.5,"hint":"可以更具体","action":"follow_up","next_question":"能展开讲讲吗？","topic_completed":false}`,
			parsed: true,
			want: Decision{
				Feedback:     "很好",
				Score:        8.5,
				Hint:         "可以更具体",
				Action:       models.ActionFollowUp,
				NextQuestion: "能展开讲讲吗？",
			},
		},
		{
			name:   "json with preamble and fences",
			raw:    "好的，以下是评估结果：\n```json\n{\"feedback\":\"不错\",\"score\":7,\"action\":\"next_topic\",\"next_question\":\"下一个问题\"}\n```",
			parsed: true,
			want: Decision{
				Feedback:     "不错",
				Score:        7,
				Action:       models.ActionNextTopic,
				NextQuestion: "下一个问题",
			},
		},
		{
			name:   "score as string is coerced",
			raw:    `{"feedback":"好","score":"9","action":"next_topic","next_question":"问题"}`,
			parsed: true,
			want: Decision{
				Feedback:     "好",
				Score:        9,
				Action:       models.ActionNextTopic,
				NextQuestion: "问题",
			},
		},
		{
			name:   "score above ten is clamped",
			raw:    `{"feedback":"好","score":15,"action":"next_topic","next_question":"问题"}`,
			parsed: true,
			want: Decision{
				Feedback:     "好",
				Score:        10,
				Action:       models.ActionNextTopic,
				NextQuestion: "问题",
			},
		},
		{
			name:   "unknown action defaults to next_topic",
			raw:    `{"feedback":"好","score":6,"action":"deep_dive","next_question":"问题"}`,
			parsed: true,
			want: Decision{
				Feedback:     "好",
				Score:        6,
				Action:       models.ActionNextTopic,
				NextQuestion: "问题",
			},
		},
		{
			name:   "missing feedback and score get defaults",
			raw:    `{"action":"follow_up","next_question":"问题"}`,
			parsed: true,
			want: Decision{
				Feedback:     "好的",
				Score:        7.0,
				Action:       models.ActionFollowUp,
				NextQuestion: "问题",
			},
		},
		{
			name:   "plain prose falls back to raw as question",
			raw:    "你对这个项目的架构是怎么考虑的？",
			parsed: false,
			want: Decision{
				Feedback:     "好的",
				Score:        7.0,
				Action:       models.ActionNextTopic,
				NextQuestion: "你对这个项目的架构是怎么考虑的？",
			},
		},
		{
			name:   "object without next_question falls back",
			raw:    `{"feedback":"好","score":8}`,
			parsed: false,
			want: Decision{
				Feedback:     "好的",
				Score:        7.0,
				Action:       models.ActionNextTopic,
				NextQuestion: `{"feedback":"好","score":8}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := ParseDecision(tt.raw)
			if parsed != tt.parsed {
				t.Fatalf("parsed = %v, want %v", parsed, tt.parsed)
			}
			if got != tt.want {
				t.Fatalf("decision = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseDecisionTopicCompleted(t *testing.T) {
	got, parsed := ParseDecision(`{"feedback":"好","score":8,"action":"next_topic","next_question":"问题","topic_completed":true}`)
	if !parsed {
		t.Fatal("expected parsed decision")
	}
	if !got.TopicCompleted {
		t.Fatal("expected TopicCompleted to be true")
	}
}
