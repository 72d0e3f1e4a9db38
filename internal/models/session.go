package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

const (
	ActionFollowUp  = "follow_up"
	ActionNextTopic = "next_topic"
)

// TurnRecord is one entry of the session transcript. Turns strictly alternate
// interviewer/candidate starting with interviewer; QuestionNumber on
// interviewer turns increases from 1. Score/Hint/Feedback are written onto a
// candidate turn after its evaluation.
type TurnRecord struct {
	Role           string    `bson:"role" json:"role"`
	Content        string    `bson:"content" json:"content"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	QuestionNumber int       `bson:"question_number" json:"question_number"`

	Score    *float64 `bson:"score,omitempty" json:"score,omitempty"`
	Hint     string   `bson:"hint,omitempty" json:"hint,omitempty"`
	Feedback string   `bson:"feedback,omitempty" json:"feedback,omitempty"`

	Topic  string `bson:"topic,omitempty" json:"topic,omitempty"`
	Action string `bson:"action,omitempty" json:"action,omitempty"` // follow_up | next_topic
	Style  string `bson:"style,omitempty" json:"style,omitempty"`   // recorded on the opening turn
}

// InterviewPlan is the ordered topic plan generated once per session.
// CurrentTopicIndex only ever increases; CompletedTopics is a subset of the
// topics already passed by the index pointer.
type InterviewPlan struct {
	Topics            []string          `bson:"topics" json:"topics"`
	TopicDescriptions map[string]string `bson:"topic_descriptions,omitempty" json:"topic_descriptions,omitempty"`
	EstimatedDuration string            `bson:"estimated_duration,omitempty" json:"estimated_duration,omitempty"`

	CurrentTopicIndex int      `bson:"current_topic_index" json:"current_topic_index"`
	CompletedTopics   []string `bson:"completed_topics" json:"completed_topics"`

	// FollowUpCount counts consecutive follow-ups on the current topic and
	// resets when the pointer advances.
	FollowUpCount int `bson:"follow_up_count" json:"follow_up_count"`
}

func (p *InterviewPlan) AllTopicsCompleted() bool {
	return p.CurrentTopicIndex >= len(p.Topics)
}

// CurrentTopic returns the topic under the index pointer, or the last topic
// when the plan is exhausted.
func (p *InterviewPlan) CurrentTopic() string {
	if len(p.Topics) == 0 {
		return ""
	}
	if p.CurrentTopicIndex >= len(p.Topics) {
		return p.Topics[len(p.Topics)-1]
	}
	return p.Topics[p.CurrentTopicIndex]
}

func (p *InterviewPlan) RemainingTopics() []string {
	if p.CurrentTopicIndex+1 >= len(p.Topics) {
		return nil
	}
	return p.Topics[p.CurrentTopicIndex+1:]
}

// InterviewSession is the session document stored in MongoDB. It is created by
// InterviewService.Start, mutated only by InterviewService.SubmitAnswer, and
// becomes immutable once IsFinished is set.
type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`

	Position         string `bson:"position" json:"position"`
	Round            string `bson:"round" json:"round"`
	Resume           string `bson:"resume,omitempty" json:"resume,omitempty"`
	InterviewerStyle string `bson:"interviewer_style" json:"interviewer_style"` // friendly|professional|challenging|mentor

	Plan       InterviewPlan `bson:"plan" json:"plan"`
	Transcript []TurnRecord  `bson:"transcript" json:"transcript"`

	CurrentQuestion string `bson:"current_question,omitempty" json:"current_question,omitempty"`
	QuestionCount   int    `bson:"question_count" json:"question_count"`

	IsFinished bool       `bson:"is_finished" json:"is_finished"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	FinishedAt *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
}
