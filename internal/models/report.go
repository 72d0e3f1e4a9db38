package models

import (
	"time"

	"gorm.io/datatypes"
)

// InterviewReport is the post-session scorecard, created at most once per
// session. Scores are on a 0-100 scale; Suggestions holds 3-5 short items and
// Transcript a frozen copy of the session transcript at report time.
type InterviewReport struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string `gorm:"column:session_id;type:text;uniqueIndex" json:"session_id"`
	UserID    string `gorm:"column:user_id;type:text;index" json:"user_id,omitempty"`

	TotalScore     float64 `gorm:"column:total_score" json:"total_score"`
	TechnicalSkill float64 `gorm:"column:technical_skill" json:"technical_skill"`
	Communication  float64 `gorm:"column:communication" json:"communication"`
	LogicThinking  float64 `gorm:"column:logic_thinking" json:"logic_thinking"`
	Experience     float64 `gorm:"column:experience" json:"experience"`

	Suggestions datatypes.JSON `gorm:"column:suggestions;type:jsonb" json:"suggestions"`
	Transcript  datatypes.JSON `gorm:"column:transcript;type:jsonb" json:"transcript"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (InterviewReport) TableName() string { return "interview_reports" }
