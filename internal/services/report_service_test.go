package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/utils"
)

type fakeReportRepo struct {
	bySession map[string]*models.InterviewReport
	insertErr error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{bySession: make(map[string]*models.InterviewReport)}
}

func (r *fakeReportRepo) Insert(_ context.Context, row *models.InterviewReport) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, ok := r.bySession[row.SessionID]; ok {
		return utils.E(utils.CodeConflict, "fake", "duplicate", nil)
	}
	cp := *row
	r.bySession[row.SessionID] = &cp
	return nil
}

func (r *fakeReportRepo) GetBySessionID(_ context.Context, sessionID string) (*models.InterviewReport, error) {
	row, ok := r.bySession[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *fakeReportRepo) ExistsBySessionID(_ context.Context, sessionID string) (bool, error) {
	_, ok := r.bySession[sessionID]
	return ok, nil
}

func seedFinishedSession(repo *fakeSessionRepo) *models.InterviewSession {
	now := time.Now().UTC()
	score := 8.0
	s := &models.InterviewSession{
		SessionID:        "sess-1",
		UserID:           "user-1",
		Position:         "后端开发",
		Round:            "技术一面",
		InterviewerStyle: StyleProfessional,
		Plan:             twoTopicPlan(),
		Transcript: []models.TurnRecord{
			{Role: models.RoleInterviewer, Content: "请自我介绍。", QuestionNumber: 1},
			{Role: models.RoleCandidate, Content: "我是张三。", QuestionNumber: 1, Score: &score},
		},
		QuestionCount: 1,
		IsFinished:    true,
		CreatedAt:     now,
		FinishedAt:    &now,
	}
	repo.sessions[s.SessionID] = s
	return s
}

const reportJSON = `{
  "total_score": 85.5,
  "technical_skill": 88.0,
  "communication": 120,
  "logic_thinking": "86",
  "experience": 85.0,
  "suggestions": ["多做系统设计练习", "回答时先给结论"]
}`

func TestReportGenerateParsesScores(t *testing.T) {
	sessions := newFakeSessionRepo()
	seedFinishedSession(sessions)
	reports := newFakeReportRepo()
	model := &stubLLM{responses: []string{reportJSON}}

	svc := NewReportService(reports, sessions, model, nil, time.Second, testLogger())

	report, err := svc.Generate(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.TotalScore != 85.5 {
		t.Fatalf("TotalScore = %v", report.TotalScore)
	}
	if report.Communication != 100 {
		t.Fatalf("Communication = %v, want clamp to 100", report.Communication)
	}
	if report.LogicThinking != 86 {
		t.Fatalf("LogicThinking = %v, want string coerced to 86", report.LogicThinking)
	}
	if report.UserID != "user-1" {
		t.Fatalf("UserID = %q", report.UserID)
	}

	var suggestions []string
	if err := json.Unmarshal(report.Suggestions, &suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) != 2 || suggestions[0] != "多做系统设计练习" {
		t.Fatalf("suggestions = %v", suggestions)
	}

	var transcript []models.TurnRecord
	if err := json.Unmarshal(report.Transcript, &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
}

func TestReportGenerateIsIdempotent(t *testing.T) {
	sessions := newFakeSessionRepo()
	seedFinishedSession(sessions)
	reports := newFakeReportRepo()
	model := &stubLLM{responses: []string{reportJSON}}

	svc := NewReportService(reports, sessions, model, nil, time.Second, testLogger())

	first, err := svc.Generate(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("report ids differ: %q vs %q", first.ID, second.ID)
	}
	if model.calls != 1 {
		t.Fatalf("model calls = %d, want 1", model.calls)
	}
}

func TestReportGenerateFallbackScores(t *testing.T) {
	sessions := newFakeSessionRepo()
	seedFinishedSession(sessions)
	reports := newFakeReportRepo()
	model := &stubLLM{responses: []string{"抱歉，我无法评估。"}}

	svc := NewReportService(reports, sessions, model, nil, time.Second, testLogger())

	report, err := svc.Generate(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.TotalScore != 75 || report.TechnicalSkill != 75 {
		t.Fatalf("fallback scores = %v/%v, want 75", report.TotalScore, report.TechnicalSkill)
	}

	var suggestions []string
	if err := json.Unmarshal(report.Suggestions, &suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("fallback suggestions = %v", suggestions)
	}
}

func TestReportGenerateUnfinishedSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	s := seedFinishedSession(sessions)
	s.IsFinished = false

	svc := NewReportService(newFakeReportRepo(), sessions, &stubLLM{}, nil, time.Second, testLogger())

	_, err := svc.Generate(context.Background(), "sess-1")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestReportGenerateUnknownSession(t *testing.T) {
	svc := NewReportService(newFakeReportRepo(), newFakeSessionRepo(), &stubLLM{}, nil, time.Second, testLogger())

	_, err := svc.Generate(context.Background(), "missing")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestReportGetNotFound(t *testing.T) {
	svc := NewReportService(newFakeReportRepo(), newFakeSessionRepo(), &stubLLM{}, nil, time.Second, testLogger())

	_, err := svc.Get(context.Background(), "missing")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}
