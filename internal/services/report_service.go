package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/offerready/interviewai/internal/cache"
	"github.com/offerready/interviewai/internal/llmjson"
	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/providers/llm"
	mongorepo "github.com/offerready/interviewai/internal/repositories/mongo"
	"github.com/offerready/interviewai/internal/repositories/postgres"
	"github.com/offerready/interviewai/internal/utils"
)

const reportCacheTTL = 10 * time.Minute

var fallbackSuggestions = []string{"继续加强技术学习", "提升表达能力", "积累项目经验"}

// ReportService produces the post-session scorecard. Generation is
// idempotent: the first call for a session creates the report, every later
// call returns the stored one without touching the model again.
type ReportService interface {
	Generate(ctx context.Context, sessionID string) (*models.InterviewReport, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewReport, error)
}

type reportService struct {
	reports  postgres.ReportRepository
	sessions mongorepo.SessionRepository
	llm      llm.Provider
	cache    cache.Cache
	timeout  time.Duration
	log      *logrus.Entry
}

func NewReportService(
	reports postgres.ReportRepository,
	sessions mongorepo.SessionRepository,
	provider llm.Provider,
	c cache.Cache,
	timeout time.Duration,
	log *logrus.Entry,
) ReportService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &reportService{
		reports:  reports,
		sessions: sessions,
		llm:      provider,
		cache:    c,
		timeout:  timeout,
		log:      log,
	}
}

func reportCacheKey(sessionID string) string { return "interview:report:" + sessionID }

func (s *reportService) Generate(ctx context.Context, sessionID string) (*models.InterviewReport, error) {
	const op = "ReportService.Generate"

	if existing, err := s.reports.GetBySessionID(ctx, sessionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing report", err)
	}

	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	if !session.IsFinished {
		return nil, utils.E(utils.CodeConflict, op, "session is not finished yet", nil)
	}

	scores, suggestions := s.evaluate(ctx, session)

	transcriptJSON, err := json.Marshal(session.Transcript)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode transcript", err)
	}
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode suggestions", err)
	}

	report := &models.InterviewReport{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		UserID:         session.UserID,
		TotalScore:     scores.total,
		TechnicalSkill: scores.technical,
		Communication:  scores.communication,
		LogicThinking:  scores.logic,
		Experience:     scores.experience,
		Suggestions:    suggestionsJSON,
		Transcript:     transcriptJSON,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		// A concurrent generator may have won the unique-index race; the
		// stored report is the canonical one.
		if existing, getErr := s.reports.GetBySessionID(ctx, sessionID); getErr == nil {
			return existing, nil
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to store report", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, reportCacheKey(sessionID), report, reportCacheTTL); err != nil {
			s.log.WithField("session_id", sessionID).WithError(err).Warn("failed to cache report")
		}
	}

	s.log.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"total_score": report.TotalScore,
	}).Info("interview report generated")

	return report, nil
}

type scorecard struct {
	total, technical, communication, logic, experience float64
}

func fallbackScorecard() scorecard {
	return scorecard{total: 75, technical: 75, communication: 75, logic: 75, experience: 75}
}

// evaluate asks the model for the scorecard and falls back to neutral scores
// when the call or the decode fails. Report generation never fails on the
// model.
func (s *reportService) evaluate(ctx context.Context, session *models.InterviewSession) (scorecard, []string) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Chat(cctx, llm.Request{
		System:      reportSystemPrompt(session.Position),
		Messages:    []llm.Message{{Role: "user", Content: reportPrompt(renderTranscript(session.Transcript))}},
		Temperature: 0.5,
	})
	if err != nil {
		s.log.WithField("session_id", session.SessionID).WithError(err).
			Warn("report evaluation failed, using fallback scores")
		return fallbackScorecard(), fallbackSuggestions
	}

	var obj map[string]any
	if !llmjson.DecodeObject(raw, &obj) {
		s.log.WithField("session_id", session.SessionID).
			Warn("report response not decodable, using fallback scores")
		return fallbackScorecard(), fallbackSuggestions
	}

	sc := scorecard{
		total:         reportScore(obj["total_score"]),
		technical:     reportScore(obj["technical_skill"]),
		communication: reportScore(obj["communication"]),
		logic:         reportScore(obj["logic_thinking"]),
		experience:    reportScore(obj["experience"]),
	}

	suggestions := fallbackSuggestions
	if items, ok := obj["suggestions"].([]any); ok {
		var out []string
		for _, item := range items {
			if str := llmjson.String(item); str != "" {
				out = append(out, str)
			}
		}
		if len(out) > 0 {
			suggestions = out
		}
	}
	return sc, suggestions
}

func reportScore(v any) float64 {
	f := llmjson.Float(v)
	if math.IsNaN(f) {
		f = 75
	}
	return llmjson.Clamp(f, 0, 100)
}

// renderTranscript flattens the transcript into the labeled two-party text
// the evaluation prompt expects.
func renderTranscript(transcript []models.TurnRecord) string {
	var b strings.Builder
	for _, turn := range transcript {
		label := "候选人"
		if turn.Role == models.RoleInterviewer {
			label = "面试官"
		}
		fmt.Fprintf(&b, "%s：%s\n", label, turn.Content)
	}
	return b.String()
}

func (s *reportService) Get(ctx context.Context, sessionID string) (*models.InterviewReport, error) {
	const op = "ReportService.Get"

	if s.cache != nil {
		var cached models.InterviewReport
		if hit, err := s.cache.GetJSON(ctx, reportCacheKey(sessionID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	report, err := s.reports.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "report not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load report", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, reportCacheKey(sessionID), report, reportCacheTTL); err != nil {
			s.log.WithField("session_id", sessionID).WithError(err).Warn("failed to cache report")
		}
	}
	return report, nil
}
