package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/offerready/interviewai/internal/cache"
	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/providers/llm"
	mongorepo "github.com/offerready/interviewai/internal/repositories/mongo"
	"github.com/offerready/interviewai/internal/utils"
)

const (
	defaultOpeningQuestion = "您好，欢迎参加本次面试。请先做一个简单的自我介绍吧。"

	finishRequestedHint = "感谢您参加本次面试，报告已生成"
	planExhaustedHint   = "面试已结束，感谢您的参与！"
)

// ReportQueue hands finished sessions to the async report pipeline.
type ReportQueue interface {
	Enqueue(ctx context.Context, sessionID string) error
}

type StartParams struct {
	UserID   string
	Position string
	Round    string
	Resume   string
	Style    string // empty means auto-select per round
}

// AnswerResult is what the candidate sees after submitting an answer: the
// interviewer's next message (feedback + question), the instant score and
// improvement hint for the answer just given, or the closing hint once the
// session ends.
type AnswerResult struct {
	Question       string   `json:"question,omitempty"`
	InstantScore   *float64 `json:"instant_score,omitempty"`
	Hint           string   `json:"hint,omitempty"`
	QuestionNumber int      `json:"question_number"`
	IsFinished     bool     `json:"is_finished"`
}

// InterviewService drives the dialogue: it owns session creation, the
// answer/evaluate/ask cycle, and the hand-off to report generation when a
// session ends.
type InterviewService interface {
	Start(ctx context.Context, p StartParams) (*models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string, finishRequested bool) (*AnswerResult, error)
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	History(ctx context.Context, userID string, limit int) ([]models.InterviewSession, error)
}

type interviewService struct {
	sessions mongorepo.SessionRepository
	plans    PlanService
	llm      llm.Provider
	locker   cache.SessionLocker

	reports ReportService // inline fallback when queue is nil
	queue   ReportQueue

	keywords     KeywordSource // optional, enriches the opening prompt
	maxFollowUps int
	timeout      time.Duration
	rng          *rand.Rand // nil outside tests
	log          *logrus.Entry
}

// KeywordSource supplies position-specific keywords for prompt enrichment.
type KeywordSource interface {
	Keywords(position string) []string
}

func NewInterviewService(
	sessions mongorepo.SessionRepository,
	plans PlanService,
	provider llm.Provider,
	locker cache.SessionLocker,
	reports ReportService,
	queue ReportQueue,
	keywords KeywordSource,
	maxFollowUps int,
	timeout time.Duration,
	log *logrus.Entry,
) InterviewService {
	if maxFollowUps <= 0 {
		maxFollowUps = 3
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &interviewService{
		sessions:     sessions,
		plans:        plans,
		llm:          provider,
		locker:       locker,
		reports:      reports,
		queue:        queue,
		keywords:     keywords,
		maxFollowUps: maxFollowUps,
		timeout:      timeout,
		log:          log,
	}
}

func (s *interviewService) Start(ctx context.Context, p StartParams) (*models.InterviewSession, error) {
	const op = "InterviewService.Start"

	if strings.TrimSpace(p.Position) == "" || strings.TrimSpace(p.Round) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position and round are required", nil)
	}
	style := p.Style
	if style == "" {
		style = AutoSelectStyle(p.Round, s.rng)
	} else if !IsValidStyle(style) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown interviewer style: "+style, nil)
	}

	plan := s.plans.Generate(ctx, p.Position, p.Round, p.Resume)

	opening := s.openingQuestion(ctx, p, style, plan)

	now := time.Now().UTC()
	session := &models.InterviewSession{
		SessionID:        uuid.NewString(),
		UserID:           p.UserID,
		Position:         p.Position,
		Round:            p.Round,
		Resume:           p.Resume,
		InterviewerStyle: style,
		Plan:             *plan,
		Transcript: []models.TurnRecord{{
			Role:           models.RoleInterviewer,
			Content:        opening,
			Timestamp:      now,
			QuestionNumber: 1,
			Topic:          plan.CurrentTopic(),
			Style:          style,
		}},
		CurrentQuestion: opening,
		QuestionCount:   1,
		CreatedAt:       now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.SessionID,
		"position":   p.Position,
		"round":      p.Round,
		"style":      style,
	}).Info("interview session started")

	return session, nil
}

func (s *interviewService) openingQuestion(ctx context.Context, p StartParams, style string, plan *models.InterviewPlan) string {
	guide := ""
	if s.keywords != nil {
		if kws := s.keywords.Keywords(p.Position); len(kws) > 0 {
			guide = fmt.Sprintf("重点考察：%s（针对%s岗位）", strings.Join(kws, "、"), p.Position)
		}
	}

	topic := plan.CurrentTopic()
	raw, err := s.callLLM(ctx, llm.Request{
		System: systemPrompt(p.Position, p.Round, style, p.Resume),
		Messages: []llm.Message{{
			Role:    "user",
			Content: openingPrompt(p.Position, p.Round, guide, topic, plan.TopicDescriptions[topic]),
		}},
		Temperature: 0.8,
	})
	if err != nil {
		s.log.WithError(err).Warn("opening question generation failed, using default")
		return defaultOpeningQuestion
	}
	if q := strings.TrimSpace(raw); q != "" {
		return q
	}
	return defaultOpeningQuestion
}

func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID, answer string, finishRequested bool) (*AnswerResult, error) {
	const op = "InterviewService.SubmitAnswer"

	if strings.TrimSpace(answer) == "" && !finishRequested {
		return nil, utils.E(utils.CodeInvalidArgument, op, "answer is required", nil)
	}

	release, ok, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to acquire session lock", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeConflict, op, "session is busy", nil)
	}
	defer release()

	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	if session.IsFinished {
		return nil, utils.E(utils.CodeConflict, op, "session already finished", nil)
	}

	session.Transcript = append(session.Transcript, models.TurnRecord{
		Role:           models.RoleCandidate,
		Content:        answer,
		Timestamp:      time.Now().UTC(),
		QuestionNumber: session.QuestionCount,
	})

	if finishRequested {
		return s.finish(ctx, op, session, finishRequestedHint)
	}
	if session.Plan.AllTopicsCompleted() {
		return s.finish(ctx, op, session, planExhaustedHint)
	}

	raw, err := s.callLLM(ctx, s.decisionRequest(session))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, utils.E(utils.CodeTimeout, op, "model call timed out", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "model call failed", err)
	}

	decision, parsed := ParseDecision(raw)
	if !parsed {
		s.log.WithField("session_id", sessionID).Warn("decision response not decodable, using fallback")
	}

	// Annotate the candidate turn just appended.
	last := &session.Transcript[len(session.Transcript)-1]
	score := decision.Score
	last.Score = &score
	last.Hint = decision.Hint
	last.Feedback = decision.Feedback

	if decision.Action == models.ActionFollowUp {
		if session.Plan.FollowUpCount >= s.maxFollowUps {
			decision.Action = models.ActionNextTopic
			decision.TopicCompleted = true
		} else {
			session.Plan.FollowUpCount++
		}
	}
	// A topic finishes only when the model both declares it completed and
	// moves on. next_topic alone (the fallback included) keeps the pointer
	// so a misbehaving model cannot burn through the plan.
	if decision.Action == models.ActionNextTopic && decision.TopicCompleted {
		advanceTopic(&session.Plan)
	}

	message := decision.NextQuestion
	if decision.Feedback != "" {
		message = decision.Feedback + "\n\n" + decision.NextQuestion
	}

	session.QuestionCount++
	session.CurrentQuestion = message
	session.Transcript = append(session.Transcript, models.TurnRecord{
		Role:           models.RoleInterviewer,
		Content:        message,
		Timestamp:      time.Now().UTC(),
		QuestionNumber: session.QuestionCount,
		Feedback:       decision.Feedback,
		Topic:          session.Plan.CurrentTopic(),
		Action:         decision.Action,
	})

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}

	instant := decision.Score
	return &AnswerResult{
		Question:       message,
		InstantScore:   &instant,
		Hint:           decision.Hint,
		QuestionNumber: session.QuestionCount,
		IsFinished:     false,
	}, nil
}

// finish closes the session without another model call and hands it to the
// report pipeline. The closing hint tells the candidate why the session
// ended.
func (s *interviewService) finish(ctx context.Context, op string, session *models.InterviewSession, hint string) (*AnswerResult, error) {
	now := time.Now().UTC()
	session.IsFinished = true
	session.FinishedAt = &now
	session.CurrentQuestion = ""

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist session", err)
	}

	s.triggerReport(ctx, session)

	return &AnswerResult{
		Hint:           hint,
		QuestionNumber: session.QuestionCount,
		IsFinished:     true,
	}, nil
}

func (s *interviewService) triggerReport(ctx context.Context, session *models.InterviewSession) {
	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, session.SessionID); err != nil {
			s.log.WithField("session_id", session.SessionID).WithError(err).
				Error("failed to enqueue report job")
		}
		return
	}
	if s.reports != nil {
		if _, err := s.reports.Generate(ctx, session.SessionID); err != nil {
			s.log.WithField("session_id", session.SessionID).WithError(err).
				Error("inline report generation failed")
		}
	}
}

// decisionRequest assembles the model request: persona system prompt, the
// last three Q/A exchanges as chat history, and the decision instruction as
// the final user message.
func (s *interviewService) decisionRequest(session *models.InterviewSession) llm.Request {
	const historyWindow = 6

	transcript := session.Transcript
	start := len(transcript) - historyWindow
	if start < 0 {
		start = 0
	}

	msgs := make([]llm.Message, 0, historyWindow+1)
	for _, turn := range transcript[start:] {
		role := "user"
		if turn.Role == models.RoleInterviewer {
			role = "assistant"
		}
		msgs = append(msgs, llm.Message{Role: role, Content: turn.Content})
	}

	plan := &session.Plan
	topic := plan.CurrentTopic()
	msgs = append(msgs, llm.Message{
		Role: "user",
		Content: decisionPrompt(
			session.QuestionCount,
			topic,
			plan.TopicDescriptions[topic],
			plan.CompletedTopics,
			plan.RemainingTopics(),
		),
	})

	return llm.Request{
		System:      systemPrompt(session.Position, session.Round, session.InterviewerStyle, session.Resume),
		Messages:    coalesceRoles(msgs),
		Temperature: 0.7,
	}
}

// coalesceRoles merges adjacent same-role messages. Gemini requires strict
// user/model alternation, and the decision instruction lands right after the
// candidate's answer.
func coalesceRoles(msgs []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *interviewService) callLLM(ctx context.Context, req llm.Request) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.llm.Chat(cctx, req)
}

// advanceTopic moves the plan pointer forward and records the finished topic.
// The completed list insert is idempotent so a forced completion cannot
// duplicate entries.
func advanceTopic(plan *models.InterviewPlan) {
	topic := plan.CurrentTopic()
	found := false
	for _, t := range plan.CompletedTopics {
		if t == topic {
			found = true
			break
		}
	}
	if !found && topic != "" {
		plan.CompletedTopics = append(plan.CompletedTopics, topic)
	}
	plan.CurrentTopicIndex++
	plan.FollowUpCount = 0
}

func (s *interviewService) GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.GetSession"

	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return session, nil
}

func (s *interviewService) History(ctx context.Context, userID string, limit int) ([]models.InterviewSession, error) {
	const op = "InterviewService.History"

	sessions, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return sessions, nil
}
