package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/offerready/interviewai/internal/llmjson"
	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/providers/llm"
)

// PlanService produces the per-session topic plan. Generation is best-effort:
// any model or decode failure yields the deterministic default plan, never an
// error, so session creation cannot fail on a flaky model.
type PlanService interface {
	Generate(ctx context.Context, position, round, resume string) *models.InterviewPlan
}

type planService struct {
	llm     llm.Provider
	timeout time.Duration
	log     *logrus.Entry
}

func NewPlanService(provider llm.Provider, timeout time.Duration, log *logrus.Entry) PlanService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &planService{llm: provider, timeout: timeout, log: log}
}

func defaultPlan() *models.InterviewPlan {
	return &models.InterviewPlan{
		Topics: []string{"开场热身", "核心技能", "项目经验", "综合评估"},
		TopicDescriptions: map[string]string{
			"开场热身": "自我介绍和基本情况",
			"核心技能": "考察岗位核心技术能力",
			"项目经验": "了解实际项目经验",
			"综合评估": "综合素质和发展潜力",
		},
		EstimatedDuration: "15-20分钟",
	}
}

func (s *planService) Generate(ctx context.Context, position, round, resume string) *models.InterviewPlan {
	const op = "PlanService.Generate"

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Chat(cctx, llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: planPrompt(position, round, resume)}},
		Temperature: 0.7,
	})
	if err != nil {
		s.log.WithField("op", op).WithError(err).Warn("plan generation failed, using default plan")
		return defaultPlan()
	}

	var decoded struct {
		Topics            []string          `json:"topics"`
		TopicDescriptions map[string]string `json:"topic_descriptions"`
		EstimatedDuration string            `json:"estimated_duration"`
	}
	if !llmjson.DecodeObject(raw, &decoded) || len(decoded.Topics) == 0 {
		s.log.WithField("op", op).Warn("plan response not decodable, using default plan")
		return defaultPlan()
	}

	plan := &models.InterviewPlan{
		Topics:            decoded.Topics,
		TopicDescriptions: decoded.TopicDescriptions,
		EstimatedDuration: decoded.EstimatedDuration,
	}
	if plan.TopicDescriptions == nil {
		plan.TopicDescriptions = map[string]string{}
	}
	if plan.EstimatedDuration == "" {
		plan.EstimatedDuration = "15-20分钟"
	}
	return plan
}
