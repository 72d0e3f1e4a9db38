package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPlanServiceDecodesModelResponse(t *testing.T) {
	model := &stubLLM{responses: []string{`根据岗位要求，计划如下：
{
  "topics": ["开场热身", "Go基础", "项目经验", "系统设计"],
  "topic_descriptions": {"开场热身": "自我介绍", "Go基础": "语言与并发"},
  "estimated_duration": "20-25分钟"
}`}}
	svc := NewPlanService(model, time.Second, testLogger())

	plan := svc.Generate(context.Background(), "后端开发", "技术一面", "")
	if len(plan.Topics) != 4 || plan.Topics[1] != "Go基础" {
		t.Fatalf("topics = %v", plan.Topics)
	}
	if plan.EstimatedDuration != "20-25分钟" {
		t.Fatalf("duration = %q", plan.EstimatedDuration)
	}
	if plan.CurrentTopicIndex != 0 || plan.FollowUpCount != 0 {
		t.Fatalf("plan state should start at zero: %+v", plan)
	}
}

func TestPlanServiceFallsBackOnModelError(t *testing.T) {
	svc := NewPlanService(&stubLLM{err: errors.New("backend down")}, time.Second, testLogger())

	plan := svc.Generate(context.Background(), "后端开发", "技术一面", "")
	want := []string{"开场热身", "核心技能", "项目经验", "综合评估"}
	if len(plan.Topics) != len(want) {
		t.Fatalf("topics = %v, want %v", plan.Topics, want)
	}
	for i, topic := range want {
		if plan.Topics[i] != topic {
			t.Fatalf("topics[%d] = %q, want %q", i, plan.Topics[i], topic)
		}
	}
}

func TestPlanServiceFallsBackOnGarbage(t *testing.T) {
	tests := []string{
		"抱歉，我无法生成计划。",
		`{"topics": []}`,
		"",
	}
	for _, raw := range tests {
		svc := NewPlanService(&stubLLM{responses: []string{raw}}, time.Second, testLogger())
		plan := svc.Generate(context.Background(), "后端开发", "技术一面", "")
		if len(plan.Topics) != 4 || plan.Topics[0] != "开场热身" {
			t.Fatalf("raw %q: expected default plan, got %v", raw, plan.Topics)
		}
	}
}
