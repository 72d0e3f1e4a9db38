package services

import (
	"fmt"
	"strings"
)

// systemPrompt composes the persona + behavioral rules sent as the system
// message on every dialogue turn of a session.
func systemPrompt(position, round, styleName, resume string) string {
	style := StyleFor(styleName)

	var b strings.Builder
	fmt.Fprintf(&b, "你是一位经验丰富的%s面试官，正在进行%s。\n\n", position, round)

	b.WriteString("【面试官风格】\n")
	b.WriteString(style.Personality)
	b.WriteString("\n\n")

	b.WriteString("【重要交互要求】\n")
	fmt.Fprintf(&b, "1. 在候选人回答后，你必须先给出简短的互动反馈（如：\"%s\"、\"%s\"等），让对话更自然流畅\n",
		style.FeedbackExamples[0], style.FeedbackExamples[1])
	b.WriteString("2. 互动反馈要简短（1-5个字），不要过长，模拟真实面试的节奏\n")
	b.WriteString("3. 反馈后再进行评分和提出下一个问题\n\n")

	b.WriteString("【面试要求】\n")
	b.WriteString("1. 提问要专业、有针对性，根据候选人的回答深入追问\n")
	b.WriteString("2. 问题难度要循序渐进，从基础到进阶\n")
	b.WriteString("3. 关注候选人的技术深度、项目经验、逻辑思维和沟通能力\n")
	b.WriteString("4. 每次只问一个问题，等待候选人回答后再继续\n")
	b.WriteString("5. 根据候选人的回答给出即时评分（0-10分）和改进提示\n\n")

	b.WriteString("【面试流程】\n")
	b.WriteString("- 开场：简单自我介绍和热身问题（1-2个）\n")
	b.WriteString("- 基础知识：考察核心技术栈（2-3个）\n")
	b.WriteString("- 深入探讨：项目经验和解决方案（2-3个）\n")
	b.WriteString("- 场景问题：实际问题解决能力（1-2个）\n")
	b.WriteString("- 收尾：候选人提问环节\n\n")
	b.WriteString("总计8-10个问题，控制在15-20分钟内。")

	if resume != "" {
		fmt.Fprintf(&b, "\n\n【候选人简历】\n%s\n\n请根据简历内容针对性提问。", resume)
	}

	return b.String()
}

// planPrompt asks the model for the topic plan as a single JSON object.
func planPrompt(position, round, resume string) string {
	resumeBlock := "无简历信息"
	if resume != "" {
		resumeBlock = "候选人简历：" + resume
	}

	return fmt.Sprintf(`作为%s的%s面试官，请为本次面试制定一个灵活的面试计划。

%s

请设计面试主题和大致方向，但保持灵活性以便根据候选人表现调整。

请按以下JSON格式输出面试计划：
{
    "topics": ["开场热身", "基础技能", "项目经验", "深入技术", "场景问题"],
    "topic_descriptions": {
        "开场热身": "简单介绍，缓解紧张",
        "基础技能": "考察核心技术栈基础知识",
        "项目经验": "了解实际项目经验和成果",
        "深入技术": "深入探讨技术细节和原理",
        "场景问题": "考察实际问题解决能力"
    },
    "estimated_duration": "15-25分钟"
}`, position, round, resumeBlock)
}

// openingPrompt requests the first warm-up question for the plan's first
// topic.
func openingPrompt(position, round, questionsGuide, topic, topicDesc string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "现在开始%s的%s。\n\n", position, round)
	if questionsGuide != "" {
		b.WriteString(questionsGuide)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "当前主题：%s - %s\n\n", topic, topicDesc)
	b.WriteString("请提出第一个开场问题，要求：\n")
	b.WriteString("1. 友好、专业的开场白\n")
	b.WriteString("2. 一个简单的热身问题\n")
	b.WriteString("3. 让候选人放松并进入状态\n\n")
	b.WriteString("直接输出问题，不要输出其他内容。")
	return b.String()
}

// decisionPrompt carries the plan-state metadata and the Decision JSON schema
// the model must answer with after each candidate answer.
func decisionPrompt(questionNumber int, topic, topicDesc string, completed, remaining []string) string {
	completedStr := "无"
	if len(completed) > 0 {
		completedStr = strings.Join(completed, ", ")
	}
	remainingStr := "无"
	if len(remaining) > 0 {
		remainingStr = strings.Join(remaining, ", ")
	}

	return fmt.Sprintf(`候选人已回答问题%d。

【面试计划状态】
- 当前主题：%s - %s
- 已完成主题：%s
- 剩余主题：%s

【重要】请严格按照你的面试官风格进行互动！

请执行以下任务：
1. 先给出简短的互动反馈（2-8个字，如："好的"、"明白了"、"不错"等），让对话更自然
2. 对候选人的回答进行评分（0-10分）
3. 给出改进提示（1-2句话，指出可以改进的地方）
4. **决定下一步动作**：
   - 如果候选人回答值得深入探讨，可以选择"延伸追问"（follow_up）
   - 如果候选人回答已经足够，选择"进入下一个问题"（next_topic）

【延伸追问的场景】（可选，不是必须）：
- 候选人提到了有趣的技术细节，值得深挖
- 回答不够具体，需要追问实现方式
- 发现了潜在的知识盲区，想要确认
- 候选人表现出色，想要挑战更高难度

【进入下一个问题的场景】：
- 当前主题已经考察充分
- 候选人回答清晰完整
- 需要推进面试进度

请按以下JSON格式输出：
{
    "feedback": "好的",
    "score": 8.5,
    "hint": "回答不错，但可以更深入探讨具体的实现细节",
    "action": "follow_up",
    "next_question": "问题内容",
    "topic_completed": false
}`, questionNumber, topic, topicDesc, completedStr, remainingStr)
}

func reportSystemPrompt(position string) string {
	return fmt.Sprintf(`你是一位专业的%s面试评估专家。
请根据以下面试对话记录，生成详细的面试评估报告。`, position)
}

// reportPrompt renders the labeled two-party transcript plus the scorecard
// schema.
func reportPrompt(transcriptText string) string {
	return fmt.Sprintf(`面试记录：

%s

请对候选人的表现进行全面评估，并按以下JSON格式输出：

{
    "total_score": 85.5,
    "technical_skill": 88.0,
    "communication": 82.0,
    "logic_thinking": 86.0,
    "experience": 85.0,
    "suggestions": [
        "建议1",
        "建议2",
        "建议3"
    ]
}

评分标准（0-100分）：
- technical_skill: 技术能力，专业知识深度和广度
- communication: 表达能力，逻辑清晰度和沟通效果
- logic_thinking: 逻辑思维，问题分析和解决能力
- experience: 项目经验，实践经验和应用能力
- total_score: 综合评分

suggestions要包含3-5条具体的改进建议。`, transcriptText)
}
