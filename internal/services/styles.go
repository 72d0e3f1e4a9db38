package services

import "math/rand"

const (
	StyleFriendly     = "friendly"
	StyleProfessional = "professional"
	StyleChallenging  = "challenging"
	StyleMentor       = "mentor"
)

// StyleConfig is the persona embedded into every model prompt of a session.
type StyleConfig struct {
	Name             string
	Description      string
	Personality      string
	FeedbackExamples []string
}

var styleConfigs = map[string]StyleConfig{
	StyleFriendly: {
		Name:             "友好型",
		Description:      "温和友善，鼓励性强，适合缓解紧张",
		Personality:      "你是一位温和友善的面试官，善于鼓励候选人，营造轻松氛围。",
		FeedbackExamples: []string{"很好！", "不错的回答", "我明白了", "嗯，继续说", "很有意思"},
	},
	StyleProfessional: {
		Name:             "专业型",
		Description:      "严谨专业，注重深度，追求技术细节",
		Personality:      "你是一位严谨专业的技术专家，注重技术深度和细节，善于深入追问。",
		FeedbackExamples: []string{"好的", "明白", "继续", "嗯", "我了解了"},
	},
	StyleChallenging: {
		Name:             "挑战型",
		Description:      "有压力感，善于提出尖锐问题",
		Personality:      "你是一位经验丰富的高级面试官，善于通过挑战性问题考察候选人的应变能力和深度思考。",
		FeedbackExamples: []string{"有意思", "这个答案还不够深入", "继续", "然后呢", "还有吗"},
	},
	StyleMentor: {
		Name:             "导师型",
		Description:      "像导师一样引导，善于启发思考",
		Personality:      "你是一位像导师一样的面试官，善于通过引导和启发帮助候选人展现最佳状态。",
		FeedbackExamples: []string{"很好，我们换个角度想想", "不错的思路", "明白了", "有道理", "继续深入说说"},
	},
}

// roundStylePool biases the auto-selected persona per interview round so that
// repeated sessions for the same role feel like different examiners.
var roundStylePool = map[string][]string{
	"HR面":  {StyleFriendly, StyleMentor},
	"技术一面": {StyleFriendly, StyleProfessional},
	"技术二面": {StyleProfessional, StyleChallenging},
	"总监面":  {StyleProfessional, StyleChallenging, StyleMentor},
}

var defaultStylePool = []string{StyleFriendly, StyleProfessional}

func IsValidStyle(name string) bool {
	_, ok := styleConfigs[name]
	return ok
}

// StyleFor returns the persona config, defaulting to friendly for unknown
// names.
func StyleFor(name string) StyleConfig {
	if cfg, ok := styleConfigs[name]; ok {
		return cfg
	}
	return styleConfigs[StyleFriendly]
}

// AutoSelectStyle picks a persona from the round's pool. r may be nil, in
// which case the shared source is used.
func AutoSelectStyle(round string, r *rand.Rand) string {
	pool, ok := roundStylePool[round]
	if !ok {
		pool = defaultStylePool
	}
	if r != nil {
		return pool[r.Intn(len(pool))]
	}
	return pool[rand.Intn(len(pool))]
}

// StylePool exposes the candidate personas for a round.
func StylePool(round string) []string {
	if pool, ok := roundStylePool[round]; ok {
		return pool
	}
	return defaultStylePool
}
