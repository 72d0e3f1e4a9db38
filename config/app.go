package config

import (
	"os"
	"strconv"
	"time"
)

// App holds the tunables of the interview engine, read once from the
// environment at startup and passed explicitly to the components that need
// them.
type App struct {
	// JWTSecret signs the app's own HS256 tokens.
	JWTSecret string

	// LLMProvider selects the model backend: "vertex" (default) or "qwen".
	LLMProvider string

	// LLMTimeout bounds every single model call. A hung call fails the
	// turn with a TIMEOUT error instead of stalling the session forever.
	LLMTimeout time.Duration

	// MaxFollowUps caps consecutive follow-up questions on one topic. Once
	// reached, the topic pointer advances regardless of what the model
	// recommends.
	MaxFollowUps int

	// FreeDailyLimit is the number of free interview sessions per day for
	// non-VIP users.
	FreeDailyLimit int

	// ReportWorkers is the size of the async report generation pool.
	ReportWorkers int

	// ResumeBucket is the GCS bucket for uploaded resume files; empty
	// disables uploads.
	ResumeBucket string

	// WeChat mini-program credentials for code2session login.
	WeChatAppID     string
	WeChatAppSecret string
}

func LoadApp() App {
	return App{
		JWTSecret:       os.Getenv("APP_JWT_SECRET"),
		LLMProvider:     getEnv("LLM_PROVIDER", "vertex"),
		LLMTimeout:      getDuration("LLM_TIMEOUT", 60*time.Second),
		MaxFollowUps:    getInt("MAX_FOLLOW_UPS", 3),
		FreeDailyLimit:  getInt("FREE_DAILY_LIMIT", 1),
		ReportWorkers:   getInt("REPORT_WORKERS", 2),
		ResumeBucket:    os.Getenv("RESUME_BUCKET"),
		WeChatAppID:     os.Getenv("WECHAT_APP_ID"),
		WeChatAppSecret: os.Getenv("WECHAT_APP_SECRET"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
