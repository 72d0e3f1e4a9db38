package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/offerready/interviewai/internal/api/handlers"
	"github.com/offerready/interviewai/internal/api/middleware"
)

type Deps struct {
	JWTSecret string

	User      *handlers.UserHandler
	Interview *handlers.InterviewHandler
	Position  *handlers.PositionHandler
	Resume    *handlers.ResumeHandler
	Speech    *handlers.SpeechHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public: login and catalog browsing
	r.POST("/auth/wx-login", d.User.WxLogin)
	r.POST("/auth/register", d.User.Register)
	r.GET("/positions", d.Position.Categories)
	r.GET("/positions/search", d.Position.Search)
	r.GET("/positions/:id", d.Position.Get)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.GET("/users/me", d.User.Me)

	auth.POST("/interview/start", d.Interview.Start)
	auth.POST("/interview/:session_id/answer", d.Interview.SubmitAnswer)
	auth.GET("/interview/:session_id", d.Interview.GetSession)
	auth.GET("/interview/history", d.Interview.History)
	auth.GET("/interview/:session_id/report", d.Interview.GetReport)
	auth.POST("/interview/:session_id/report", d.Interview.GenerateReport)

	if d.Resume != nil {
		auth.POST("/resume/upload", d.Resume.Upload)
		auth.GET("/resume/list", d.Resume.List)
		auth.GET("/resume/download-url", d.Resume.DownloadURL)
	}
	if d.Speech != nil {
		auth.POST("/speech/transcribe", d.Speech.Transcribe)
	}

	// WebSocket
	auth.GET("/ws/interview/:session_id", d.WS.InterviewWS)
}
