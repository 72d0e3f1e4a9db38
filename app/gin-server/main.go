package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/offerready/interviewai/config"
	"github.com/offerready/interviewai/internal/api/handlers"
	"github.com/offerready/interviewai/internal/api/middleware"
	"github.com/offerready/interviewai/internal/api/routes"
	"github.com/offerready/interviewai/internal/cache"
	"github.com/offerready/interviewai/internal/logger"
	"github.com/offerready/interviewai/internal/models"
	"github.com/offerready/interviewai/internal/providers/llm"
	"github.com/offerready/interviewai/internal/providers/stt"
	"github.com/offerready/interviewai/internal/providers/wechat"
	mongorepo "github.com/offerready/interviewai/internal/repositories/mongo"
	pgrepo "github.com/offerready/interviewai/internal/repositories/postgres"
	"github.com/offerready/interviewai/internal/services"
	"github.com/offerready/interviewai/internal/storage"
	"github.com/offerready/interviewai/internal/workers"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	l := logger.New()
	cfg := config.LoadApp()

	// Stores
	mongoClient, err := config.NewMongo()
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := config.MongoDatabase(mongoClient)
	if err := config.EnsureMongoIndexes(mongoDB); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	pg, err := config.NewPostgres()
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := pg.AutoMigrate(&models.User{}, &models.InterviewReport{}, &models.ResumeFile{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	rdb, err := config.NewRedis()
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	defer rdb.Close()
	l.Info("Redis connected")

	// LLM backend
	provider, err := newLLMProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("LLM provider init error: %v", err)
	}
	defer provider.Close()

	// Repositories
	sessionRepo := mongorepo.NewSessionRepo(mongoDB)
	reportRepo := pgrepo.NewReportRepo(pg)
	userRepo := pgrepo.NewUserRepo(pg)
	resumeRepo := pgrepo.NewResumeFileRepo(pg)

	// Services
	positions, err := services.NewPositionService()
	if err != nil {
		log.Fatalf("position catalog error: %v", err)
	}

	redisCache := cache.NewRedisCache(rdb)
	locker := cache.NewRedisSessionLock(rdb, 0)

	plans := services.NewPlanService(provider, cfg.LLMTimeout, logger.Component(l, "plan"))
	reports := services.NewReportService(reportRepo, sessionRepo, provider, redisCache, cfg.LLMTimeout, logger.Component(l, "report"))

	queue := workers.NewReportQueue(rdb)
	interviews := services.NewInterviewService(
		sessionRepo, plans, provider, locker, reports, queue, positions,
		cfg.MaxFollowUps, cfg.LLMTimeout, logger.Component(l, "interview"),
	)

	var wxClient services.OpenIDExchanger
	if cfg.WeChatAppID != "" {
		wxClient = wechat.NewClient(cfg.WeChatAppID, cfg.WeChatAppSecret)
	}
	users := services.NewUserService(userRepo, wxClient, cfg.FreeDailyLimit, logger.Component(l, "user"))

	// Report worker pool
	pool := &workers.ReportWorkerPool{
		Redis:      rdb,
		Reports:    reports,
		NumWorkers: cfg.ReportWorkers,
		Logger:     l,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("report worker error: %v", err)
	}

	// Handlers
	deps := routes.Deps{
		JWTSecret: cfg.JWTSecret,
		User:      handlers.NewUserHandler(users, cfg.JWTSecret),
		Interview: handlers.NewInterviewHandler(interviews, reports, users),
		Position:  handlers.NewPositionHandler(positions),
		WS:        handlers.NewWSHandler(interviews),
	}

	if cfg.ResumeBucket != "" {
		uploader, err := storage.NewGCSUploader(ctx, cfg.ResumeBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer uploader.Close()
		resumes := services.NewResumeService(resumeRepo, uploader, uploader, logger.Component(l, "resume"))
		deps.Resume = handlers.NewResumeHandler(resumes)
	}

	if os.Getenv("ENABLE_SPEECH") == "true" {
		speech, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			log.Fatalf("Speech init error: %v", err)
		}
		defer speech.Close()
		deps.Speech = handlers.NewSpeechHandler(speech)
	}

	// Start Gin server
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(l))
	routes.RegisterRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newLLMProvider(ctx context.Context, cfg config.App) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "qwen":
		return llm.NewQwen(os.Getenv("QWEN_API_KEY"), os.Getenv("QWEN_MODEL"))
	default:
		return llm.NewVertexGemini(ctx,
			os.Getenv("GCP_PROJECT_ID"),
			os.Getenv("GCP_LOCATION"),
			os.Getenv("GEMINI_MODEL"),
		)
	}
}
