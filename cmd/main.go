package main

import (
	"context"
	"net/http"
	"time"

	"civicfix/backend/internal/api/handler"
	"civicfix/backend/internal/config"
	"civicfix/backend/internal/evidence"
	"civicfix/backend/internal/intake"
	"civicfix/backend/internal/lifecycle"
	"civicfix/backend/internal/models"
	"civicfix/backend/internal/notify"
	"civicfix/backend/internal/ratelimit"
	"civicfix/backend/internal/storage"
	"civicfix/backend/internal/triage"
	"civicfix/backend/internal/trust"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Complaint{},
		&models.StatusAuditEntry{},
		&models.ReporterProfile{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting CivicFix Backend...")

	if err := godotenv.Load(); err != nil {
		log.Warn("Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// Admission counters live in Redis so the window holds across instances.
	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(rdb))

	var collaborator triage.Collaborator
	if cfg.TriageURL != "" {
		collaborator = triage.NewHTTPCollaborator(cfg.TriageURL)
	} else {
		log.Warn("TRIAGE_URL not set, triage will run in fail-open mode")
	}
	evaluator := triage.NewEvaluator(collaborator)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.TelegramBotToken != "" && cfg.TelegramStaffChat != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramStaffChat)
		if err != nil {
			log.WithError(err).Warn("Telegram notifier unavailable, falling back to log")
		} else {
			notifier = tg
		}
	}

	evidenceStore, err := evidence.NewDiskStore(cfg.EvidenceDir)
	if err != nil {
		log.Fatalf("Failed to prepare evidence store: %v", err)
	}

	adjuster := trust.NewAdjuster(s)
	intakeSvc := intake.NewService(limiter, evaluator, s, notifier)
	engine := lifecycle.NewEngine(s, adjuster, notifier)
	auth := handler.NewAuth(cfg.JWTSecret)
	h := handler.NewHandler(intakeSvc, engine, s, evidenceStore, auth)

	r := gin.Default()

	r.POST("/auth/session", h.IssueSession)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/media", cfg.EvidenceDir)

	api := r.Group("/api")
	{
		authed := api.Group("", h.RequireAuth)
		authed.POST("/complaints", h.SubmitComplaint)
		authed.POST("/complaints/:id/withdraw", h.WithdrawComplaint)
		authed.POST("/complaints/:id/feedback", h.SubmitFeedback)
		authed.POST("/complaints/:id/upvote", h.Upvote)

		api.GET("/complaints/:id", h.GetComplaint)
		api.GET("/complaints/:id/sla", h.GetSLAStatus)
		api.GET("/complaints/track/:code", h.TrackComplaint)

		staff := api.Group("", h.RequireAuth, h.RequireStaff)
		staff.GET("/complaints", h.ListComplaints)
		staff.POST("/complaints/:id/status", h.TransitionComplaint)
	}

	r.GET("/ws/audit", h.RequireAuth, h.RequireStaff, h.ServeAuditFeed)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
