package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/ucao-academy/web-academy-api/api/swagger"
	"github.com/ucao-academy/web-academy-api/internal/handler"
	"github.com/ucao-academy/web-academy-api/internal/repository"
	"github.com/ucao-academy/web-academy-api/internal/router"
	"github.com/ucao-academy/web-academy-api/internal/service"
	"github.com/ucao-academy/web-academy-api/pkg/cache"
	"github.com/ucao-academy/web-academy-api/pkg/config"
	"github.com/ucao-academy/web-academy-api/pkg/database"
	"github.com/ucao-academy/web-academy-api/pkg/export"
	"github.com/ucao-academy/web-academy-api/pkg/logger"
	"github.com/ucao-academy/web-academy-api/pkg/mail"
	"github.com/ucao-academy/web-academy-api/pkg/storage"
)

const version = "1.0.0"

// @title UCAO Web Academy API
// @version 1.0.0
// @description Platform service for the UCAO Web Academy
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	uploadStore, err := storage.NewUploadStore(cfg.Uploads.StorageDir, cfg.Uploads.PublicBaseURL, cfg.Uploads.AllowedMIMEs)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload store", "error", err)
	}

	var sender mail.Mailer
	if cfg.Mail.Driver == "sendgrid" && cfg.Mail.SendgridAPIKey != "" {
		sender = mail.NewSendgridMailer(cfg.Mail)
	} else {
		sender = mail.NewConsoleMailer(logr)
	}
	mailer := mail.NewQueuedMailer(sender, logr)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	filiereRepo := repository.NewFiliereRepository(db)
	guideRepo := repository.NewGuideRepository(db)
	toolRepo := repository.NewToolRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	examRepo := repository.NewExamRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Cache.CacheTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	authService := service.NewAuthService(userRepo, tokenRepo, auditRepo, mailer, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		ResetTokenTTL:      cfg.Mail.ResetTokenTTL,
		ResetURLBase:       cfg.Mail.ResetURLBase,
		MailFromName:       cfg.Mail.FromName,
	})
	userService := service.NewUserService(userRepo, auditRepo, validate, logr)
	courseService := service.NewCourseService(courseRepo, categoryRepo, filiereRepo, auditRepo, cacheService, validate, logr)
	categoryService := service.NewCategoryService(categoryRepo, validate, logr)
	filiereService := service.NewFiliereService(filiereRepo, validate, logr)
	guideService := service.NewGuideService(guideRepo, cacheService, validate, logr)
	toolService := service.NewToolService(toolRepo, cacheService, validate, logr)
	newsService := service.NewNewsService(newsRepo, cacheService, validate, logr)
	scheduleService := service.NewScheduleService(scheduleRepo, courseRepo, filiereRepo, validate, logr)
	examService := service.NewExamService(examRepo, courseRepo, filiereRepo, validate, logr)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, filiereRepo, validate, logr)
	settingsService := service.NewSettingsService(settingsRepo, auditRepo, validate, logr, service.SettingsServiceConfig{})
	exportService := service.NewExportService(userRepo, export.NewCSVRenderer(), export.NewPDFRenderer(), logr)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Course:       handler.NewCourseHandler(courseService),
		Category:     handler.NewCategoryHandler(categoryService),
		Filiere:      handler.NewFiliereHandler(filiereService),
		Guide:        handler.NewGuideHandler(guideService),
		Tool:         handler.NewToolHandler(toolService),
		News:         handler.NewNewsHandler(newsService),
		Schedule:     handler.NewScheduleHandler(scheduleService),
		Exam:         handler.NewExamHandler(examService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Settings:     handler.NewSettingsHandler(settingsService),
		Export:       handler.NewExportHandler(exportService),
		Upload:       handler.NewUploadHandler(uploadStore, settingsService, cfg.Uploads.MaxFileSizeBytes),
		Health:       handler.NewHealthHandler(db, redisClient, metricsService, version),
	}

	engine := router.New(cfg, logr, authService, metricsService, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailer.Start(ctx)
	defer mailer.Stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
}
