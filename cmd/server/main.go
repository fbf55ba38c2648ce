package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kinovera/festival/api/internal/config"
	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/handler"
	"github.com/kinovera/festival/api/internal/jobs"
	"github.com/kinovera/festival/api/internal/middleware"
	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/internal/repository"
	"github.com/kinovera/festival/api/internal/service"
	"github.com/kinovera/festival/api/internal/storage"
	"github.com/kinovera/festival/api/pkg/token"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize token service
	tokenService, err := token.NewService(token.Config{
		Secret:         cfg.Token.Secret,
		Issuer:         cfg.Token.Issuer,
		ExpirationMins: cfg.Token.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize image storage
	var store storage.Store
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
	default:
		store, err = storage.NewLocalStore(cfg.Storage.LocalRoot, cfg.Storage.PublicURL)
	}
	if err != nil {
		slog.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	activityRepo := repository.NewActivityRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	// Initialize services
	mailer := service.NewMailer(cfg.Mail)
	activityService := service.NewActivityService(activityRepo, store, logger)
	registrationService := service.NewRegistrationService(registrationRepo, activityRepo, mailer, logger)
	exportService := service.NewExportService(registrationRepo, activityRepo)
	accountService := service.NewAccountService(userRepo)
	programService := service.NewProgramService(submissionRepo)

	// Initialize rate limiter for the public registration endpoint
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Start the counter reconciliation job
	reconciler := jobs.NewCounterReconciler(activityRepo, registrationRepo, 10*time.Minute, logger)
	reconciler.Start()
	defer reconciler.Stop()

	// Initialize handlers
	publicHandler := handler.NewPublicHandler(activityService, programService)
	activityHandler := handler.NewActivityHandler(activityService)
	registrationHandler := handler.NewRegistrationHandler(registrationService, exportService)
	accountHandler := handler.NewAccountHandler(accountService)
	uploadHandler := handler.NewUploadHandler(store, activityService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Public endpoints (no auth)
	rateLimit := middleware.RateLimit(rateLimiter)
	mux.HandleFunc("GET /v1/activities", publicHandler.ListActivities)
	mux.HandleFunc("GET /v1/activities/{activityId}", publicHandler.GetActivity)
	mux.Handle("POST /v1/activities/{activityId}/registrations", rateLimit(http.HandlerFunc(registrationHandler.Register)))
	mux.HandleFunc("GET /v1/activities/{activityId}/registrations/lookup/{code}", registrationHandler.Lookup)
	mux.HandleFunc("GET /v1/programs", publicHandler.ListPrograms)
	mux.HandleFunc("GET /v1/programs/{program}", publicHandler.GetProgram)

	// Serve uploaded images directly when using local storage
	if cfg.Storage.Backend == "local" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.LocalRoot))))
	}

	// Staff endpoints: auth plus a role check. Content management is open to
	// editors and up; account management is admin only.
	authMiddleware := middleware.Auth(tokenService)
	contentMiddleware := middleware.RequireRole(model.CanManageContent)
	adminMiddleware := middleware.RequireRole(model.CanAssignRoles)
	staff := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(http.HandlerFunc(h), authMiddleware, contentMiddleware)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(http.HandlerFunc(h), authMiddleware, adminMiddleware)
	}

	// Activity management endpoints
	mux.Handle("GET /v1/admin/activities", staff(activityHandler.List))
	mux.Handle("POST /v1/admin/activities", staff(activityHandler.Create))
	mux.Handle("GET /v1/admin/activities/export", staff(registrationHandler.ExportActivities))
	mux.Handle("POST /v1/admin/activities/bulk/status", staff(activityHandler.BulkStatus))
	mux.Handle("POST /v1/admin/activities/bulk/delete", staff(activityHandler.BulkDelete))
	mux.Handle("GET /v1/admin/activities/{activityId}", staff(activityHandler.Get))
	mux.Handle("PATCH /v1/admin/activities/{activityId}", staff(activityHandler.Update))
	mux.Handle("DELETE /v1/admin/activities/{activityId}", staff(activityHandler.Delete))
	mux.Handle("POST /v1/admin/activities/{activityId}/duplicate", staff(activityHandler.Duplicate))
	mux.Handle("POST /v1/admin/activities/{activityId}/image", staff(uploadHandler.ActivityImage))
	mux.Handle("POST /v1/admin/activities/{activityId}/speakers/{speakerId}/image", staff(uploadHandler.SpeakerImage))

	// Registration management endpoints
	mux.Handle("GET /v1/admin/activities/{activityId}/registrations", staff(registrationHandler.List))
	mux.Handle("GET /v1/admin/activities/{activityId}/registrations/export", staff(registrationHandler.Export))
	mux.Handle("GET /v1/admin/registrations/{registrationId}", staff(registrationHandler.Get))
	mux.Handle("PATCH /v1/admin/registrations/{registrationId}", staff(registrationHandler.Update))
	mux.Handle("DELETE /v1/admin/registrations/{registrationId}", staff(registrationHandler.Delete))
	mux.Handle("POST /v1/admin/registrations/bulk/status", staff(registrationHandler.BulkStatus))

	// Account management endpoints
	mux.Handle("GET /v1/admin/accounts", admin(accountHandler.List))
	mux.Handle("POST /v1/admin/accounts", admin(accountHandler.Create))
	mux.Handle("GET /v1/admin/accounts/{accountId}", admin(accountHandler.Get))
	mux.Handle("PATCH /v1/admin/accounts/{accountId}", admin(accountHandler.Update))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
