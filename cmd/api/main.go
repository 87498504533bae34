package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tapfolio/backend/config"
	"github.com/tapfolio/backend/internal/api"
	"github.com/tapfolio/backend/internal/database"
	"github.com/tapfolio/backend/internal/middleware"
	"github.com/tapfolio/backend/internal/router"
	"github.com/tapfolio/backend/internal/server"
	"github.com/tapfolio/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}
	// Card images are served straight from the bucket.
	if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
		log.Printf("Warning: failed to apply S3 bucket policy: %v", err)
	}

	// Services
	notifier := service.NewNotifier(rdb)
	profileService := service.NewProfileService(db, notifier)
	authService := service.NewAuthService(profileService, rdb, cfg.JWTSecret)
	insightsService := service.NewInsightsService(db, notifier)
	themeService := service.NewThemeService(db)
	imageService := service.NewImageService(s3cfg.Client, s3cfg.BucketName)
	emailService := service.NewEmailService()
	clickRecorder := service.NewClickRecorder(db, notifier, 1024, 4)

	clickLimiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     60,
		KeyPrefix: "ratelimit:clicks",
	})

	handlers := router.Handlers{
		Auth:    api.NewAuthHandler(authService, emailService, cfg.PublicBaseURL),
		Profile: api.NewProfileHandler(profileService, insightsService),
		Upload:  api.NewUploadHandler(imageService, profileService),
		Card:    api.NewCardHandler(profileService, clickRecorder),
		QR:      api.NewQRHandler(profileService, cfg.PublicBaseURL),
		Theme:   api.NewThemeHandler(themeService),
		Admin:   api.NewAdminHandler(profileService, insightsService, notifier),
	}

	srv := server.New(cfg, router.SetupRouter(handlers, db, authService, clickLimiter))

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s...", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	// Drain pending click events before exiting.
	clickRecorder.Close()
	log.Println("Server stopped")
}
