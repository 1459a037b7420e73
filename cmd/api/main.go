package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bdgram/api/internal/config"
	googleinfra "github.com/bdgram/api/internal/infrastructure/google"
	"github.com/bdgram/api/internal/infrastructure/imagestore"
	jwtinfra "github.com/bdgram/api/internal/infrastructure/jwt"
	"github.com/bdgram/api/internal/infrastructure/postgres"
	"github.com/bdgram/api/internal/infrastructure/smtp"
	transporthttp "github.com/bdgram/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The database is dialed lazily on first use, so an unreachable Postgres
	// at boot only delays the schema migration; it does not stop the server.
	manager := postgres.NewManager(cfg)
	if err := postgres.Bootstrap(context.Background(), manager); err != nil {
		log.Printf("WARN: schema bootstrap deferred: %v", err)
	}

	jwtProvider := jwtinfra.NewProvider(cfg)
	mailer := smtp.NewMailer(cfg)

	var images transporthttp.ImageStore
	if cfg.ImageStoreType == "s3" {
		s3Client, err := imagestore.NewS3Client(cfg)
		if err != nil {
			log.Fatalf("s3 client: %v", err)
		}
		images = imagestore.NewS3Store(s3Client, cfg.S3BucketName)
	} else {
		local, err := imagestore.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			log.Fatalf("upload dir: %v", err)
		}
		images = local
	}

	deps := &transporthttp.Deps{
		UserRepo:    postgres.NewUserRepo(manager),
		ContactRepo: postgres.NewContactRepo(manager),
		Images:      images,
		Mailer:      mailer,
		JWTProvider: jwtProvider,
	}
	if cfg.GoogleClientID != "" {
		deps.GoogleVerifier = googleinfra.NewVerifier(cfg.GoogleClientID)
	} else {
		log.Println("WARN: GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	if err := manager.Shutdown(); err != nil {
		log.Printf("WARN: closing database pool: %v", err)
	}
	log.Println("Server stopped")
}
