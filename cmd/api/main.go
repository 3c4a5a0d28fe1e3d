package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitness-hub/core/internal/config"
	"github.com/fitness-hub/core/internal/infrastructure/aigateway"
	"github.com/fitness-hub/core/internal/infrastructure/dynamo"
	"github.com/fitness-hub/core/internal/infrastructure/gemini"
	jwtinfra "github.com/fitness-hub/core/internal/infrastructure/jwt"
	"github.com/fitness-hub/core/internal/infrastructure/resend"
	s3infra "github.com/fitness-hub/core/internal/infrastructure/s3"
	"github.com/fitness-hub/core/internal/infrastructure/smtp"
	"github.com/fitness-hub/core/internal/infrastructure/sns"
	"github.com/fitness-hub/core/internal/pkg/logger"
	transporthttp "github.com/fitness-hub/core/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		appLog.Fatal("dynamodb client", "error", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, appLog)

	// JWT provider (optional; avatar upload is refused without it).
	var jwtProvider transporthttp.TokenVerifier
	if cfg.JWTPublicKeyPath != "" {
		if p, err := jwtinfra.NewProvider(cfg.JWTPublicKeyPath); err == nil {
			jwtProvider = p
		} else {
			appLog.Warn("jwt provider not available", "error", err)
		}
	}

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		appLog.Fatal("s3 client", "error", err)
	}
	avatarStore := s3infra.NewStore(s3Client, cfg.S3AvatarBucket, cfg.S3PublicBaseURL)

	var mailer transporthttp.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = resend.NewMailer(cfg.ResendAPIKey, cfg.MailFrom)
	} else {
		appLog.Warn("RESEND_API_KEY not set, using SMTP", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
		mailer = smtp.NewMailer(cfg)
	}

	// Verification events (optional).
	var events transporthttp.EventPublisher
	if cfg.SNSTopicARN != "" {
		snsClient, err := sns.NewClient(ctx, cfg)
		if err != nil {
			appLog.Warn("sns publisher not available", "error", err)
		} else {
			events = sns.NewPublisher(snsClient, cfg.SNSTopicARN)
		}
	}

	if !cfg.Gemini.Configured() {
		appLog.Warn("GEMINI_API_KEY not set, chat uses the gateway only")
	}
	if !cfg.AIGateway.Configured() {
		appLog.Warn("LOVABLE_API_KEY not set, chat has no fallback provider")
	}
	upstream := &http.Client{Timeout: 0}

	deps := &transporthttp.Deps{
		OTPRepo:     dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.EmailVerifications),
		Mailer:      mailer,
		Events:      events,
		Primary:     gemini.New(cfg.Gemini, upstream),
		Fallback:    aigateway.New(cfg.AIGateway, upstream),
		AvatarStore: avatarStore,
		ProfileRepo: dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		JWTProvider: jwtProvider,
		Logger:      appLog,
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	// WriteTimeout stays unset: chat responses stream for as long as the model generates.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	appLog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("forced shutdown", "error", err)
	}
	appLog.Info("server stopped")
}
