// Package server implements the long-running API server command: HTTP
// routes plus the periodic reconciliation scheduler.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appbilling "github.com/meetscribe/meetscribe/internal/application/billing"
	appmeeting "github.com/meetscribe/meetscribe/internal/application/meeting"
	appprofile "github.com/meetscribe/meetscribe/internal/application/profile"
	appsetting "github.com/meetscribe/meetscribe/internal/application/setting"
	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	appuser "github.com/meetscribe/meetscribe/internal/application/user"
	"github.com/meetscribe/meetscribe/internal/infrastructure/auth"
	"github.com/meetscribe/meetscribe/internal/infrastructure/config"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/email"
	"github.com/meetscribe/meetscribe/internal/infrastructure/migration"
	"github.com/meetscribe/meetscribe/internal/infrastructure/ratelimit"
	"github.com/meetscribe/meetscribe/internal/infrastructure/repository"
	"github.com/meetscribe/meetscribe/internal/infrastructure/scheduler"
	"github.com/meetscribe/meetscribe/internal/infrastructure/stripe"
	"github.com/meetscribe/meetscribe/internal/infrastructure/supabase"
	httpRouter "github.com/meetscribe/meetscribe/internal/interfaces/http"
	"github.com/meetscribe/meetscribe/internal/interfaces/http/handlers"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/services/markdown"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the API server",
		Long:  "Start the HTTP API server together with the periodic remote sync scheduler.",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load("default")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Infow("migrations applied")
	}

	db := database.Get()

	// Repositories.
	userRepo := repository.NewUserRepository(db, log)
	profileRepo := repository.NewProfileRepository(db, log)
	meetingRepo := repository.NewMeetingRepository(db, log)
	transcriptRepo := repository.NewTranscriptRepository(db, log)
	chatRepo := repository.NewChatMessageRepository(db, log)
	summaryRepo := repository.NewMeetingSummaryRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	subRepo := repository.NewSubscriptionRepository(db, log)
	settingRepo := repository.NewEmailSettingRepository(db, log)

	// Infrastructure services.
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	mdService := markdown.NewService()
	notifier := email.NewNotifier(settingRepo, email.NewSMTPSender(&cfg.Email), mdService, log)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	limiter := ratelimit.NewRedisLimiter(redisClient)

	stripeClient := stripe.NewClient(&cfg.Stripe, log)
	webhookVerifier := stripe.NewWebhookVerifier(cfg.Stripe.WebhookSecret)

	// Sync core.
	guard := database.NewForeignKeyGuard(db, log)
	writerSession := repository.NewSyncWriterSession(guard, log)
	remoteClient := supabase.NewClient(&cfg.Supabase, log)
	engine := appsync.NewEngine(remoteClient, writerSession, log)

	// Application services.
	verificationTTL := time.Duration(cfg.Auth.Token.VerificationExpiresHours) * time.Hour
	userService := appuser.NewService(userRepo, hasher, jwtService, notifier, cfg.Server.BaseURL, verificationTTL, log)
	profileService := appprofile.NewService(profileRepo, log)
	meetingService := appmeeting.NewService(meetingRepo, transcriptRepo, chatRepo, summaryRepo, profileRepo, log)
	settingService := appsetting.NewService(settingRepo, log)
	billingService := appbilling.NewService(planRepo, subRepo, profileRepo, stripeClient, webhookVerifier, notifier, log)

	router := httpRouter.NewRouter(httpRouter.Dependencies{
		AuthHandler:         handlers.NewAuthHandler(userService, log),
		UserHandler:         handlers.NewUserHandler(userService, log),
		ProfileHandler:      handlers.NewProfileHandler(profileService, log),
		MeetingHandler:      handlers.NewMeetingHandler(meetingService, log),
		PlanHandler:         handlers.NewPlanHandler(billingService, log),
		BillingHandler:      handlers.NewBillingHandler(billingService, log),
		EmailSettingHandler: handlers.NewEmailSettingHandler(settingService, log),
		SyncHandler:         handlers.NewSyncHandler(engine, log),
		JWTService:          jwtService,
		RateLimiter:         limiter,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		Mode:                cfg.Server.Mode,
		Logger:              log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncScheduler *scheduler.SyncScheduler
	if cfg.Sync.Enabled {
		syncScheduler = scheduler.NewSyncScheduler(engine, cfg.Sync.Interval(), log)
		syncScheduler.Start(ctx)
		log.Infow("sync scheduler started", "interval", cfg.Sync.Interval().String())
	} else {
		log.Infow("sync scheduler disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server failed", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Infow("shutting down")

	if syncScheduler != nil {
		syncScheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
