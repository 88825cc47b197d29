package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"massimino/fitness-platform/internal/api"
	"massimino/fitness-platform/internal/config"
	"massimino/fitness-platform/internal/push"
	"massimino/fitness-platform/internal/repository/mongo"
	"massimino/fitness-platform/internal/service"
	"massimino/fitness-platform/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Massimino Fitness Platform API
// @version 1.0
// @description API for programs, sessions, ad delivery and partner integrations.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Error("could not connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureTrainerClientIndexes(ctx, appDB.Collection("trainer_clients"))
		mongo.EnsureProgramIndexes(ctx, appDB)
		mongo.EnsureSessionIndexes(ctx, appDB)
		mongo.EnsureCampaignIndexes(ctx, appDB.Collection("ad_campaigns"))
		mongo.EnsureCreativeIndexes(ctx, appDB.Collection("ad_creatives"))
		mongo.EnsurePartnerIndexes(ctx, appDB)
		logger.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logger.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	linkRepo := mongo.NewMongoTrainerClientRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	subRepo := mongo.NewMongoSubscriptionRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	campaignRepo := mongo.NewMongoCampaignRepository(appDB)
	creativeRepo := mongo.NewMongoCreativeRepository(appDB)
	partnerRepo := mongo.NewMongoPartnerRepository(appDB)
	pushRepo := mongo.NewMongoPushDeliveryRepository(appDB)
	feedbackRepo := mongo.NewMongoFeedbackRepository(appDB)
	statsRepo := mongo.NewMongoStatsRepository(appDB)

	// --- Initialize Services ---
	pushClient := push.NewClient(cfg.Push.GatewayURL, cfg.Push.Timeout, logger)
	notifier := service.NewNotifier(userRepo, pushRepo, pushClient, cfg.Push.Enabled, logger)
	moderator := service.NewModerator(service.NewKeywordChecker(cfg.Moderation.Blocked, cfg.Moderation.Flagged), logger)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	resolver := service.NewExerciseResolver(exerciseRepo, logger)
	catalogService := service.NewCatalogService(programRepo, resolver, logger)
	trainerService := service.NewTrainerService(userRepo, linkRepo, programRepo, sessionRepo, subRepo, notifier)
	athleteService := service.NewAthleteService(programRepo, subRepo, sessionRepo, logger)
	adsService := service.NewAdsService(campaignRepo, creativeRepo, userRepo, fileStorage, logger)
	partnerService := service.NewPartnerService(partnerRepo, logger)
	socialService := service.NewSocialService(userRepo, nil, moderator, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, statsRepo, moderator, logger)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:     authService,
		Exercise: exerciseService,
		Catalog:  catalogService,
		Trainer:  trainerService,
		Athlete:  athleteService,
		Ads:      adsService,
		Partner:  partnerService,
		Social:   socialService,
		Feedback: feedbackService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server starting", "address", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen and serve error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}
