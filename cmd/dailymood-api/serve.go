package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mrmorrispmorris/dailymood/backend/internal/config"
	"github.com/mrmorrispmorris/dailymood/backend/internal/handlers"
	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/internal/metrics"
	"github.com/mrmorrispmorris/dailymood/backend/internal/middleware"
	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
	"github.com/mrmorrispmorris/dailymood/backend/internal/service"
	"github.com/mrmorrispmorris/dailymood/backend/internal/textgen"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:     logger.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	logger.SetDefault(log)

	loc, err := cfg.Prediction.Location()
	if err != nil {
		return err
	}

	log.Info("starting DailyMood API server",
		logger.String("env", cfg.Server.Env),
		logger.String("supabase_url", cfg.Supabase.URL),
		logger.String("timezone", loc.String()),
		logger.Bool("text_generation", cfg.OpenAI.APIKey != ""),
	)

	recorder := metrics.New()
	clock := service.Clock(time.Now)

	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey,
		time.Duration(cfg.Supabase.TimeoutSeconds)*time.Second)

	generator := textgen.New(textgen.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
	})

	// Repositories
	moodRepo := repository.NewMoodEntryRepository(supabaseClient)
	userRepo := repository.NewUserRepository(supabaseClient)
	convRepo := repository.NewConversationRepository(supabaseClient)
	crisisRepo := repository.NewCrisisLogRepository(supabaseClient)

	// Services
	predictor := prediction.NewPredictor(prediction.WithClock(clock), prediction.WithLocation(loc))
	subscriptionService := service.NewSubscriptionService(userRepo)
	moodService := service.NewMoodService(moodRepo, clock)
	analyticsService := service.NewAnalyticsService(moodRepo, predictor, clock)
	predictionService := service.NewPredictionService(moodRepo, subscriptionService, predictor, service.PredictionSettings{
		HistoryDays:      cfg.Prediction.HistoryDays,
		FreeForecastDays: cfg.Prediction.FreeForecastDays,
		PremiumGating:    cfg.Prediction.PremiumGating,
	}, recorder, clock)
	dashboardService := service.NewDashboardService(analyticsService, predictionService)
	chatService := service.NewChatService(generator, convRepo, crisisRepo, moodRepo, recorder, clock)
	insightService := service.NewInsightService(predictionService, subscriptionService, generator, clock)

	generalLimiter := middleware.NewRateLimiter("general", cfg.RateLimit.RequestsPerMinute, recorder)
	defer generalLimiter.Stop()
	chatLimiter := middleware.NewRateLimiter("chat", cfg.RateLimit.ChatRequestsPerMinute, recorder)
	defer chatLimiter.Stop()

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(recorder))
	router.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	handlers.Routes{
		Moods:     handlers.NewMoodHandler(moodService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, predictionService, dashboardService),
		Chat:      handlers.NewChatHandler(chatService),
		Account:   handlers.NewAccountHandler(subscriptionService, insightService),
		Auth:      middleware.Auth(supabaseClient),
		RateLimit: middleware.RateLimit(generalLimiter),
		ChatLimit: middleware.RateLimit(chatLimiter),
		Metrics:   recorder.Handler(),
	}.Register(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
