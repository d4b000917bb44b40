package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/internal/metrics"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
)

// PredictionMetrics is the subset of the metrics recorder used here
type PredictionMetrics interface {
	ObservePrediction(outcome string, confidence float64, latency time.Duration)
}

// PredictionSettings controls history size and free-tier gating
type PredictionSettings struct {
	HistoryDays      int
	FreeForecastDays int
	PremiumGating    bool
}

type predictionService struct {
	moodRepo      repository.MoodEntryRepository
	subscriptions SubscriptionService
	predictor     *prediction.Predictor
	settings      PredictionSettings
	metrics       PredictionMetrics
	clock         Clock
}

// NewPredictionService creates a new prediction service. The predictor
// should share clock so forecasts and history windows agree.
func NewPredictionService(
	moodRepo repository.MoodEntryRepository,
	subscriptions SubscriptionService,
	predictor *prediction.Predictor,
	settings PredictionSettings,
	m PredictionMetrics,
	clock Clock,
) PredictionService {
	if settings.HistoryDays <= 0 {
		settings.HistoryDays = 90
	}
	if settings.FreeForecastDays <= 0 {
		settings.FreeForecastDays = 3
	}
	return &predictionService{
		moodRepo:      moodRepo,
		subscriptions: subscriptions,
		predictor:     predictor,
		settings:      settings,
		metrics:       m,
		clock:         clock,
	}
}

func (s *predictionService) Predict(ctx context.Context, userID string, opts PredictOptions) (*models.PredictionResponse, error) {
	start := time.Now()
	now := s.clock.now()

	rows, err := s.moodRepo.ListByDateRange(ctx, userID, now.AddDate(0, 0, -s.settings.HistoryDays), now.Add(MaxFutureSkew))
	if err != nil {
		s.observe(metrics.PredictionFailed, 0, start)
		return nil, fmt.Errorf("failed to load mood history: %w", err)
	}

	premium, err := s.subscriptions.IsPremium(ctx, userID)
	if err != nil {
		s.observe(metrics.PredictionFailed, 0, start)
		return nil, err
	}

	history := toEngineEntries(rows)
	result := s.predictor.PredictMoodTrend(history, opts.DaysAhead, opts.TargetDate)

	resp := &models.PredictionResponse{
		PredictionResult: result,
		Patterns:         s.predictor.AnalyzeHistory(history),
		EntriesAnalyzed:  len(history),
		IsPremium:        premium,
	}

	if s.settings.PremiumGating && !premium && len(resp.NextWeekForecast) > s.settings.FreeForecastDays {
		resp.NextWeekForecast = resp.NextWeekForecast[:s.settings.FreeForecastDays]
		resp.ForecastLimited = true
	}

	outcome := metrics.PredictionComputed
	if len(history) < prediction.MinEntriesForPrediction {
		outcome = metrics.PredictionInsufficient
	}
	s.observe(outcome, result.Confidence, start)

	logger.Ctx(ctx).Debug("prediction computed",
		logger.Int("entries", len(history)),
		logger.Float64("predicted_score", result.PredictedScore),
		logger.Float64("confidence", result.Confidence),
		logger.String("trend", string(result.Trend)),
		logger.Bool("forecast_limited", resp.ForecastLimited),
	)

	return resp, nil
}

func (s *predictionService) observe(outcome string, confidence float64, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObservePrediction(outcome, confidence, time.Since(start))
	}
}

func toEngineEntries(rows []models.MoodEntry) []prediction.MoodEntry {
	entries := make([]prediction.MoodEntry, 0, len(rows))
	for _, r := range rows {
		e := prediction.MoodEntry{
			Score:      r.MoodScore,
			Activities: r.Activities,
			Timestamp:  r.CreatedAt,
		}
		if r.Notes != nil {
			e.Notes = *r.Notes
		}
		entries = append(entries, e)
	}
	return entries
}
