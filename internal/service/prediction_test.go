package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrmorrispmorris/dailymood/backend/internal/metrics"
	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
)

func newPredictionFixture(gating bool, premiumIDs ...string) (*fakeMoodRepository, *fakeMetrics, PredictionService) {
	repo := newFakeMoodRepository()
	m := &fakeMetrics{}
	svc := NewPredictionService(
		repo,
		NewSubscriptionService(usersWith(premiumIDs...)),
		testPredictor(),
		PredictionSettings{HistoryDays: 90, FreeForecastDays: 3, PremiumGating: gating},
		m,
		fixedClock(),
	)
	return repo, m, svc
}

func TestPrediction_FreeUserForecastIsLimited(t *testing.T) {
	repo, m, svc := newPredictionFixture(true)
	daily(repo, "user-1", 5, 6, 7, 5, 6, 7, 5, 6, 7, 6)

	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	require.NoError(t, err)

	assert.False(t, resp.IsPremium)
	assert.True(t, resp.ForecastLimited)
	assert.Len(t, resp.NextWeekForecast, 3)
	assert.Equal(t, "2026-03-19", resp.NextWeekForecast[0].Date)
	assert.Equal(t, 10, resp.EntriesAnalyzed)
	assert.Len(t, resp.Patterns.WeeklyPattern, 7)
	assert.Equal(t, []string{metrics.PredictionComputed}, m.predictions)
}

func TestPrediction_PremiumUserGetsFullForecast(t *testing.T) {
	repo, _, svc := newPredictionFixture(true, "user-1")
	daily(repo, "user-1", 5, 6, 7, 5, 6, 7, 5)

	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	require.NoError(t, err)

	assert.True(t, resp.IsPremium)
	assert.False(t, resp.ForecastLimited)
	assert.Len(t, resp.NextWeekForecast, prediction.ForecastDays)
}

func TestPrediction_GatingDisabled(t *testing.T) {
	repo, _, svc := newPredictionFixture(false)
	daily(repo, "user-1", 5, 6, 7, 5)

	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	require.NoError(t, err)
	assert.False(t, resp.ForecastLimited)
	assert.Len(t, resp.NextWeekForecast, prediction.ForecastDays)
}

func TestPrediction_InsufficientData(t *testing.T) {
	repo, m, svc := newPredictionFixture(true)
	daily(repo, "user-1", 8, 9)

	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	require.NoError(t, err)

	assert.Equal(t, prediction.FallbackScore, resp.PredictedScore)
	assert.Equal(t, prediction.FallbackConfidence, resp.Confidence)
	assert.Len(t, resp.NextWeekForecast, 1)
	assert.False(t, resp.ForecastLimited)
	assert.Equal(t, []string{metrics.PredictionInsufficient}, m.predictions)
}

func TestPrediction_OnlyRecentHistory(t *testing.T) {
	repo, _, svc := newPredictionFixture(true)
	daily(repo, "user-1", 6, 6, 6)
	repo.add("user-1", 1, fixedNow.AddDate(0, 0, -120))

	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.EntriesAnalyzed)
}

func TestPrediction_TargetDate(t *testing.T) {
	repo, _, svc := newPredictionFixture(true)
	daily(repo, "user-1", 6, 6, 6, 6, 6, 6, 6)

	target := at(23, 9)
	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{TargetDate: &target})
	require.NoError(t, err)
	assert.Equal(t, 6.0, resp.PredictedScore)
}

func TestPrediction_RepositoryError(t *testing.T) {
	repo, m, svc := newPredictionFixture(true)
	repo.err = errors.New("connection refused")

	_, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, []string{metrics.PredictionFailed}, m.predictions)
}

func TestPrediction_IncludesEntriesWithinClockSkew(t *testing.T) {
	repo, _, svc := newPredictionFixture(false)
	daily(repo, "user-1", 5, 6)
	repo.add("user-1", 7, fixedNow.Add(30*time.Second))
	repo.add("user-1", 9, fixedNow.Add(2*time.Minute))

	resp, err := svc.Predict(context.Background(), "user-1", PredictOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.EntriesAnalyzed)
}
