package service

import (
	"context"
	"time"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
)

// Clock returns the current time; services take one so tests can freeze it
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// MoodService defines mood entry business logic
type MoodService interface {
	CreateEntry(ctx context.Context, userID string, req *models.CreateMoodEntryRequest) (*models.MoodEntry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*models.MoodEntry, error)
	ListEntries(ctx context.Context, userID string, params models.ListMoodEntriesParams) ([]models.MoodEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID string, req *models.UpdateMoodEntryRequest) (*models.MoodEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// AnalyticsService aggregates mood entries for charts and stats
type AnalyticsService interface {
	// GetSummary covers [start, end]; nil bounds default to the last 30 days
	GetSummary(ctx context.Context, userID string, start, end *time.Time) (*models.MoodSummary, error)
	GetWeeklySummary(ctx context.Context, userID string) (*models.WeeklyMoodSummary, error)
}

// PredictOptions are the optional prediction inputs
type PredictOptions struct {
	DaysAhead  int
	TargetDate *time.Time
}

// PredictionService runs the prediction engine over a user's history
type PredictionService interface {
	Predict(ctx context.Context, userID string, opts PredictOptions) (*models.PredictionResponse, error)
}

// DashboardService bundles the home-screen widgets
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*models.Dashboard, error)
}

// ChatService produces supportive replies
type ChatService interface {
	Reply(ctx context.Context, userID string, req *models.ChatRequest) (*models.ChatResponse, error)
	History(ctx context.Context, userID string, limit int) ([]models.AIConversation, error)
}

// SubscriptionService reads billing state from the users row
type SubscriptionService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetSubscription(ctx context.Context, userID string) (*models.SubscriptionInfo, error)
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// InsightService generates narrative insights (premium)
type InsightService interface {
	GenerateInsight(ctx context.Context, userID string) (*models.AIInsight, error)
}
