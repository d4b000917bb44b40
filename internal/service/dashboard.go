package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
)

type dashboardService struct {
	analytics   AnalyticsService
	predictions PredictionService
}

// NewDashboardService creates a service that assembles the home screen
func NewDashboardService(analytics AnalyticsService, predictions PredictionService) DashboardService {
	return &dashboardService{analytics: analytics, predictions: predictions}
}

// GetDashboard loads the three widgets concurrently; the first failure
// cancels the others
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	var dash models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.analytics.GetSummary(gctx, userID, nil, nil)
		dash.Summary = summary
		return err
	})
	g.Go(func() error {
		weekly, err := s.analytics.GetWeeklySummary(gctx, userID)
		dash.Weekly = weekly
		return err
	})
	g.Go(func() error {
		pred, err := s.predictions.Predict(gctx, userID, PredictOptions{})
		dash.Prediction = pred
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}
