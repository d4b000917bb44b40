package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/textgen"
)

const insightSystemPrompt = "You summarise mood tracking observations for the person who logged them. " +
	"Write exactly two encouraging, plain-language sentences. Do not give medical advice."

type insightService struct {
	predictions   PredictionService
	subscriptions SubscriptionService
	generator     textgen.Generator
	clock         Clock
}

// NewInsightService creates the premium AI insight service
func NewInsightService(predictions PredictionService, subscriptions SubscriptionService, generator textgen.Generator, clock Clock) InsightService {
	return &insightService{
		predictions:   predictions,
		subscriptions: subscriptions,
		generator:     generator,
		clock:         clock,
	}
}

func (s *insightService) GenerateInsight(ctx context.Context, userID string) (*models.AIInsight, error) {
	premium, err := s.subscriptions.IsPremium(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !premium {
		return nil, ErrPremiumRequired
	}

	pred, err := s.predictions.Predict(ctx, userID, PredictOptions{})
	if err != nil {
		return nil, err
	}

	insight := &models.AIInsight{GeneratedAt: s.clock.now()}

	prompt := fmt.Sprintf("Predicted mood for the coming days: %.1f/10 (trend: %s, confidence %.0f%%).\nObservations:\n- %s",
		pred.PredictedScore, pred.Trend, pred.Confidence*100, strings.Join(pred.Factors, "\n- "))

	text, err := s.generator.Generate(ctx, insightSystemPrompt, prompt)
	if err != nil {
		logger.Ctx(ctx).Warn("insight generation failed, using factors", logger.Err(err))
		insight.Insight = strings.Join(pred.Factors, " ")
		return insight, nil
	}

	insight.Insight = text
	insight.Generated = true
	return insight, nil
}
