package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
)

type subscriptionService struct {
	userRepo repository.UserRepository
}

// NewSubscriptionService creates a service reading billing state from users
func NewSubscriptionService(userRepo repository.UserRepository) SubscriptionService {
	return &subscriptionService{userRepo: userRepo}
}

// GetUser returns the users row. Accounts without a row yet are reported as
// free users.
func (s *subscriptionService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return &models.User{ID: userID, SubscriptionTier: models.TierFree}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = models.TierFree
	}
	return user, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID string) (*models.SubscriptionInfo, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.SubscriptionInfo{
		Status:           user.SubscriptionStatus,
		Tier:             user.SubscriptionTier,
		IsPremium:        user.IsPremium(),
		CurrentPeriodEnd: user.CurrentPeriodEnd,
	}, nil
}

func (s *subscriptionService) IsPremium(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsPremium(), nil
}
