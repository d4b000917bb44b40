package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

type userRepository struct {
	client *supabase.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *supabase.Client) UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}

	body, err := r.client.Query(ctx, "users", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	return &users[0], nil
}
