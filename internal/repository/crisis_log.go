package repository

import (
	"context"
	"fmt"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

type crisisLogRepository struct {
	client *supabase.Client
}

// NewCrisisLogRepository creates a repository for crisis_support_logs
func NewCrisisLogRepository(client *supabase.Client) CrisisLogRepository {
	return &crisisLogRepository{client: client}
}

func (r *crisisLogRepository) Create(ctx context.Context, entry *models.CrisisSupportLog) error {
	data := map[string]interface{}{
		"user_id":          entry.UserID,
		"trigger_keywords": entry.TriggerKeywords,
		"message_excerpt":  entry.MessageExcerpt,
		"created_at":       entry.CreatedAt.UTC(),
	}

	if _, err := r.client.Insert(ctx, "crisis_support_logs", data); err != nil {
		return fmt.Errorf("failed to log crisis support event: %w", err)
	}
	return nil
}
