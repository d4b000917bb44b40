package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

type conversationRepository struct {
	client *supabase.Client
}

// NewConversationRepository creates a repository for ai_conversations
func NewConversationRepository(client *supabase.Client) ConversationRepository {
	return &conversationRepository{client: client}
}

func (r *conversationRepository) Create(ctx context.Context, conv *models.AIConversation) (*models.AIConversation, error) {
	data := map[string]interface{}{
		"user_id":       conv.UserID,
		"user_message":  conv.UserMessage,
		"ai_response":   conv.AIResponse,
		"used_fallback": conv.UsedFallback,
		"created_at":    conv.CreatedAt.UTC(),
	}
	if conv.MoodScore != nil {
		data["mood_score"] = *conv.MoodScore
	}

	body, err := r.client.Insert(ctx, "ai_conversations", data)
	if err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	var convs []models.AIConversation
	if err := json.Unmarshal(body, &convs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(convs) == 0 {
		return nil, fmt.Errorf("no conversation returned")
	}
	return &convs[0], nil
}

func (r *conversationRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.AIConversation, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"order":   "created_at.desc",
		"limit":   limit,
	}

	body, err := r.client.Query(ctx, "ai_conversations", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var convs []models.AIConversation
	if err := json.Unmarshal(body, &convs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return convs, nil
}
