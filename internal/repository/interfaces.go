package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
)

// ErrNotFound is returned when a row does not exist or belongs to another user
var ErrNotFound = errors.New("not found")

// MoodEntryRepository defines data access for mood_entries. Every lookup is
// scoped to the owning user.
type MoodEntryRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
	GetByID(ctx context.Context, userID, id string) (*models.MoodEntry, error)
	List(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error)
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntry, error)
	Update(ctx context.Context, userID, id string, req *models.UpdateMoodEntryRequest) (*models.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// UserRepository defines data access for the users table
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ConversationRepository stores AI chat exchanges
type ConversationRepository interface {
	Create(ctx context.Context, conv *models.AIConversation) (*models.AIConversation, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.AIConversation, error)
}

// CrisisLogRepository stores crisis-language detections
type CrisisLogRepository interface {
	Create(ctx context.Context, entry *models.CrisisSupportLog) error
}
