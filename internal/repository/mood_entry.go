package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

const moodEntriesTable = "mood_entries"

type moodEntryRepository struct {
	client *supabase.Client
}

// NewMoodEntryRepository creates a new mood entry repository
func NewMoodEntryRepository(client *supabase.Client) MoodEntryRepository {
	return &moodEntryRepository{client: client}
}

func (r *moodEntryRepository) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	data := map[string]interface{}{
		"user_id":    entry.UserID,
		"mood_score": entry.MoodScore,
		"activities": nonNil(entry.Activities),
		"tags":       nonNil(entry.Tags),
		"created_at": entry.CreatedAt.UTC(),
	}

	// Client-generated UUIDv7 ids keep offline-created entries idempotent
	if entry.ID != "" {
		data["id"] = entry.ID
	}
	if entry.Notes != nil {
		data["notes"] = *entry.Notes
	}

	body, err := r.client.Insert(ctx, moodEntriesTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}
	return first(body, "mood entry")
}

func (r *moodEntryRepository) GetByID(ctx context.Context, userID, id string) (*models.MoodEntry, error) {
	body, err := r.client.Query(ctx, moodEntriesTable, ownedBy(userID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entry: %w", err)
	}

	entry, err := first(body, "mood entry")
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *moodEntryRepository) List(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"order":   "created_at.desc",
		"limit":   limit,
		"offset":  offset,
	}

	body, err := r.client.Query(ctx, moodEntriesTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return decodeEntries(body)
}

func (r *moodEntryRepository) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntry, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(created_at.gte.%s,created_at.lte.%s)",
			start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano)),
		"order": "created_at.desc",
	}

	body, err := r.client.Query(ctx, moodEntriesTable, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}
	return decodeEntries(body)
}

func (r *moodEntryRepository) Update(ctx context.Context, userID, id string, req *models.UpdateMoodEntryRequest) (*models.MoodEntry, error) {
	data := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}

	if req.MoodScore != nil {
		data["mood_score"] = *req.MoodScore
	}
	if req.Notes.Set {
		// an explicit null clears the column
		data["notes"] = req.Notes.ToPtr()
	}
	if req.Activities != nil {
		data["activities"] = nonNil(*req.Activities)
	}
	if req.Tags != nil {
		data["tags"] = nonNil(*req.Tags)
	}

	body, err := r.client.UpdateWhere(ctx, moodEntriesTable, ownedBy(userID, id), data)
	if err != nil {
		return nil, fmt.Errorf("failed to update mood entry: %w", err)
	}
	return first(body, "mood entry")
}

func (r *moodEntryRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.client.DeleteWhere(ctx, moodEntriesTable, ownedBy(userID, id)); err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}
	return nil
}

func ownedBy(userID, id string) map[string]interface{} {
	return map[string]interface{}{
		"id":      fmt.Sprintf("eq.%s", id),
		"user_id": fmt.Sprintf("eq.%s", userID),
	}
}

func decodeEntries(body []byte) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return entries, nil
}

func first(body []byte, what string) (*models.MoodEntry, error) {
	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return &entries[0], nil
}

// nonNil keeps array columns from being written as null
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
