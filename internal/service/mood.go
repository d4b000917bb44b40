package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
)

const (
	MinMoodScore     = 1
	MaxMoodScore     = 10
	MaxNotesLength   = 2000
	MaxLabels        = 20
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

type moodService struct {
	moodRepo repository.MoodEntryRepository
	clock    Clock
}

// NewMoodService creates a new mood entry service
func NewMoodService(moodRepo repository.MoodEntryRepository, clock Clock) MoodService {
	return &moodService{moodRepo: moodRepo, clock: clock}
}

func (s *moodService) CreateEntry(ctx context.Context, userID string, req *models.CreateMoodEntryRequest) (*models.MoodEntry, error) {
	now := s.clock.now()

	verr := &ValidationError{}
	validateScore(verr, req.MoodScore)
	validateNotes(verr, req.Notes)
	activities := validateLabels(verr, "activities", req.Activities)
	tags := validateLabels(verr, "tags", req.Tags)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	createdAt := now
	if req.CreatedAt != nil {
		if req.CreatedAt.After(now.Add(MaxFutureSkew)) {
			return nil, &InvalidFieldError{Field: "created_at", Err: ErrFutureTimestamp}
		}
		createdAt = *req.CreatedAt
	}

	entry := &models.MoodEntry{
		UserID:     userID,
		MoodScore:  req.MoodScore,
		Notes:      req.Notes,
		Activities: activities,
		Tags:       tags,
		CreatedAt:  createdAt,
	}

	if req.ID != nil && *req.ID != "" {
		if err := ValidateUUIDv7(*req.ID, now); err != nil {
			return nil, &InvalidFieldError{Field: "id", Err: err}
		}
		entry.ID = *req.ID
	}

	created, err := s.moodRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Debug("mood entry created",
		logger.String("entry_id", created.ID),
		logger.Int("mood_score", created.MoodScore),
	)
	return created, nil
}

func (s *moodService) GetEntry(ctx context.Context, userID, entryID string) (*models.MoodEntry, error) {
	if err := validateEntryID(entryID); err != nil {
		return nil, err
	}
	return s.moodRepo.GetByID(ctx, userID, entryID)
}

func (s *moodService) ListEntries(ctx context.Context, userID string, params models.ListMoodEntriesParams) ([]models.MoodEntry, error) {
	limit := params.Limit
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.moodRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}
	return entries, nil
}

func (s *moodService) UpdateEntry(ctx context.Context, userID, entryID string, req *models.UpdateMoodEntryRequest) (*models.MoodEntry, error) {
	if err := validateEntryID(entryID); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if req.MoodScore != nil {
		validateScore(verr, *req.MoodScore)
	}
	if req.Notes.Valid {
		validateNotes(verr, &req.Notes.Value)
	}
	if req.Activities != nil {
		cleaned := validateLabels(verr, "activities", *req.Activities)
		req.Activities = &cleaned
	}
	if req.Tags != nil {
		cleaned := validateLabels(verr, "tags", *req.Tags)
		req.Tags = &cleaned
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	// Verify ownership before writing
	if _, err := s.moodRepo.GetByID(ctx, userID, entryID); err != nil {
		return nil, err
	}

	return s.moodRepo.Update(ctx, userID, entryID, req)
}

func (s *moodService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if err := validateEntryID(entryID); err != nil {
		return err
	}
	if _, err := s.moodRepo.GetByID(ctx, userID, entryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to load mood entry: %w", err)
	}
	return s.moodRepo.Delete(ctx, userID, entryID)
}

func validateEntryID(id string) error {
	if err := ValidateUUID(id); err != nil {
		return &InvalidFieldError{Field: "id", Err: err}
	}
	return nil
}

func validateScore(verr *ValidationError, score int) {
	if score < MinMoodScore || score > MaxMoodScore {
		verr.add("mood_score", "out_of_range", fmt.Sprintf("must be between %d and %d", MinMoodScore, MaxMoodScore))
	}
}

func validateNotes(verr *ValidationError, notes *string) {
	if notes != nil && utf8.RuneCountInString(*notes) > MaxNotesLength {
		verr.add("notes", "too_long", fmt.Sprintf("must be at most %d characters", MaxNotesLength))
	}
}

// validateLabels trims labels, drops blanks and duplicates, and enforces
// the per-entry limit
func validateLabels(verr *ValidationError, field string, labels []string) []string {
	seen := make(map[string]bool, len(labels))
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[strings.ToLower(l)] {
			continue
		}
		seen[strings.ToLower(l)] = true
		cleaned = append(cleaned, l)
	}
	if len(cleaned) > MaxLabels {
		verr.add(field, "too_many", fmt.Sprintf("must contain at most %d items", MaxLabels))
	}
	return cleaned
}
