package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
)

// Wednesday
var fixedNow = time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return fixedNow }
}

func testPredictor() *prediction.Predictor {
	return prediction.NewPredictor(prediction.WithClock(fixedClock()), prediction.WithLocation(time.UTC))
}

// fakeMoodRepository is an in-memory MoodEntryRepository
type fakeMoodRepository struct {
	mu        sync.Mutex
	entries   map[string]*models.MoodEntry
	err       error
	lastLimit int
}

func newFakeMoodRepository() *fakeMoodRepository {
	return &fakeMoodRepository{entries: make(map[string]*models.MoodEntry)}
}

func (f *fakeMoodRepository) add(userID string, score int, at time.Time, activities ...string) *models.MoodEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &models.MoodEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		MoodScore:  score,
		Activities: activities,
		CreatedAt:  at,
	}
	f.entries[e.ID] = e
	return e
}

func (f *fakeMoodRepository) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	stored := *entry
	f.entries[entry.ID] = &stored
	return &stored, nil
}

func (f *fakeMoodRepository) GetByID(ctx context.Context, userID, id string) (*models.MoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, fmt.Errorf("mood entry: %w", repository.ErrNotFound)
	}
	copied := *e
	return &copied, nil
}

func (f *fakeMoodRepository) List(ctx context.Context, userID string, limit, offset int) ([]models.MoodEntry, error) {
	f.lastLimit = limit
	all, err := f.ListByDateRange(ctx, userID, time.Time{}, fixedNow.AddDate(10, 0, 0))
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMoodRepository) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MoodEntry
	for _, e := range f.entries {
		if e.UserID != userID || e.CreatedAt.Before(start) || e.CreatedAt.After(end) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMoodRepository) Update(ctx context.Context, userID, id string, req *models.UpdateMoodEntryRequest) (*models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, fmt.Errorf("mood entry: %w", repository.ErrNotFound)
	}
	if req.MoodScore != nil {
		e.MoodScore = *req.MoodScore
	}
	if req.Notes.Set {
		e.Notes = req.Notes.ToPtr()
	}
	if req.Activities != nil {
		e.Activities = *req.Activities
	}
	if req.Tags != nil {
		e.Tags = *req.Tags
	}
	copied := *e
	return &copied, nil
}

func (f *fakeMoodRepository) Delete(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}

type fakeUserRepository struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func usersWith(premiumIDs ...string) *fakeUserRepository {
	repo := &fakeUserRepository{users: map[string]*models.User{}}
	for _, id := range premiumIDs {
		repo.users[id] = &models.User{
			ID:                 id,
			SubscriptionTier:   models.TierPremium,
			SubscriptionStatus: models.StatusActive,
		}
	}
	return repo
}

type fakeConversationRepository struct {
	mu    sync.Mutex
	saved []models.AIConversation
	err   error
}

func (f *fakeConversationRepository) Create(ctx context.Context, conv *models.AIConversation) (*models.AIConversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, *conv)
	return conv, nil
}

func (f *fakeConversationRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.AIConversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AIConversation
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].UserID == userID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

type fakeCrisisRepository struct {
	logs []models.CrisisSupportLog
}

func (f *fakeCrisisRepository) Create(ctx context.Context, entry *models.CrisisSupportLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

type fakeGenerator struct {
	reply   string
	err     error
	calls   int
	lastSys string
	lastMsg string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSys, f.lastMsg = system, user
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeMetrics struct {
	mu          sync.Mutex
	predictions []string
	replies     []string
}

func (f *fakeMetrics) ObservePrediction(outcome string, confidence float64, latency time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictions = append(f.predictions, outcome)
}

func (f *fakeMetrics) ObserveChatReply(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, source)
}

// daily adds one entry per day at 09:00 ending yesterday, oldest first
func daily(repo *fakeMoodRepository, userID string, scores ...int) {
	for i, s := range scores {
		daysAgo := len(scores) - i
		repo.add(userID, s, time.Date(2026, 3, 18-daysAgo, 9, 0, 0, 0, time.UTC))
	}
}
