package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/internal/metrics"
	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
	"github.com/mrmorrispmorris/dailymood/backend/internal/textgen"
)

const (
	MaxChatMessageLength = 1000
	DefaultHistoryLimit  = 20
	maxExcerptLength     = 200

	// Recent entries fed into the prompt as context
	chatContextDays = 7
)

// crisisKeywords are matched case-insensitively anywhere in a message
var crisisKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"end it all",
	"self harm",
	"self-harm",
	"hurt myself",
	"want to die",
	"no reason to live",
}

// CrisisReply is returned instead of a generated answer when crisis
// language is detected
const CrisisReply = "It sounds like you're going through something really painful, and you don't have to face it alone. " +
	"If you are in immediate danger, please call your local emergency number. " +
	"You can call or text 988 (Suicide & Crisis Lifeline, US) or find international helplines at findahelpline.com. " +
	"Reaching out to someone you trust right now can help too."

const chatSystemPrompt = "You are a warm, supportive companion inside a mood journaling app. " +
	"Respond with empathy in at most 3 short sentences. " +
	"Do not diagnose, do not give medical advice, and gently suggest professional support if the user seems to be struggling."

var fallbackReplies = map[string]string{
	"low": "I'm sorry today feels heavy. Be gentle with yourself, and consider reaching out to someone you trust. " +
		"Small steps like a short walk or some rest can make a difference.",
	"mid": "Thanks for sharing how you're feeling. Noticing your mood is a great habit. " +
		"What's one small thing that could make the rest of your day a little better?",
	"high": "It's great to hear things are going well! " +
		"Take a moment to notice what's helping, so you can come back to it on harder days.",
}

// ChatMetrics is the subset of the metrics recorder used here
type ChatMetrics interface {
	ObserveChatReply(source string)
}

type chatService struct {
	generator textgen.Generator
	convRepo  repository.ConversationRepository
	crisis    repository.CrisisLogRepository
	moodRepo  repository.MoodEntryRepository
	metrics   ChatMetrics
	clock     Clock
}

// NewChatService creates a new supportive chat service
func NewChatService(
	generator textgen.Generator,
	convRepo repository.ConversationRepository,
	crisis repository.CrisisLogRepository,
	moodRepo repository.MoodEntryRepository,
	m ChatMetrics,
	clock Clock,
) ChatService {
	return &chatService{
		generator: generator,
		convRepo:  convRepo,
		crisis:    crisis,
		moodRepo:  moodRepo,
		metrics:   m,
		clock:     clock,
	}
}

func (s *chatService) Reply(ctx context.Context, userID string, req *models.ChatRequest) (*models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)

	verr := &ValidationError{}
	if n := utf8.RuneCountInString(message); n == 0 || n > MaxChatMessageLength {
		verr.add("message", "invalid_length", fmt.Sprintf("must be between 1 and %d characters", MaxChatMessageLength))
	}
	if req.MoodScore != nil {
		validateScore(verr, *req.MoodScore)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx)
	now := s.clock.now()

	if matched := DetectCrisis(message); len(matched) > 0 {
		log.Warn("crisis language detected", logger.Strings("keywords", matched))
		if err := s.crisis.Create(ctx, &models.CrisisSupportLog{
			UserID:          userID,
			TriggerKeywords: matched,
			MessageExcerpt:  excerpt(message, maxExcerptLength),
			CreatedAt:       now,
		}); err != nil {
			log.Error("failed to record crisis support log", logger.Err(err))
		}
		s.observe(metrics.ReplySourceCrisis)
		return &models.ChatResponse{Reply: CrisisReply, CrisisDetected: true}, nil
	}

	recentAvg, hasRecent := s.recentAverage(ctx, userID, now)

	resp := &models.ChatResponse{}
	text, err := s.generator.Generate(ctx, chatSystemPrompt, buildChatPrompt(message, req.MoodScore, recentAvg, hasRecent))
	if err != nil {
		log.Warn("text generation failed, using fallback reply", logger.Err(err))
		resp.Reply = FallbackReply(moodForFallback(req.MoodScore, recentAvg, hasRecent))
		resp.UsedFallback = true
		s.observe(metrics.ReplySourceFallback)
	} else {
		resp.Reply = text
		s.observe(metrics.ReplySourceLLM)
	}

	if _, err := s.convRepo.Create(ctx, &models.AIConversation{
		UserID:       userID,
		UserMessage:  message,
		AIResponse:   resp.Reply,
		MoodScore:    req.MoodScore,
		UsedFallback: resp.UsedFallback,
		CreatedAt:    now,
	}); err != nil {
		log.Error("failed to save conversation", logger.Err(err))
	}

	return resp, nil
}

func (s *chatService) History(ctx context.Context, userID string, limit int) ([]models.AIConversation, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultHistoryLimit
	}
	convs, err := s.convRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []models.AIConversation{}
	}
	return convs, nil
}

// recentAverage is best effort; a failed lookup only removes prompt context
func (s *chatService) recentAverage(ctx context.Context, userID string, now time.Time) (float64, bool) {
	entries, err := s.moodRepo.ListByDateRange(ctx, userID, now.AddDate(0, 0, -chatContextDays), now.Add(MaxFutureSkew))
	if err != nil {
		logger.Ctx(ctx).Warn("failed to load recent moods for chat context", logger.Err(err))
		return 0, false
	}
	if len(entries) == 0 {
		return 0, false
	}
	total := 0
	for _, e := range entries {
		total += e.MoodScore
	}
	return float64(total) / float64(len(entries)), true
}

func (s *chatService) observe(source string) {
	if s.metrics != nil {
		s.metrics.ObserveChatReply(source)
	}
}

// DetectCrisis returns the crisis keywords found in message
func DetectCrisis(message string) []string {
	lower := strings.ToLower(message)
	var matched []string
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// FallbackReply picks the canned reply for a mood score: low up to 4,
// high from 8, mid otherwise
func FallbackReply(mood int) string {
	switch {
	case mood <= 4:
		return fallbackReplies["low"]
	case mood >= 8:
		return fallbackReplies["high"]
	default:
		return fallbackReplies["mid"]
	}
}

// moodForFallback prefers the mood sent with the message, then the recent
// average, and treats an unknown mood as mid-range
func moodForFallback(current *int, recentAvg float64, hasRecent bool) int {
	if current != nil {
		return *current
	}
	if hasRecent {
		return int(math.Round(recentAvg))
	}
	return 5
}

func buildChatPrompt(message string, mood *int, recentAvg float64, hasRecent bool) string {
	var b strings.Builder
	if mood != nil {
		fmt.Fprintf(&b, "My mood right now is %d out of 10.\n", *mood)
	}
	if hasRecent {
		fmt.Fprintf(&b, "My average mood over the last week was %.1f out of 10.\n", recentAvg)
	}
	b.WriteString(message)
	return b.String()
}

func excerpt(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
