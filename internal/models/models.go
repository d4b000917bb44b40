package models

import "time"

// Subscription tiers and statuses as stored on the users row
const (
	TierFree    = "free"
	TierPremium = "premium"

	StatusActive     = "active"
	StatusTrialing   = "trialing"
	StatusPastDue    = "past_due"
	StatusCanceled   = "canceled"
	StatusIncomplete = "incomplete"
)

// User is a row of the users table
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	DisplayName        *string    `json:"display_name,omitempty"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionTier   string     `json:"subscription_tier"`
	StripeCustomerID   *string    `json:"stripe_customer_id,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsPremium reports whether the user has a paid tier with a live subscription
func (u *User) IsPremium() bool {
	if u == nil || u.SubscriptionTier != TierPremium {
		return false
	}
	return u.SubscriptionStatus == StatusActive || u.SubscriptionStatus == StatusTrialing
}

// MoodEntry is a row of the mood_entries table. CreatedAt is the moment the
// mood was felt, which the client may backdate.
type MoodEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MoodScore  int       `json:"mood_score"`
	Notes      *string   `json:"notes,omitempty"`
	Activities []string  `json:"activities"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateMoodEntryRequest is the body of POST /moods
type CreateMoodEntryRequest struct {
	ID         *string    `json:"id"` // optional client-generated UUIDv7
	MoodScore  int        `json:"mood_score"`
	Notes      *string    `json:"notes"`
	Activities []string   `json:"activities"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"created_at"`
}

// UpdateMoodEntryRequest is the body of PATCH /moods/:id. Notes uses
// NullableString so that an explicit null clears it.
type UpdateMoodEntryRequest struct {
	MoodScore  *int           `json:"mood_score"`
	Notes      NullableString `json:"notes"`
	Activities *[]string      `json:"activities"`
	Tags       *[]string      `json:"tags"`
}

// ListMoodEntriesParams pages through a user's entries, newest first
type ListMoodEntriesParams struct {
	Limit  int
	Offset int
}

// AIConversation is one chat exchange, stored in ai_conversations
type AIConversation struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	UserMessage  string    `json:"user_message"`
	AIResponse   string    `json:"ai_response"`
	MoodScore    *int      `json:"mood_score,omitempty"`
	UsedFallback bool      `json:"used_fallback"`
	CreatedAt    time.Time `json:"created_at"`
}

// CrisisSupportLog records that crisis language was detected in a message
type CrisisSupportLog struct {
	ID              string    `json:"id,omitempty"`
	UserID          string    `json:"user_id"`
	TriggerKeywords []string  `json:"trigger_keywords"`
	MessageExcerpt  string    `json:"message_excerpt"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message   string `json:"message"`
	MoodScore *int   `json:"mood_score"`
}

// ChatResponse is the supportive reply returned to the app
type ChatResponse struct {
	Reply          string `json:"reply"`
	CrisisDetected bool   `json:"crisis_detected"`
	UsedFallback   bool   `json:"used_fallback"`
}

// SubscriptionInfo is the billing view of a user
type SubscriptionInfo struct {
	Status           string     `json:"status"`
	Tier             string     `json:"tier"`
	IsPremium        bool       `json:"is_premium"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
