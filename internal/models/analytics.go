package models

import (
	"time"

	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
)

// Direction of a week-over-week change
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionSame Direction = "same"
)

// MoodSummary aggregates a user's entries over a date window
type MoodSummary struct {
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	AverageMood      float64          `json:"average_mood"`
	TotalEntries     int              `json:"total_entries"`
	CurrentStreak    int              `json:"current_streak"`
	LongestStreak    int              `json:"longest_streak"`
	BestDay          string           `json:"best_day,omitempty"`
	WorstDay         string           `json:"worst_day,omitempty"`
	MoodDistribution map[int]int      `json:"mood_distribution"`
	ActivityImpact   []ActivityImpact `json:"activity_impact"`
	DailySeries      []DailyMoodPoint `json:"daily_series"`
}

// ActivityImpact compares the average mood on entries with an activity to
// the overall average of the window
type ActivityImpact struct {
	Activity    string  `json:"activity"`
	AverageMood float64 `json:"average_mood"`
	Impact      float64 `json:"impact"`
	Count       int     `json:"count"`
}

// DailyMoodPoint is one calendar day of the chart series
type DailyMoodPoint struct {
	Date        string  `json:"date"` // 2006-01-02
	AverageMood float64 `json:"average_mood"`
	Entries     int     `json:"entries"`
}

// WeeklyMoodSummary compares this calendar week with the previous one
type WeeklyMoodSummary struct {
	ThisWeekAverage float64   `json:"this_week_average"`
	LastWeekAverage float64   `json:"last_week_average"`
	ThisWeekEntries int       `json:"this_week_entries"`
	LastWeekEntries int       `json:"last_week_entries"`
	ChangePercent   float64   `json:"change_percent"`
	Direction       Direction `json:"direction"`
}

// PredictionResponse wraps the engine output with gating information
type PredictionResponse struct {
	prediction.PredictionResult
	Patterns        prediction.PatternAnalysis `json:"patterns"`
	EntriesAnalyzed int                        `json:"entries_analyzed"`
	IsPremium       bool                       `json:"is_premium"`
	ForecastLimited bool                       `json:"forecast_limited"`
}

// Dashboard bundles the three home-screen widgets
type Dashboard struct {
	Summary    *MoodSummary        `json:"summary"`
	Weekly     *WeeklyMoodSummary  `json:"weekly"`
	Prediction *PredictionResponse `json:"prediction"`
}

// AIInsight is a short generated narrative of the user's prediction
type AIInsight struct {
	Insight     string    `json:"insight"`
	Generated   bool      `json:"generated"`
	GeneratedAt time.Time `json:"generated_at"`
}
