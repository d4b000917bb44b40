// Package prediction implements the mood pattern analyzer and the
// short-horizon mood forecaster. Everything here is pure computation over
// in-memory entries: no I/O, no shared state, safe for concurrent use.
package prediction

import "time"

// MoodEntry is a single logged mood, as consumed by the engine
type MoodEntry struct {
	Score      int       `json:"score"`
	Notes      string    `json:"notes,omitempty"`
	Activities []string  `json:"activities,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// MonthlyTrend is the 30-vs-30 entry direction computed by the analyzer
type MonthlyTrend string

const (
	MonthlyTrendUpward   MonthlyTrend = "upward"
	MonthlyTrendDownward MonthlyTrend = "downward"
	MonthlyTrendStable   MonthlyTrend = "stable"
)

// Volatility classifies the spread of all supplied scores
type Volatility string

const (
	VolatilityHigh   Volatility = "high"
	VolatilityMedium Volatility = "medium"
	VolatilityLow    Volatility = "low"
)

// Trend is the 7-vs-7 entry direction exposed on a prediction
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// weekdayNames is the canonical iteration order for weekly patterns
var weekdayNames = []string{
	time.Sunday.String(),
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
}

// WeeklyPattern maps every English weekday name to the average score of the
// entries that fell on it. Weekdays without entries hold 0; use Observed,
// BestDay and WorstDay instead of ranking the raw map.
type WeeklyPattern map[string]float64

// Observed returns only the weekdays that have at least one entry
func (w WeeklyPattern) Observed() map[string]float64 {
	observed := make(map[string]float64, len(w))
	for day, avg := range w {
		if avg > 0 {
			observed[day] = avg
		}
	}
	return observed
}

// OverallAverage is the mean of the observed weekday averages.
// ok is false when no weekday has data.
func (w WeeklyPattern) OverallAverage() (avg float64, ok bool) {
	var sum float64
	count := 0
	for _, day := range weekdayNames {
		if v := w[day]; v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// BestDay returns the observed weekday with the highest average.
// Ties resolve to the earlier weekday, starting from Sunday.
func (w WeeklyPattern) BestDay() (day string, avg float64, ok bool) {
	for _, name := range weekdayNames {
		v := w[name]
		if v <= 0 {
			continue
		}
		if !ok || v > avg {
			day, avg, ok = name, v, true
		}
	}
	return
}

// WorstDay returns the observed weekday with the lowest average
func (w WeeklyPattern) WorstDay() (day string, avg float64, ok bool) {
	for _, name := range weekdayNames {
		v := w[name]
		if v <= 0 {
			continue
		}
		if !ok || v < avg {
			day, avg, ok = name, v, true
		}
	}
	return
}

// PatternAnalysis is derived from a history on every call and never stored
type PatternAnalysis struct {
	WeeklyPattern    WeeklyPattern      `json:"weekly_pattern"`
	MonthlyTrend     MonthlyTrend       `json:"monthly_trend"`
	Volatility       Volatility         `json:"volatility"`
	ConsistencyScore float64            `json:"consistency_score"`
	SeasonalFactors  map[string]float64 `json:"seasonal_factors"` // reserved, always empty
}

// ForecastDay is one day of the forward-looking forecast
type ForecastDay struct {
	Date          string  `json:"date"` // YYYY-MM-DD in the predictor's location
	PredictedMood float64 `json:"predicted_mood"`
	DayOfWeek     string  `json:"day_of_week"`
}

// PredictionResult is the output of PredictMoodTrend
type PredictionResult struct {
	PredictedScore   float64       `json:"predicted_score"`
	Confidence       float64       `json:"confidence"`
	Trend            Trend         `json:"trend"`
	Factors          []string      `json:"factors"`
	Recommendations  []string      `json:"recommendations"`
	NextWeekForecast []ForecastDay `json:"next_week_forecast"`
}
