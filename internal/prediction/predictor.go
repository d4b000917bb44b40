package prediction

import (
	"math"
	"time"
)

const (
	// DefaultDaysAhead is used when PredictMoodTrend gets a non-positive horizon
	DefaultDaysAhead = 7

	// ForecastDays is the length of NextWeekForecast
	ForecastDays = 7

	// MinEntriesForPrediction is the floor below which a neutral guess is returned
	MinEntriesForPrediction = 3

	// Fallback values returned for sparse histories
	FallbackScore      = 5.5
	FallbackConfidence = 0.1

	// Signal windows for the base prediction
	weightedWindowSize   = 14
	movingAverageWindow  = 7
	momentumWindowSize   = 3
	momentumFactor       = 0.3
	weightedBlend        = 0.5
	movingAverageBlend   = 0.3
	momentumBlend        = 0.2
	dayOfWeekFactor      = 0.2
	monthlyTrendNudge    = 0.1
	shortTermWindowSize  = 7
	shortTermThreshold   = 0.08
	confidenceFullDataAt = 30.0

	// Confidence component weights
	dataQuantityWeight = 0.4
	consistencyWeight  = 0.3
	recencyWeight      = 0.2
	recencyHorizonDays = 7.0
	minConfidence      = 0.1
	maxConfidence      = 0.95

	minScore = 1.0
	maxScore = 10.0
)

// recencyWeights weights the 14 newest entries, newest first
var recencyWeights = []float64{
	0.20, 0.16, 0.13, 0.11, 0.09, 0.07, 0.06,
	0.05, 0.04, 0.03, 0.02, 0.02, 0.01, 0.01,
}

// Predictor produces mood forecasts. The clock and the timezone used for
// weekday grouping are injected so results are reproducible.
type Predictor struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Predictor
type Option func(*Predictor)

// WithClock overrides the wall clock used for "today" and "tomorrow"
func WithClock(now func() time.Time) Option {
	return func(p *Predictor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLocation sets the timezone used to derive weekdays and calendar dates
func WithLocation(loc *time.Location) Option {
	return func(p *Predictor) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// NewPredictor creates a predictor. Without options it uses time.Now and UTC.
func NewPredictor(opts ...Option) *Predictor {
	p := &Predictor{
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Location returns the timezone the predictor groups weekdays in
func (p *Predictor) Location() *time.Location {
	return p.loc
}

// PredictMoodTrend forecasts the mood for targetDate (default: now plus
// daysAhead days) and the next seven days. It never fails: histories with
// fewer than three entries yield a fixed low-confidence neutral result.
func (p *Predictor) PredictMoodTrend(history []MoodEntry, daysAhead int, targetDate *time.Time) PredictionResult {
	now := p.now().In(p.loc)

	if len(history) < MinEntriesForPrediction {
		return p.insufficientDataResult(now)
	}

	if daysAhead <= 0 {
		daysAhead = DefaultDaysAhead
	}

	sorted := sortDescending(history)
	patterns := p.AnalyzePatterns(sorted)

	target := now.AddDate(0, 0, daysAhead)
	if targetDate != nil {
		target = targetDate.In(p.loc)
	}

	base := basePrediction(sorted)
	predicted := round1(clamp(p.adjustForPatterns(base, target, patterns), minScore, maxScore))

	trend := shortTermTrend(sorted)

	return PredictionResult{
		PredictedScore:   predicted,
		Confidence:       confidence(sorted, patterns, now),
		Trend:            trend,
		Factors:          buildFactors(len(sorted), trend, patterns),
		Recommendations:  buildRecommendations(trend, patterns),
		NextWeekForecast: p.forecast(sorted, patterns, now),
	}
}

// insufficientDataResult is the fail-soft answer for sparse histories
func (p *Predictor) insufficientDataResult(now time.Time) PredictionResult {
	tomorrow := startOfDay(now).AddDate(0, 0, 1)
	return PredictionResult{
		PredictedScore: FallbackScore,
		Confidence:     FallbackConfidence,
		Trend:          TrendStable,
		Factors: []string{
			"Not enough mood entries yet for a reliable prediction",
		},
		Recommendations: []string{
			"Log your mood daily for at least a few days to unlock personalized predictions",
		},
		NextWeekForecast: []ForecastDay{{
			Date:          tomorrow.Format("2006-01-02"),
			PredictedMood: FallbackScore,
			DayOfWeek:     tomorrow.Weekday().String(),
		}},
	}
}

// =============================================================================
// Base prediction
// =============================================================================

// basePrediction blends a recency-weighted average, a 7-entry moving average
// and a momentum-adjusted moving average. history is sorted newest first.
func basePrediction(history []MoodEntry) float64 {
	weighted := weightedAverage(history)
	moving := mean(window(history, 0, movingAverageWindow))
	momentum := momentumAdjustment(history)

	return weightedBlend*weighted + movingAverageBlend*moving + momentumBlend*(moving+momentum)
}

// weightedAverage applies recencyWeights to the 14 newest entries, normalised
// by the weight actually used so short histories stay on the score scale
func weightedAverage(history []MoodEntry) float64 {
	recent := window(history, 0, weightedWindowSize)

	var sum, total float64
	for i, e := range recent {
		if i >= len(recencyWeights) {
			break
		}
		sum += float64(e.Score) * recencyWeights[i]
		total += recencyWeights[i]
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// momentumAdjustment compares the 3 newest entries with the 3 before them.
// It is zero unless both windows are full.
func momentumAdjustment(history []MoodEntry) float64 {
	if len(history) < 2*momentumWindowSize {
		return 0
	}
	latest := window(history, 0, momentumWindowSize)
	previous := window(history, momentumWindowSize, 2*momentumWindowSize)
	return momentumFactor * (mean(latest) - mean(previous))
}

// adjustForPatterns nudges a base value by the target weekday's deviation from
// the overall weekday average and by the monthly trend. Weekdays without
// entries contribute no adjustment.
func (p *Predictor) adjustForPatterns(base float64, target time.Time, patterns PatternAnalysis) float64 {
	adjusted := base

	day := target.In(p.loc).Weekday().String()
	if dayAvg := patterns.WeeklyPattern[day]; dayAvg > 0 {
		if overall, ok := patterns.WeeklyPattern.OverallAverage(); ok {
			adjusted += dayOfWeekFactor * (dayAvg - overall)
		}
	}

	switch patterns.MonthlyTrend {
	case MonthlyTrendUpward:
		adjusted += monthlyTrendNudge
	case MonthlyTrendDownward:
		adjusted -= monthlyTrendNudge
	}

	return adjusted
}

// =============================================================================
// Confidence and trend
// =============================================================================

// confidence combines data quantity, consistency, recency and a volatility
// bonus, clamped to [0.1, 0.95]
func confidence(history []MoodEntry, patterns PatternAnalysis, now time.Time) float64 {
	quantity := math.Min(1, float64(len(history))/confidenceFullDataAt) * dataQuantityWeight
	consistency := patterns.ConsistencyScore * consistencyWeight

	daysSince := now.Sub(history[0].Timestamp).Hours() / 24
	if daysSince < 0 {
		daysSince = 0
	}
	recency := math.Max(0, (recencyHorizonDays-daysSince)/recencyHorizonDays) * recencyWeight

	var volatilityBonus float64
	switch patterns.Volatility {
	case VolatilityLow:
		volatilityBonus = 0.1
	case VolatilityMedium:
		volatilityBonus = 0.05
	}

	return round2(clamp(quantity+consistency+recency+volatilityBonus, minConfidence, maxConfidence))
}

// shortTermTrend compares the 7 newest entries with the 7 before them. It is
// deliberately independent of the analyzer's monthly trend.
func shortTermTrend(history []MoodEntry) Trend {
	if len(history) < 2*shortTermWindowSize {
		return TrendStable
	}

	recent := mean(window(history, 0, shortTermWindowSize))
	previous := mean(window(history, shortTermWindowSize, 2*shortTermWindowSize))
	if previous == 0 {
		return TrendStable
	}

	change := (recent - previous) / previous
	switch {
	case change > shortTermThreshold:
		return TrendImproving
	case change < -shortTermThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// =============================================================================
// Forecast
// =============================================================================

// forecast predicts each of the next seven calendar days starting tomorrow.
// The base is computed from the unshifted history; only the weekday and
// monthly adjustments vary per day.
func (p *Predictor) forecast(history []MoodEntry, patterns PatternAnalysis, now time.Time) []ForecastDay {
	base := basePrediction(history)
	today := startOfDay(now)

	days := make([]ForecastDay, 0, ForecastDays)
	for i := 1; i <= ForecastDays; i++ {
		date := today.AddDate(0, 0, i)
		mood := round1(clamp(p.adjustForPatterns(base, date, patterns), minScore, maxScore))
		days = append(days, ForecastDay{
			Date:          date.Format("2006-01-02"),
			PredictedMood: mood,
			DayOfWeek:     date.Weekday().String(),
		})
	}
	return days
}

// startOfDay truncates t to local midnight in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
