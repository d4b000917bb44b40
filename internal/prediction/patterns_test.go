package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzePatterns_WeeklyPatternHasAllDays(t *testing.T) {
	p := newTestPredictor()
	// Wednesday 7, Tuesday 5, Monday 3 and 9
	history := []MoodEntry{
		{Score: 7, Timestamp: fixedNow},
		{Score: 5, Timestamp: fixedNow.AddDate(0, 0, -1)},
		{Score: 3, Timestamp: fixedNow.AddDate(0, 0, -2)},
		{Score: 9, Timestamp: fixedNow.AddDate(0, 0, -9)},
	}

	pattern := p.AnalyzePatterns(history).WeeklyPattern

	assert.Len(t, pattern, 7)
	for _, day := range weekdayNames {
		_, ok := pattern[day]
		assert.True(t, ok, "missing %s", day)
	}
	assert.Equal(t, 7.0, pattern["Wednesday"])
	assert.Equal(t, 5.0, pattern["Tuesday"])
	assert.Equal(t, 6.0, pattern["Monday"])
	assert.Equal(t, 0.0, pattern["Sunday"])
}

func TestAnalyzePatterns_WeekdayFollowsLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	p := NewPredictor(WithLocation(ny))

	// 02:00 UTC Wednesday is still Tuesday evening in New York
	entry := MoodEntry{Score: 8, Timestamp: time.Date(2026, time.March, 18, 2, 0, 0, 0, time.UTC)}
	pattern := p.AnalyzePatterns([]MoodEntry{entry}).WeeklyPattern

	assert.Equal(t, 8.0, pattern["Tuesday"])
	assert.Equal(t, 0.0, pattern["Wednesday"])
}

func TestAnalyzePatterns_Volatility(t *testing.T) {
	p := newTestPredictor()

	tests := []struct {
		name   string
		scores []int
		want   Volatility
	}{
		// mean 5.5, std dev 0.5
		{"low", []int{5, 6, 5, 6, 5, 6, 5, 6}, VolatilityLow},
		// mean 5.5, std dev ~3.04
		{"high", []int{2, 9, 3, 8, 2, 9, 3, 8}, VolatilityHigh},
		// mean 5.5, std dev ~2.06
		{"medium", []int{4, 7, 3, 8, 4, 7, 3, 8}, VolatilityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.AnalyzePatterns(dailyHistory(tt.scores...))
			assert.Equal(t, tt.want, got.Volatility)
		})
	}
}

func TestAnalyzePatterns_ConsistencyScore(t *testing.T) {
	p := newTestPredictor()

	uniform := p.AnalyzePatterns(dailyHistory(repeat(5, 10)...))
	assert.Equal(t, 1.0, uniform.ConsistencyScore)

	// std dev 4.5 drives the score below zero before clamping
	extreme := p.AnalyzePatterns(dailyHistory(1, 10, 1, 10, 1, 10))
	assert.Equal(t, 0.0, extreme.ConsistencyScore)

	medium := p.AnalyzePatterns(dailyHistory(4, 6, 4, 6))
	assert.InDelta(t, 0.75, medium.ConsistencyScore, 1e-9)
}

func TestAnalyzePatterns_SeasonalFactorsEmpty(t *testing.T) {
	got := newTestPredictor().AnalyzePatterns(dailyHistory(5, 6, 7))
	assert.NotNil(t, got.SeasonalFactors)
	assert.Empty(t, got.SeasonalFactors)
}

func TestMonthlyTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   MonthlyTrend
	}{
		{"upward", append(repeat(8, 30), repeat(5, 30)...), MonthlyTrendUpward},
		{"downward", append(repeat(5, 30), repeat(8, 30)...), MonthlyTrendDownward},
		{"within five percent", append(repeat(7, 30), repeat(7, 30)...), MonthlyTrendStable},
		{"older window too small", append(repeat(9, 30), repeat(2, 10)...), MonthlyTrendStable},
		{"older window just large enough", append(repeat(9, 30), repeat(2, 11)...), MonthlyTrendUpward},
		{"recent window too small", repeat(9, 10), MonthlyTrendStable},
		{"ignores entries past sixty", append(append(repeat(6, 30), repeat(6, 30)...), repeat(1, 30)...), MonthlyTrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monthlyTrend(dailyHistory(tt.scores...)))
		})
	}
}

func TestWeeklyPattern_Ranking(t *testing.T) {
	pattern := WeeklyPattern{
		"Sunday": 0, "Monday": 7.5, "Tuesday": 0, "Wednesday": 4,
		"Thursday": 0, "Friday": 8, "Saturday": 0,
	}

	best, bestAvg, ok := pattern.BestDay()
	assert.True(t, ok)
	assert.Equal(t, "Friday", best)
	assert.Equal(t, 8.0, bestAvg)

	worst, worstAvg, ok := pattern.WorstDay()
	assert.True(t, ok)
	assert.Equal(t, "Wednesday", worst)
	assert.Equal(t, 4.0, worstAvg)

	overall, ok := pattern.OverallAverage()
	assert.True(t, ok)
	assert.InDelta(t, 6.5, overall, 1e-9)

	assert.Len(t, pattern.Observed(), 3)

	_, _, ok = WeeklyPattern{"Monday": 0}.BestDay()
	assert.False(t, ok)
}

func TestBuildRecommendations(t *testing.T) {
	pattern := WeeklyPattern{"Monday": 8, "Friday": 3}

	recs := buildRecommendations(TrendDeclining, PatternAnalysis{
		WeeklyPattern: pattern,
		Volatility:    VolatilityHigh,
	})
	assert.Len(t, recs, MaxRecommendations)
	assert.Contains(t, recs[1], "routine")
	assert.Contains(t, recs[2], "Friday")

	calm := buildRecommendations(TrendStable, PatternAnalysis{
		WeeklyPattern: WeeklyPattern{},
		Volatility:    VolatilityLow,
	})
	assert.Len(t, calm, 2)
	assert.Contains(t, calm[1], "Keep logging")
}
