package prediction

const (
	// Monthly trend compares the newest window against the one before it
	MonthlyWindowSize = 30

	// Both monthly windows need at least this many entries to be compared
	MinMonthlyWindowEntries = 11

	// Relative change needed before the monthly trend leaves "stable"
	MonthlyTrendThreshold = 0.05

	// Population standard deviation bounds for the volatility classes
	HighVolatilityStdDev = 2.5
	LowVolatilityStdDev  = 1.5

	// Standard deviation at which consistency reaches zero
	consistencyStdDevScale = 4.0
)

// AnalyzePatterns derives the weekly pattern, monthly trend, volatility and
// consistency of a history that is already sorted newest first. Short
// histories degrade to neutral values rather than failing.
func (p *Predictor) AnalyzePatterns(history []MoodEntry) PatternAnalysis {
	stdDev := populationStdDev(history)

	return PatternAnalysis{
		WeeklyPattern:    p.weeklyPattern(history),
		MonthlyTrend:     monthlyTrend(history),
		Volatility:       classifyVolatility(stdDev),
		ConsistencyScore: consistencyScore(stdDev),
		SeasonalFactors:  map[string]float64{},
	}
}

// AnalyzeHistory sorts a copy of history newest first and analyzes it
func (p *Predictor) AnalyzeHistory(history []MoodEntry) PatternAnalysis {
	return p.AnalyzePatterns(sortDescending(history))
}

// weeklyPattern averages scores per weekday in the predictor's location.
// All seven weekdays are always present; days without entries are 0.
func (p *Predictor) weeklyPattern(history []MoodEntry) WeeklyPattern {
	sums := make(map[string]float64, 7)
	counts := make(map[string]int, 7)

	for _, e := range history {
		day := e.Timestamp.In(p.loc).Weekday().String()
		sums[day] += float64(e.Score)
		counts[day]++
	}

	pattern := make(WeeklyPattern, 7)
	for _, day := range weekdayNames {
		if counts[day] == 0 {
			pattern[day] = 0
			continue
		}
		pattern[day] = sums[day] / float64(counts[day])
	}
	return pattern
}

// monthlyTrend compares the 30 newest entries with entries 31-60
func monthlyTrend(history []MoodEntry) MonthlyTrend {
	recent := window(history, 0, MonthlyWindowSize)
	older := window(history, MonthlyWindowSize, 2*MonthlyWindowSize)

	if len(recent) < MinMonthlyWindowEntries || len(older) < MinMonthlyWindowEntries {
		return MonthlyTrendStable
	}

	olderAvg := mean(older)
	if olderAvg == 0 {
		return MonthlyTrendStable
	}

	change := (mean(recent) - olderAvg) / olderAvg
	switch {
	case change > MonthlyTrendThreshold:
		return MonthlyTrendUpward
	case change < -MonthlyTrendThreshold:
		return MonthlyTrendDownward
	default:
		return MonthlyTrendStable
	}
}

func classifyVolatility(stdDev float64) Volatility {
	switch {
	case stdDev > HighVolatilityStdDev:
		return VolatilityHigh
	case stdDev < LowVolatilityStdDev:
		return VolatilityLow
	default:
		return VolatilityMedium
	}
}

func consistencyScore(stdDev float64) float64 {
	return clamp(1-stdDev/consistencyStdDevScale, 0, 1)
}
