package prediction

import "fmt"

// MaxRecommendations caps the recommendation list
const MaxRecommendations = 3

// buildFactors explains a prediction: data volume, trend, volatility and,
// when any weekday has data, the best day
func buildFactors(entryCount int, trend Trend, patterns PatternAnalysis) []string {
	factors := make([]string, 0, 4)

	switch {
	case entryCount >= 30:
		factors = append(factors, fmt.Sprintf("Based on %d mood entries, a solid history", entryCount))
	case entryCount >= 14:
		factors = append(factors, fmt.Sprintf("Based on %d mood entries, a moderate history", entryCount))
	default:
		factors = append(factors, fmt.Sprintf("Based on %d mood entries; predictions improve as you log more", entryCount))
	}

	switch trend {
	case TrendImproving:
		factors = append(factors, "Your mood has been improving over the past week")
	case TrendDeclining:
		factors = append(factors, "Your mood has dipped compared to the week before")
	default:
		factors = append(factors, "Your mood has been relatively stable recently")
	}

	switch patterns.Volatility {
	case VolatilityHigh:
		factors = append(factors, "Your mood varies a lot from day to day")
	case VolatilityMedium:
		factors = append(factors, "Your mood shows moderate day-to-day variation")
	default:
		factors = append(factors, "Your mood is very consistent")
	}

	if day, avg, ok := patterns.WeeklyPattern.BestDay(); ok {
		factors = append(factors, fmt.Sprintf("%s tends to be your best day (average %.1f)", day, avg))
	}

	return factors
}

// buildRecommendations assembles trend, volatility and weekday advice followed
// by a generic tracking tip, truncated to MaxRecommendations
func buildRecommendations(trend Trend, patterns PatternAnalysis) []string {
	recs := make([]string, 0, 4)

	switch trend {
	case TrendImproving:
		recs = append(recs, "Keep up what you've been doing lately, it seems to be working")
	case TrendDeclining:
		recs = append(recs, "Consider reaching out to someone you trust or planning an activity you enjoy")
	default:
		recs = append(recs, "Try adding a new activity to your week and see how it affects your mood")
	}

	if patterns.Volatility == VolatilityHigh {
		recs = append(recs, "A steady routine for sleep, meals and exercise can help even out mood swings")
	}

	best, _, hasBest := patterns.WeeklyPattern.BestDay()
	worst, _, hasWorst := patterns.WeeklyPattern.WorstDay()
	if hasBest && hasWorst && best != worst {
		recs = append(recs, fmt.Sprintf("Plan something uplifting for %s and notice what makes %s go well", worst, best))
	}

	recs = append(recs, "Keep logging daily to make your predictions more accurate")

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
