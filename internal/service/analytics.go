package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mrmorrispmorris/dailymood/backend/internal/models"
	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
)

const (
	// DefaultSummaryDays is the window used when no dates are given
	DefaultSummaryDays = 30

	// MinActivityEntries is how often an activity must appear to be ranked
	MinActivityEntries = 2

	// WeeklyChangeThreshold is the percent change needed to leave "same"
	WeeklyChangeThreshold = 5.0

	dateLayout = "2006-01-02"
)

type analyticsService struct {
	moodRepo  repository.MoodEntryRepository
	predictor *prediction.Predictor
	clock     Clock
}

// NewAnalyticsService creates a new analytics service. Calendar days and
// weekdays are taken in the predictor's location.
func NewAnalyticsService(moodRepo repository.MoodEntryRepository, predictor *prediction.Predictor, clock Clock) AnalyticsService {
	return &analyticsService{moodRepo: moodRepo, predictor: predictor, clock: clock}
}

func (s *analyticsService) GetSummary(ctx context.Context, userID string, start, end *time.Time) (*models.MoodSummary, error) {
	now := s.clock.now()

	to := now
	if end != nil {
		to = *end
	}
	from := to.AddDate(0, 0, -DefaultSummaryDays)
	if start != nil {
		from = *start
	}
	if from.After(to) {
		verr := &ValidationError{}
		verr.add("start_date", "invalid_range", "must not be after end_date")
		return nil, verr
	}

	entries, err := s.moodRepo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	summary := s.summarize(entries, now)
	summary.StartDate = from
	summary.EndDate = to
	return summary, nil
}

func (s *analyticsService) GetWeeklySummary(ctx context.Context, userID string) (*models.WeeklyMoodSummary, error) {
	now := s.clock.now()
	loc := s.predictor.Location()

	today := dayStart(now, loc)
	thisWeekStart := today.AddDate(0, 0, -int(today.Weekday()))
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)

	entries, err := s.moodRepo.ListByDateRange(ctx, userID, lastWeekStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	return weeklySummary(entries, thisWeekStart, lastWeekStart), nil
}

func (s *analyticsService) summarize(entries []models.MoodEntry, now time.Time) *models.MoodSummary {
	loc := s.predictor.Location()

	summary := &models.MoodSummary{
		TotalEntries:     len(entries),
		MoodDistribution: make(map[int]int, MaxMoodScore),
		ActivityImpact:   []models.ActivityImpact{},
		DailySeries:      []models.DailyMoodPoint{},
	}
	for score := MinMoodScore; score <= MaxMoodScore; score++ {
		summary.MoodDistribution[score] = 0
	}
	if len(entries) == 0 {
		return summary
	}

	total := 0
	for _, e := range entries {
		total += e.MoodScore
		summary.MoodDistribution[e.MoodScore]++
	}
	overall := float64(total) / float64(len(entries))
	summary.AverageMood = round(overall, 1)

	summary.CurrentStreak, summary.LongestStreak = streaks(entries, now, loc)

	pattern := s.predictor.AnalyzeHistory(toEngineEntries(entries)).WeeklyPattern
	if day, _, ok := pattern.BestDay(); ok {
		summary.BestDay = day
	}
	if day, _, ok := pattern.WorstDay(); ok {
		summary.WorstDay = day
	}

	summary.ActivityImpact = activityImpact(entries, overall)
	summary.DailySeries = dailySeries(entries, loc)
	return summary
}

// streaks counts consecutive local calendar days with at least one entry.
// The current streak is alive while the latest entry is from today or
// yesterday.
func streaks(entries []models.MoodEntry, now time.Time, loc *time.Location) (current, longest int) {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.CreatedAt.In(loc).Format(dateLayout)] = true
	}

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		t, _ := time.ParseInLocation(dateLayout, d, loc)
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	run := 0
	for i, d := range dates {
		if i > 0 && d.Equal(dates[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := dayStart(now, loc)
	last := dates[len(dates)-1]
	if !last.Equal(today) && !last.Equal(today.AddDate(0, 0, -1)) {
		return 0, longest
	}
	return run, longest
}

func activityImpact(entries []models.MoodEntry, overall float64) []models.ActivityImpact {
	type acc struct {
		name  string
		sum   int
		count int
	}
	byKey := make(map[string]*acc)
	var order []string

	for _, e := range entries {
		seen := make(map[string]bool, len(e.Activities))
		for _, a := range e.Activities {
			key := strings.ToLower(strings.TrimSpace(a))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true

			if byKey[key] == nil {
				byKey[key] = &acc{name: strings.TrimSpace(a)}
				order = append(order, key)
			}
			byKey[key].sum += e.MoodScore
			byKey[key].count++
		}
	}

	impacts := make([]models.ActivityImpact, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		if a.count < MinActivityEntries {
			continue
		}
		avg := float64(a.sum) / float64(a.count)
		impacts = append(impacts, models.ActivityImpact{
			Activity:    a.name,
			AverageMood: round(avg, 1),
			Impact:      round(avg-overall, 2),
			Count:       a.count,
		})
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		if impacts[i].Impact != impacts[j].Impact {
			return impacts[i].Impact > impacts[j].Impact
		}
		return impacts[i].Count > impacts[j].Count
	})
	return impacts
}

func dailySeries(entries []models.MoodEntry, loc *time.Location) []models.DailyMoodPoint {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, e := range entries {
		d := e.CreatedAt.In(loc).Format(dateLayout)
		sums[d] += e.MoodScore
		counts[d]++
	}

	series := make([]models.DailyMoodPoint, 0, len(counts))
	for d, n := range counts {
		series = append(series, models.DailyMoodPoint{
			Date:        d,
			AverageMood: round(float64(sums[d])/float64(n), 1),
			Entries:     n,
		})
	}
	// ISO dates sort chronologically as strings
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// weeklySummary compares entries since thisWeekStart with the week before.
// The change is only computed when both weeks have entries.
func weeklySummary(entries []models.MoodEntry, thisWeekStart, lastWeekStart time.Time) *models.WeeklyMoodSummary {
	var thisSum, lastSum, thisCount, lastCount int
	for _, e := range entries {
		switch {
		case !e.CreatedAt.Before(thisWeekStart):
			thisSum += e.MoodScore
			thisCount++
		case !e.CreatedAt.Before(lastWeekStart):
			lastSum += e.MoodScore
			lastCount++
		}
	}

	summary := &models.WeeklyMoodSummary{
		ThisWeekEntries: thisCount,
		LastWeekEntries: lastCount,
		Direction:       models.DirectionSame,
	}
	if thisCount > 0 {
		summary.ThisWeekAverage = round(float64(thisSum)/float64(thisCount), 1)
	}
	if lastCount > 0 {
		summary.LastWeekAverage = round(float64(lastSum)/float64(lastCount), 1)
	}
	if thisCount == 0 || lastCount == 0 {
		return summary
	}

	thisAvg := float64(thisSum) / float64(thisCount)
	lastAvg := float64(lastSum) / float64(lastCount)
	change := (thisAvg - lastAvg) / lastAvg * 100
	summary.ChangePercent = round(change, 1)

	switch {
	case change > WeeklyChangeThreshold:
		summary.Direction = models.DirectionUp
	case change < -WeeklyChangeThreshold:
		summary.Direction = models.DirectionDown
	}
	return summary
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
