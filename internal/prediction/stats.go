package prediction

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of the entry scores, 0 for no entries
func mean(entries []MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += float64(e.Score)
	}
	return sum / float64(len(entries))
}

// populationStdDev computes the population standard deviation of the scores
func populationStdDev(entries []MoodEntry) float64 {
	n := len(entries)
	if n == 0 {
		return 0
	}
	m := mean(entries)
	var sq float64
	for _, e := range entries {
		d := float64(e.Score) - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(n))
}

// window returns entries[from:to] clipped to the slice bounds
func window(entries []MoodEntry, from, to int) []MoodEntry {
	if from >= len(entries) {
		return nil
	}
	if to > len(entries) {
		to = len(entries)
	}
	return entries[from:to]
}

// sortDescending returns a copy of history ordered newest first
func sortDescending(history []MoodEntry) []MoodEntry {
	sorted := make([]MoodEntry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
