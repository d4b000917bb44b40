package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/mrmorrispmorris/dailymood/backend/internal/prediction"
)

type predictOptions struct {
	file      string
	format    string
	daysAhead int
	tz        string
	now       func() time.Time
}

// predictOutput is the JSON document written by --format json
type predictOutput struct {
	Prediction prediction.PredictionResult `json:"prediction"`
	Patterns   prediction.PatternAnalysis  `json:"patterns"`
}

func newPredictCmd() *cobra.Command {
	opts := &predictOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict mood from a JSON file of entries",
		Long: `Run the mood prediction engine offline over a JSON array of entries
({"score": 7, "timestamp": "2026-03-01T09:00:00Z", "activities": ["walk"]})
and print the forecast.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "JSON file of mood entries (- for stdin)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table or json")
	cmd.Flags().IntVar(&opts.daysAhead, "days-ahead", prediction.DefaultDaysAhead, "Days ahead of today to predict")
	cmd.Flags().StringVar(&opts.tz, "tz", "UTC", "IANA timezone used for weekdays and dates")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runPredict(out io.Writer, opts *predictOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: use table or json", opts.format)
	}

	loc, err := time.LoadLocation(opts.tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.tz, err)
	}

	entries, err := readEntries(opts.file)
	if err != nil {
		return err
	}

	predictor := prediction.NewPredictor(prediction.WithClock(opts.now), prediction.WithLocation(loc))
	result := predictor.PredictMoodTrend(entries, opts.daysAhead, nil)
	patterns := predictor.AnalyzeHistory(entries)

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(predictOutput{Prediction: result, Patterns: patterns})
	}
	return printPrediction(out, len(entries), result, patterns)
}

func readEntries(path string) ([]prediction.MoodEntry, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open entries file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var entries []prediction.MoodEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	return entries, nil
}

func printPrediction(out io.Writer, count int, result prediction.PredictionResult, patterns prediction.PatternAnalysis) error {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s %.1f/10  trend %s  confidence %.0f%%  (%d entries)\n",
		bold("Predicted mood:"), result.PredictedScore, colorTrend(result.Trend), result.Confidence*100, count)
	fmt.Fprintf(out, "Volatility %s, consistency %.2f, monthly trend %s\n\n",
		patterns.Volatility, patterns.ConsistencyScore, patterns.MonthlyTrend)

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Date", "Day", "Predicted"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, day := range result.NextWeekForecast {
		data = append(data, []string{
			day.Date,
			day.DayOfWeek,
			colorScore(day.PredictedMood),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	printList(out, "Factors", result.Factors)
	printList(out, "Recommendations", result.Recommendations)
	return nil
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", color.New(color.Bold).Sprint(title))
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}

func colorTrend(trend prediction.Trend) string {
	switch trend {
	case prediction.TrendImproving:
		return color.New(color.FgGreen).Sprint(string(trend) + " ▲")
	case prediction.TrendDeclining:
		return color.New(color.FgRed).Sprint(string(trend) + " ▼")
	default:
		return color.New(color.FgYellow).Sprint(string(trend))
	}
}

// colorScore greens good days and reds low ones, matching the chat thresholds
func colorScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', 1, 64)
	switch {
	case score >= 7:
		return color.New(color.FgGreen).Sprint(s)
	case score <= 4:
		return color.New(color.FgRed).Sprint(s)
	default:
		return s
	}
}
