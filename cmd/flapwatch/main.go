// Package main implements the flapwatch CLI for cat-flap activity analysis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/flapwatch/flapwatch/pkg/flapwatch"
	"github.com/flapwatch/flapwatch/pkg/histogram"
	"github.com/flapwatch/flapwatch/pkg/season"
)

var (
	geminiAPIKey = flag.String("gemini-key", "", "Gemini API key for the narrative summary (or set GEMINI_API_KEY)")
	geminiModel  = flag.String("gemini-model", "", "Gemini model to use (or set GEMINI_MODEL)")
	gcpProject   = flag.String("gcp-project", "", "GCP project ID for Vertex AI (or set GCP_PROJECT)")
	reportURL    = flag.String("report-url", "", "Upstream vendor report page used as narrative context")
	cacheDir     = flag.String("cache-dir", "", "Cache directory (or set CACHE_DIR)")
	noCache      = flag.Bool("no-cache", false, "Disable caching")
	targetDay    = flag.String("target-weekday", "Monday", "Weekday truncated by the report cycle")
	jsonOut      = flag.Bool("json", false, "Print the full report as JSON")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("flapwatch CLI v1.2.0")
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <dataset.json | dataset URL>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	source := args[0]

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if *geminiModel == "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	if *gcpProject == "" {
		*gcpProject = os.Getenv("GCP_PROJECT")
	}
	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}

	weekdayTarget, err := parseWeekday(*targetDay)
	if err != nil {
		logger.Error("invalid target weekday", "value", *targetDay)
		os.Exit(1)
	}

	opts := []flapwatch.Option{
		flapwatch.WithGeminiAPIKey(*geminiAPIKey),
		flapwatch.WithGeminiModel(*geminiModel),
		flapwatch.WithGCPProject(*gcpProject),
		flapwatch.WithReportURL(*reportURL),
		flapwatch.WithTargetWeekday(weekdayTarget),
	}
	if *noCache {
		opts = append(opts, flapwatch.WithNoCache())
	} else if *cacheDir != "" {
		opts = append(opts, flapwatch.WithCacheDir(*cacheDir))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	analyzer := flapwatch.NewWithLogger(logger, opts...)
	defer func() {
		if err := analyzer.Close(); err != nil {
			logger.Error("failed to close analyzer", "error", err)
		}
	}()

	report, err := analyzer.AnalyzeSource(ctx, source)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logger.Error("encoding report", "error", err)
			os.Exit(1)
		}
		return
	}

	printReport(report)
}

func parseWeekday(name string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

func printReport(report *flapwatch.Report) {
	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	good := color.New(color.FgGreen)

	fmt.Print(histogram.Render(report.Circadian))
	fmt.Println()

	if report.Circadian.NoData {
		warn.Printf("Not enough data to analyze: %s\n", report.Circadian.Reason)
	} else {
		c := report.Circadian
		bold.Println("Circadian metrics")
		fmt.Printf("  Rhythm:         %s (strength %.2f, amplitude %.2f, regularity %.2f)\n",
			c.Strength.Classification, c.Strength.Strength, c.Strength.Amplitude, c.Strength.Regularity)
		fmt.Printf("  Peak hour:      %02d:00\n", c.Strength.PeakHour)
		if c.Entropy.Classification != "" {
			fmt.Printf("  Predictability: %s (%.0f%%)\n", c.Entropy.Classification, c.Entropy.Predictability*100)
		} else {
			fmt.Println("  Predictability: n/a (no exit times recorded)")
		}
		fmt.Printf("  Dawn/dusk:      %s (index %.2f, morning %d%%, evening %d%%)\n",
			c.Zeitgeber.Classification, c.Zeitgeber.Index, c.Zeitgeber.MorningPercent, c.Zeitgeber.EveningPercent)

		if len(c.SeasonalPhases) > 0 {
			bold.Println("Seasonal phases")
			seasons := make([]string, 0, len(c.SeasonalPhases))
			for s := range c.SeasonalPhases {
				seasons = append(seasons, string(s))
			}
			sort.Strings(seasons)
			for _, name := range seasons {
				phase := c.SeasonalPhases[season.Season(name)]
				fmt.Printf("  %-7s avg exit %5.2f  consistency %.2f  (%d sessions)\n",
					name, phase.AveragePhase, phase.Consistency, phase.SessionCount)
			}
		}
	}

	fmt.Println()
	bold.Println("Timestamp confidence")
	conf := report.Confidence
	if conf.NoData {
		warn.Println("  no records")
	} else {
		fmt.Printf("  High:   %5.1f%% (%d records, incl. %d cross-midnight pairs)\n",
			conf.High.Percentage, conf.High.Count, conf.Tally.CrossMidnightPairs)
		fmt.Printf("  Medium: %5.1f%% (%d records)\n", conf.Medium.Percentage, conf.Medium.Count)
		fmt.Printf("  Low:    %5.1f%% (%d records)\n", conf.Low.Percentage, conf.Low.Count)
		fmt.Printf("  Quality score: %.1f\n", conf.QualityScore)
	}

	fmt.Println()
	bold.Println("Weekday truncation bias")
	bias := report.WeekdayBias
	fmt.Printf("  %s: %.1f%% entry-only vs %.1f%% elsewhere (impact %+.1f points)\n",
		bias.TargetDay, bias.TargetPercentage, bias.OtherDaysAverage, bias.Impact)
	if bias.HighImpact {
		warn.Println("  High impact: report-cycle truncation is skewing this weekday")
	}

	if len(report.Circadian.Insights) > 0 {
		fmt.Println()
		bold.Println("Insights")
		for _, insight := range report.Circadian.Insights {
			good.Printf("  • %s\n", insight)
		}
	}

	if report.Narrative != "" {
		fmt.Println()
		bold.Println("Summary")
		fmt.Println(report.Narrative)
	}
}
