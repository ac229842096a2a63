package circadian

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/flapwatch/flapwatch/pkg/season"
	"github.com/flapwatch/flapwatch/pkg/session"
)

func events(records []session.Record) []session.Event {
	return session.Normalize(records)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	result := Analyze(nil)
	if !result.NoData {
		t.Fatal("expected NoData for empty input")
	}
	if result.Reason == "" {
		t.Error("NoData result should carry a reason")
	}
}

func TestAnalyzeNoUsableTimestamps(t *testing.T) {
	result := Analyze(events([]session.Record{
		{Date: "2025-03-01"},
		{Date: "2025-03-02", Exit: "garbled"},
	}))
	if !result.NoData {
		t.Error("events without parseable times should yield NoData")
	}
}

func TestPolarClockBuckets(t *testing.T) {
	result := Analyze(events([]session.Record{
		{Date: "2025-06-01", Exit: "07:00", Entry: "19:00"},
	}))

	if result.NoData {
		t.Fatal("unexpected NoData")
	}
	if result.PolarClock[7].Exits != 1 {
		t.Errorf("expected bucket[7].Exits == 1, got %d", result.PolarClock[7].Exits)
	}
	if result.PolarClock[19].Entries != 1 {
		t.Errorf("expected bucket[19].Entries == 1, got %d", result.PolarClock[19].Entries)
	}
	if result.PolarClock[7].Total != 1 || result.PolarClock[19].Total != 1 {
		t.Error("exit and entry hours should each contribute to their own bucket totals")
	}
	if result.PolarClock[7].Seasonal.Summer != 1 {
		t.Errorf("June event should count toward summer, got %+v", result.PolarClock[7].Seasonal)
	}
}

func TestUniformDistributionIsWeakAndChaotic(t *testing.T) {
	// 24 exits, one per hour: flat histogram.
	var records []session.Record
	for hour := range 24 {
		records = append(records, session.Record{
			Date: "2025-06-01",
			Exit: fmt.Sprintf("%02d:00", hour),
		})
	}
	result := Analyze(events(records))

	if result.Strength.Amplitude != 0 {
		t.Errorf("expected amplitude 0, got %.2f", result.Strength.Amplitude)
	}
	if result.Strength.Regularity != 1 {
		t.Errorf("expected regularity 1, got %.2f", result.Strength.Regularity)
	}
	if result.Strength.Strength != 0 {
		t.Errorf("expected strength 0, got %.2f", result.Strength.Strength)
	}
	if result.Strength.Classification != "Weak" {
		t.Errorf("expected Weak classification, got %s", result.Strength.Classification)
	}

	wantEntropy := math.Round(math.Log2(24)*100) / 100
	if result.Entropy.Entropy != wantEntropy {
		t.Errorf("expected entropy %.2f (log2 24), got %.2f", wantEntropy, result.Entropy.Entropy)
	}
	if result.Entropy.NormalizedEntropy != 1 {
		t.Errorf("expected normalized entropy 1, got %.2f", result.Entropy.NormalizedEntropy)
	}
	if result.Entropy.Classification != "Chaotic" {
		t.Errorf("expected Chaotic classification, got %s", result.Entropy.Classification)
	}
	if result.Entropy.Predictability != 0 {
		t.Errorf("predictability should be 1 - normalized entropy, got %.2f", result.Entropy.Predictability)
	}
}

func TestConcentratedDistributionIsPredictable(t *testing.T) {
	var records []session.Record
	for range 10 {
		records = append(records, session.Record{Date: "2025-06-01", Exit: "07:30"})
	}
	result := Analyze(events(records))

	if result.Entropy.Entropy != 0 {
		t.Errorf("expected zero entropy, got %.2f", result.Entropy.Entropy)
	}
	if result.Entropy.NormalizedEntropy != 0 {
		t.Errorf("expected zero normalized entropy, got %.2f", result.Entropy.NormalizedEntropy)
	}
	if result.Entropy.Predictability != 1 {
		t.Errorf("expected predictability 1, got %.2f", result.Entropy.Predictability)
	}
	if result.Entropy.Classification != "Highly Predictable" {
		t.Errorf("expected Highly Predictable, got %s", result.Entropy.Classification)
	}
	if result.Strength.PeakHour != 7 {
		t.Errorf("expected peak hour 7, got %d", result.Strength.PeakHour)
	}
	if result.Strength.Classification != "Strong" {
		t.Errorf("single-hour concentration should classify Strong, got %s", result.Strength.Classification)
	}
}

func TestNormalizedEntropyBounds(t *testing.T) {
	patterns := [][]session.Record{
		{{Date: "2025-06-01", Exit: "06:00"}},
		{{Date: "2025-06-01", Exit: "06:00"}, {Date: "2025-06-02", Exit: "18:00"}},
		{
			{Date: "2025-06-01", Exit: "05:00"}, {Date: "2025-06-02", Exit: "05:00"},
			{Date: "2025-06-03", Exit: "11:00"}, {Date: "2025-06-04", Exit: "22:00"},
		},
	}
	for i, records := range patterns {
		result := Analyze(events(records))
		ne := result.Entropy.NormalizedEntropy
		if ne < 0 || ne > 1 {
			t.Errorf("pattern %d: normalized entropy %.2f out of [0,1]", i, ne)
		}
		if math.Abs(result.Entropy.Predictability-(1-ne)) > 0.011 {
			t.Errorf("pattern %d: predictability %.2f != 1 - %.2f", i, result.Entropy.Predictability, ne)
		}
	}
}

func TestEntriesOnlyDatasetHasNeutralEntropy(t *testing.T) {
	// Entry timestamps alone are real activity, but with no exits there
	// is no exit-time distribution to score.
	result := Analyze(events([]session.Record{
		{Date: "2025-06-01", Entry: "19:00"},
		{Date: "2025-06-02", Entry: "20:00"},
	}))

	if result.NoData {
		t.Fatal("entry-only records are usable activity, not NoData")
	}
	e := result.Entropy
	if e.Predictability != 0 || e.NormalizedEntropy != 0 || e.Classification != "" {
		t.Errorf("no exits should leave entropy metrics neutral, got %+v", e)
	}
	for _, insight := range result.Insights {
		if strings.Contains(insight, "Exit times") {
			t.Errorf("exit-time insight fired without any exits: %q", insight)
		}
	}
}

func TestZeitgeberCrepuscular(t *testing.T) {
	result := Analyze(events([]session.Record{
		{Date: "2025-06-01", Exit: "06:00"},
		{Date: "2025-06-02", Exit: "07:30"},
		{Date: "2025-06-03", Exit: "18:00"},
		{Date: "2025-06-04", Exit: "19:45"},
	}))

	z := result.Zeitgeber
	if z.Index != 1 {
		t.Errorf("all exits in bands should give index 1, got %.2f", z.Index)
	}
	if z.Classification != "Strongly Crepuscular" {
		t.Errorf("expected Strongly Crepuscular, got %s", z.Classification)
	}
	if z.MorningPercent != 50 || z.EveningPercent != 50 {
		t.Errorf("expected 50/50 split, got %d/%d", z.MorningPercent, z.EveningPercent)
	}
}

func TestZeitgeberMidday(t *testing.T) {
	result := Analyze(events([]session.Record{
		{Date: "2025-06-01", Exit: "12:00"},
		{Date: "2025-06-02", Exit: "13:00"},
		{Date: "2025-06-03", Exit: "14:00"},
	}))
	if result.Zeitgeber.Classification != "Not Crepuscular" {
		t.Errorf("midday exits should not be crepuscular, got %s", result.Zeitgeber.Classification)
	}
}

func TestSeasonalPhasesOmitAbsentSeasons(t *testing.T) {
	result := Analyze(events([]session.Record{
		{Date: "2025-06-10", Exit: "05:00"},
		{Date: "2025-06-11", Exit: "07:00"},
		{Date: "2025-10-05", Exit: "08:00"},
	}))

	if len(result.SeasonalPhases) != 2 {
		t.Fatalf("expected 2 seasons, got %d: %v", len(result.SeasonalPhases), result.SeasonalPhases)
	}
	if _, present := result.SeasonalPhases[season.Winter]; present {
		t.Error("winter has no samples and must be omitted")
	}

	summer := result.SeasonalPhases[season.Summer]
	if summer.AveragePhase != 6 {
		t.Errorf("expected summer average phase 6.00, got %.2f", summer.AveragePhase)
	}
	if summer.SessionCount != 2 {
		t.Errorf("expected 2 summer sessions, got %d", summer.SessionCount)
	}

	autumn := result.SeasonalPhases[season.Autumn]
	if autumn.Consistency != 1 {
		t.Errorf("single-sample season should have consistency 1, got %.2f", autumn.Consistency)
	}
}

func TestSeasonYearCounts(t *testing.T) {
	result := Analyze(events([]session.Record{
		{Date: "2024-12-15", Exit: "06:00"},
		{Date: "2025-01-15", Exit: "07:00"},
		{Date: "2025-06-15", Exit: "08:00"},
	}))

	if result.SeasonYearCounts["winter-2024-2025"] != 2 {
		t.Errorf("December and January should share a winter key: %v", result.SeasonYearCounts)
	}
	if result.SeasonYearCounts["summer-2025"] != 1 {
		t.Errorf("expected 1 summer-2025 session: %v", result.SeasonYearCounts)
	}
}
