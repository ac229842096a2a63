// Package circadian computes circadian-rhythm metrics from cat-flap
// events: hourly activity distribution, rhythm strength, exit-time entropy
// and predictability, crepuscular (zeitgeber) index, and per-season phase
// statistics.
package circadian

import (
	"github.com/flapwatch/flapwatch/pkg/season"
	"github.com/flapwatch/flapwatch/pkg/session"
)

// SeasonalCounts tracks activity per meteorological season.
type SeasonalCounts struct {
	Spring int `json:"spring"`
	Summer int `json:"summer"`
	Autumn int `json:"autumn"`
	Winter int `json:"winter"`
}

func (c *SeasonalCounts) add(s season.Season) {
	switch s {
	case season.Spring:
		c.Spring++
	case season.Summer:
		c.Summer++
	case season.Autumn:
		c.Autumn++
	case season.Winter:
		c.Winter++
	}
}

// HourBucket is one spoke of the polar activity clock. Built fresh per
// analysis call, never persisted.
type HourBucket struct {
	Exits    int            `json:"exits"`
	Entries  int            `json:"entries"`
	Total    int            `json:"totalActivity"`
	Seasonal SeasonalCounts `json:"seasonalVariation"`
}

// Result is the full circadian analysis. When NoData is set every metric
// field is zero and must not be read; this is a normal outcome for empty
// or timestamp-free datasets, not a fault.
type Result struct {
	NoData           bool                    `json:"noData"`
	Reason           string                  `json:"reason,omitempty"`
	PolarClock       [24]HourBucket          `json:"polarClock"`
	Strength         StrengthMetrics         `json:"strength"`
	Entropy          EntropyMetrics          `json:"entropy"`
	Zeitgeber        ZeitgeberMetrics        `json:"zeitgeberInfluence"`
	SeasonalPhases   map[season.Season]Phase `json:"seasonalAnalysis"`
	SeasonYearCounts map[string]int          `json:"seasonYearCounts"`
	Insights         []string                `json:"insights"`
}

func noData(reason string) Result {
	return Result{NoData: true, Reason: reason}
}

// Analyze runs the full circadian computation over canonical events.
// The input is never mutated.
func Analyze(events []session.Event) Result {
	if len(events) == 0 {
		return noData("no session data available")
	}

	var clock [24]HourBucket
	var exitHours []int
	seasonYears := make(map[string]int)
	for _, event := range events {
		eventSeason := season.ForDate(event.Date)
		seasonYears[season.YearKey(event.Date)]++
		if hour, ok := event.ExitHour(); ok {
			clock[hour].Exits++
			clock[hour].Total++
			clock[hour].Seasonal.add(eventSeason)
			exitHours = append(exitHours, hour)
		}
		if hour, ok := event.EntryHour(); ok {
			clock[hour].Entries++
			clock[hour].Total++
			clock[hour].Seasonal.add(eventSeason)
		}
	}

	var activity [24]int
	totalActivity := 0
	for hour := range clock {
		activity[hour] = clock[hour].Total
		totalActivity += clock[hour].Total
	}
	if totalActivity == 0 {
		return noData("no usable timestamps in session data")
	}

	result := Result{
		PolarClock:       clock,
		Strength:         strengthMetrics(activity),
		Entropy:          entropyMetrics(exitHours),
		Zeitgeber:        zeitgeberMetrics(exitHours),
		SeasonalPhases:   seasonalPhases(events),
		SeasonYearCounts: seasonYears,
	}
	result.Insights = insights(result)
	return result
}
