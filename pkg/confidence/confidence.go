// Package confidence classifies session records by how much of their
// timing information is present and trustworthy.
package confidence

import (
	"math"

	"github.com/flapwatch/flapwatch/pkg/midnight"
	"github.com/flapwatch/flapwatch/pkg/session"
)

// Tally holds raw per-category counts. The invariant maintained by
// Classify is SameDayComplete + 2*CrossMidnightPairs + SingleTimestamp +
// Invalid == Total.
type Tally struct {
	Total              int `json:"total"`
	SameDayComplete    int `json:"sameDayComplete"`
	CrossMidnightPairs int `json:"crossMidnightPairs"`
	SingleTimestamp    int `json:"singleTimestamp"`
	Invalid            int `json:"invalid"`

	// Session-type tally as printed by the extractor's production
	// summary: overnight counts include records later absorbed by pairs.
	OvernightExits   int `json:"overnightExits"`
	OvernightEntries int `json:"overnightEntries"`
}

// Tier is one confidence bucket with its record count and share of total.
type Tier struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Report is the classifier output. High covers same-day complete records
// plus every record consumed by a cross-midnight pair (each pair is two
// records forming one logical session). Medium is true single-timestamp
// records, Low is records with no timestamp at all. QualityScore equals
// the high-tier percentage. NoData is set instead of dividing by zero.
type Report struct {
	Tally        Tally   `json:"tally"`
	High         Tier    `json:"high"`
	Medium       Tier    `json:"medium"`
	Low          Tier    `json:"low"`
	QualityScore float64 `json:"qualityScore"`
	NoData       bool    `json:"noData"`
}

// Classify buckets every event using the pairing result. It runs on any
// input size, including datasets too small to pair.
func Classify(events []session.Event, pairing midnight.Result) Report {
	tally := Tally{Total: len(events)}
	for i, event := range events {
		switch {
		case event.HasExit() && event.HasEntry():
			// Paired records are exit-only or entry-only, so a
			// complete record is always same-day.
			tally.SameDayComplete++
		case event.HasExit():
			tally.OvernightExits++
			if !pairing.IsPaired(i) {
				tally.SingleTimestamp++
			}
		case event.HasEntry():
			tally.OvernightEntries++
			if !pairing.IsPaired(i) {
				tally.SingleTimestamp++
			}
		default:
			tally.Invalid++
		}
	}
	tally.CrossMidnightPairs = pairing.Pairs

	report := Report{Tally: tally}
	if tally.Total == 0 {
		report.NoData = true
		return report
	}

	highCount := tally.SameDayComplete + 2*tally.CrossMidnightPairs
	report.High = tier(highCount, tally.Total)
	report.Medium = tier(tally.SingleTimestamp, tally.Total)
	report.Low = tier(tally.Invalid, tally.Total)
	report.QualityScore = report.High.Percentage
	return report
}

func tier(count, total int) Tier {
	return Tier{Count: count, Percentage: round1(float64(count) / float64(total) * 100)}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
