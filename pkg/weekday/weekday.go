// Package weekday quantifies day-of-week truncation bias. The weekly
// report cycle cuts off at a fixed weekday, and sessions still open at the
// boundary surface as entry-only records; a disproportionate entry-only
// rate on that weekday indicates upstream data loss, not behavior.
package weekday

import (
	"math"
	"time"

	"github.com/flapwatch/flapwatch/pkg/session"
)

// Stat holds entry-only counts for one weekday.
type Stat struct {
	Weekday    string  `json:"weekday"`
	Total      int     `json:"total"`
	EntryOnly  int     `json:"entryOnly"`
	Percentage float64 `json:"percentage"`
}

// Report covers all seven weekdays, Sunday first. Impact above five
// percentage points is flagged high.
type Report struct {
	TargetDay        string  `json:"targetDay"`
	PerWeekday       [7]Stat `json:"perWeekday"`
	TargetPercentage float64 `json:"targetPercentage"`
	OtherDaysAverage float64 `json:"otherDaysAverage"`
	Impact           float64 `json:"targetDayImpact"`
	HighImpact       bool    `json:"highImpact"`
}

// Analyze computes per-weekday entry-only rates and the differential
// impact of the target (truncation) weekday against the other six.
// A weekday with no records contributes a zero percentage.
func Analyze(events []session.Event, target time.Weekday) Report {
	report := Report{TargetDay: target.String()}
	for day := range report.PerWeekday {
		report.PerWeekday[day].Weekday = time.Weekday(day).String()
	}

	for _, event := range events {
		day := int(event.Date.Weekday())
		report.PerWeekday[day].Total++
		if event.HasEntry() && !event.HasExit() {
			report.PerWeekday[day].EntryOnly++
		}
	}

	otherSum := 0.0
	for day := range report.PerWeekday {
		stat := &report.PerWeekday[day]
		if stat.Total > 0 {
			stat.Percentage = round1(float64(stat.EntryOnly) / float64(stat.Total) * 100)
		}
		if time.Weekday(day) == target {
			report.TargetPercentage = stat.Percentage
		} else {
			otherSum += stat.Percentage
		}
	}

	report.OtherDaysAverage = round1(otherSum / 6)
	report.Impact = round1(report.TargetPercentage - report.OtherDaysAverage)
	report.HighImpact = report.Impact > 5
	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
