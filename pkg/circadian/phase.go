package circadian

import (
	"math"

	"github.com/flapwatch/flapwatch/pkg/season"
	"github.com/flapwatch/flapwatch/pkg/session"
)

// Phase summarizes exit timing within one season. Consistency approaches 1
// as exit-hour variance approaches zero.
type Phase struct {
	AveragePhase float64 `json:"averagePhase"`
	Consistency  float64 `json:"consistency"`
	SessionCount int     `json:"sessionCount"`
}

// seasonalPhases groups exit hours by meteorological season. Seasons with
// no samples are omitted from the map entirely.
func seasonalPhases(events []session.Event) map[season.Season]Phase {
	bySeason := make(map[season.Season][]int)
	for _, event := range events {
		hour, ok := event.ExitHour()
		if !ok {
			continue
		}
		s := season.ForDate(event.Date)
		bySeason[s] = append(bySeason[s], hour)
	}

	phases := make(map[season.Season]Phase, len(bySeason))
	for s, hours := range bySeason {
		mean := 0.0
		for _, hour := range hours {
			mean += float64(hour)
		}
		mean /= float64(len(hours))

		variance := 0.0
		for _, hour := range hours {
			diff := float64(hour) - mean
			variance += diff * diff
		}
		variance /= float64(len(hours))

		phases[s] = Phase{
			AveragePhase: round2(mean),
			Consistency:  round2(1 / (1 + math.Sqrt(variance))),
			SessionCount: len(hours),
		}
	}
	return phases
}
