package circadian

import (
	"fmt"
	"math"
)

// insights converts computed metrics into short observations. Rules fire
// in a fixed order and every applicable rule contributes one sentence; an
// empty list is valid and the caller renders its own placeholder.
func insights(result Result) []string {
	var out []string

	if result.Strength.Strength > 0.8 {
		out = append(out, fmt.Sprintf(
			"%s circadian rhythm with peak activity around %02d:00.",
			result.Strength.Classification, result.Strength.PeakHour))
	}

	// An empty entropy classification means no exits were recorded, so
	// there is no exit-time routine to comment on either way.
	if result.Entropy.Classification != "" {
		switch {
		case result.Entropy.Predictability > 0.7:
			out = append(out, "Exit times are highly predictable, suggesting a well-settled daily routine.")
		case result.Entropy.Predictability < 0.3:
			out = append(out, "Exit times are highly variable, with little day-to-day routine.")
		}
	}

	if spread, ok := phaseSpread(result); ok && spread > 2 {
		out = append(out, fmt.Sprintf(
			"Average exit time shifts by about %.0f hours across seasons, indicating seasonal adaptation.",
			math.Round(spread)))
	}

	return out
}

// phaseSpread returns the gap between the latest and earliest seasonal
// average exit hours; ok is false when no season has samples.
func phaseSpread(result Result) (float64, bool) {
	first := true
	minPhase, maxPhase := 0.0, 0.0
	for _, phase := range result.SeasonalPhases {
		if first {
			minPhase, maxPhase = phase.AveragePhase, phase.AveragePhase
			first = false
			continue
		}
		minPhase = math.Min(minPhase, phase.AveragePhase)
		maxPhase = math.Max(maxPhase, phase.AveragePhase)
	}
	if first {
		return 0, false
	}
	return maxPhase - minPhase, true
}
