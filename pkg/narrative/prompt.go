package narrative

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flapwatch/flapwatch/pkg/circadian"
	"github.com/flapwatch/flapwatch/pkg/confidence"
	"github.com/flapwatch/flapwatch/pkg/season"
	"github.com/flapwatch/flapwatch/pkg/weekday"
)

// PromptData carries the computed metrics the prompt is rendered from.
type PromptData struct {
	Circadian   circadian.Result
	Confidence  confidence.Report
	WeekdayBias weekday.Report
}

// buildPrompt renders the evidence block handed to the model. The model
// only rephrases; every number it sees was computed locally.
func buildPrompt(data PromptData, reportNotes string) string {
	var b strings.Builder
	b.WriteString("Write a short, friendly summary of this cat's outdoor activity pattern for its owner.\n")
	b.WriteString("Use only the evidence below. Do not invent numbers.\n\nEVIDENCE:\n")

	if data.Circadian.NoData {
		b.WriteString("- No usable session data was available.\n")
	} else {
		c := data.Circadian
		fmt.Fprintf(&b, "- Circadian rhythm: %s (strength %.2f), peak activity hour %02d:00\n",
			c.Strength.Classification, c.Strength.Strength, c.Strength.PeakHour)
		if c.Entropy.Classification != "" {
			fmt.Fprintf(&b, "- Exit-time predictability: %s (predictability %.2f)\n",
				c.Entropy.Classification, c.Entropy.Predictability)
		} else {
			b.WriteString("- Exit-time predictability: not measurable, no exit times recorded\n")
		}
		fmt.Fprintf(&b, "- Dawn/dusk preference: %s (crepuscular index %.2f, morning %d%%, evening %d%%)\n",
			c.Zeitgeber.Classification, c.Zeitgeber.Index, c.Zeitgeber.MorningPercent, c.Zeitgeber.EveningPercent)

		seasons := make([]season.Season, 0, len(c.SeasonalPhases))
		for s := range c.SeasonalPhases {
			seasons = append(seasons, s)
		}
		sort.Slice(seasons, func(i, j int) bool { return seasons[i] < seasons[j] })
		for _, s := range seasons {
			phase := c.SeasonalPhases[s]
			fmt.Fprintf(&b, "- %s: average exit %.2f, consistency %.2f, %d sessions\n",
				s, phase.AveragePhase, phase.Consistency, phase.SessionCount)
		}
		for _, insight := range c.Insights {
			fmt.Fprintf(&b, "- Observation: %s\n", insight)
		}
	}

	fmt.Fprintf(&b, "- Data quality: %.1f%% of %d records have complete timing\n",
		data.Confidence.QualityScore, data.Confidence.Tally.Total)
	if data.WeekdayBias.HighImpact {
		fmt.Fprintf(&b, "- Note: %s records are truncated by the report cycle (%.1f point bias); this is a data artifact, not behavior\n",
			data.WeekdayBias.TargetDay, data.WeekdayBias.Impact)
	}

	if reportNotes != "" {
		b.WriteString("\nVENDOR REPORT PAGE (context only):\n")
		b.WriteString(truncate(reportNotes, 4000))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
