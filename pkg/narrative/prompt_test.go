package narrative

import (
	"strings"
	"testing"

	"github.com/flapwatch/flapwatch/pkg/circadian"
	"github.com/flapwatch/flapwatch/pkg/confidence"
	"github.com/flapwatch/flapwatch/pkg/season"
	"github.com/flapwatch/flapwatch/pkg/weekday"
)

func TestBuildPromptIncludesMetrics(t *testing.T) {
	data := PromptData{
		Circadian: circadian.Result{
			Strength: circadian.StrengthMetrics{Classification: "Strong", Strength: 1.42, PeakHour: 6},
			Entropy:  circadian.EntropyMetrics{Classification: "Highly Predictable", Predictability: 0.81},
			Zeitgeber: circadian.ZeitgeberMetrics{
				Classification: "Strongly Crepuscular", Index: 0.75, MorningPercent: 40, EveningPercent: 35,
			},
			SeasonalPhases: map[season.Season]circadian.Phase{
				season.Summer: {AveragePhase: 5.75, Consistency: 0.62, SessionCount: 120},
			},
			Insights: []string{"Strong circadian rhythm with peak activity around 06:00."},
		},
		Confidence: confidence.Report{
			QualityScore: 87.5,
			Tally:        confidence.Tally{Total: 400},
		},
		WeekdayBias: weekday.Report{TargetDay: "Monday", Impact: 12.3, HighImpact: true},
	}

	prompt := buildPrompt(data, "")

	for _, want := range []string{
		"Strong", "06:00", "Highly Predictable", "Strongly Crepuscular",
		"summer", "87.5%", "400 records", "Monday", "data artifact",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptNoData(t *testing.T) {
	prompt := buildPrompt(PromptData{Circadian: circadian.Result{NoData: true}}, "")
	if !strings.Contains(prompt, "No usable session data") {
		t.Errorf("no-data prompt should say so:\n%s", prompt)
	}
}

func TestBuildPromptIncludesReportNotes(t *testing.T) {
	prompt := buildPrompt(PromptData{Circadian: circadian.Result{NoData: true}}, "# Weekly Report\nSven was busy.")
	if !strings.Contains(prompt, "Weekly Report") {
		t.Error("vendor report notes should be appended to the prompt")
	}
}

func TestRenderResponse(t *testing.T) {
	full := render(Response{Headline: "Dawn patroller", Summary: "Out at sunrise most days."})
	if !strings.HasPrefix(full, "Dawn patroller\n\n") {
		t.Errorf("headline should lead: %q", full)
	}

	bare := render(Response{Summary: "Out at sunrise most days."})
	if bare != "Out at sunrise most days." {
		t.Errorf("missing headline should render summary alone: %q", bare)
	}
}
