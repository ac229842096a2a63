package histogram

import (
	"strings"
	"testing"

	"github.com/flapwatch/flapwatch/pkg/circadian"
	"github.com/flapwatch/flapwatch/pkg/session"
)

func TestRenderNoData(t *testing.T) {
	out := Render(circadian.Result{NoData: true, Reason: "no session data available"})
	if !strings.Contains(out, "No activity data available") {
		t.Errorf("expected no-data message, got:\n%s", out)
	}
}

func TestRenderShowsAllHours(t *testing.T) {
	result := circadian.Analyze(session.Normalize([]session.Record{
		{Date: "2025-06-01", Exit: "07:00", Entry: "19:00"},
	}))

	out := Render(result)
	for _, hour := range []string{"00:00", "07:00", "19:00", "23:00"} {
		if !strings.Contains(out, hour) {
			t.Errorf("expected hour row %s in output:\n%s", hour, out)
		}
	}
	if !strings.Contains(out, "( 1| 0)") {
		t.Errorf("exit-hour bucket should show counts:\n%s", out)
	}
}

func TestRenderLimitedDataWarning(t *testing.T) {
	result := circadian.Analyze(session.Normalize([]session.Record{
		{Date: "2025-06-01", Exit: "07:00"},
	}))
	if out := Render(result); !strings.Contains(out, "Limited data") {
		t.Errorf("expected limited-data note for tiny datasets:\n%s", out)
	}
}
