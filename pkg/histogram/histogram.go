// Package histogram renders the hourly activity clock for terminal output.
package histogram

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/flapwatch/flapwatch/pkg/circadian"
)

// crepuscular bands, matching the zeitgeber index windows.
const (
	morningStart = 5
	morningEnd   = 10
	eveningStart = 17
	eveningEnd   = 22
)

// Render draws a 24-row activity histogram. Exit activity renders as blue
// bar segments and entry activity as green; the peak hour is marked with
// "^" and the dawn/dusk bands with "c".
func Render(result circadian.Result) string {
	var output strings.Builder

	output.WriteString("🐾 Hourly Activity (exits + entries)\n")
	output.WriteString(strings.Repeat("─", 50) + "\n")

	if result.NoData {
		output.WriteString("No activity data available\n")
		return output.String()
	}

	totalEvents := 0
	for _, bucket := range result.PolarClock {
		totalEvents += bucket.Total
	}
	if totalEvents < 20 {
		fmt.Fprintf(&output, "⚠️  Limited data: only %d timestamps available\n", totalEvents)
		output.WriteString(strings.Repeat("─", 50) + "\n")
	}

	exitColor := color.New(color.FgBlue)
	entryColor := color.New(color.FgGreen)
	peakColor := color.New(color.FgYellow)
	bandColor := color.New(color.FgHiBlack)

	for hour, bucket := range result.PolarClock {
		line := fmt.Sprintf("%02d:00 ", hour)

		switch {
		case hour == result.Strength.PeakHour:
			line += peakColor.Sprint("^") + " "
		case (hour >= morningStart && hour <= morningEnd) || (hour >= eveningStart && hour <= eveningEnd):
			line += bandColor.Sprint("c") + " "
		default:
			line += "  "
		}

		if bucket.Total > 0 {
			line += fmt.Sprintf("(%2d|%2d) ", bucket.Exits, bucket.Entries)
			if bucket.Total == 1 {
				if bucket.Exits == 1 {
					line += exitColor.Sprint("·")
				} else {
					line += entryColor.Sprint("·")
				}
			} else {
				line += exitColor.Sprint(strings.Repeat("█", bucket.Exits))
				line += entryColor.Sprint(strings.Repeat("█", bucket.Entries))
			}
		} else {
			line += "        "
		}

		output.WriteString(line + "\n")
	}

	output.WriteString(strings.Repeat("─", 50) + "\n")
	fmt.Fprintf(&output, "%s peak hour  %s dawn/dusk band  %s exits  %s entries\n",
		peakColor.Sprint("^"), bandColor.Sprint("c"),
		exitColor.Sprint("█"), entryColor.Sprint("█"))
	return output.String()
}
