// Package midnight detects outings split across midnight. The flap logs
// exits and entries independently, so one overnight excursion can surface
// as two broken records: an exit-only row on day N and an entry-only row
// on day N+1. Pairing merges them back into one logical session.
package midnight

import (
	"time"

	"github.com/flapwatch/flapwatch/pkg/session"
)

// Result reports which records a pairing pass consumed. Indexes refer to
// the date-sorted event slice handed to Pair.
type Result struct {
	Paired map[int]bool
	Pairs  int
}

// IsPaired reports whether the record at index i was consumed by a merge.
func (r Result) IsPaired(i int) bool { return r.Paired[i] }

// Pair scans date-sorted events with a sliding window of two. Adjacent
// records i, i+1 merge when:
//   - date(i+1) is exactly one calendar day after date(i)
//   - i is exit-only and i+1 is entry-only
//   - the exit falls in the late-evening band (hour >= 20 or <= 2)
//   - the entry falls in the early-morning band (hour 0-8)
//
// The two band checks are independent; they are not one merged range.
// A record joins at most one pair, and a consumed record is never
// considered again as the start of another pair.
func Pair(events []session.Event) Result {
	result := Result{Paired: make(map[int]bool)}
	for i := 0; i+1 < len(events); i++ {
		if result.Paired[i] || result.Paired[i+1] {
			continue
		}
		first, second := events[i], events[i+1]
		if !daysApart(first.Date, second.Date, 1) {
			continue
		}
		if !first.HasExit() || first.HasEntry() || !second.HasEntry() || second.HasExit() {
			continue
		}
		exitHour, ok := first.ExitHour()
		if !ok || (exitHour < 20 && exitHour > 2) {
			continue
		}
		entryHour, ok := second.EntryHour()
		if !ok || entryHour > 8 {
			continue
		}
		result.Paired[i] = true
		result.Paired[i+1] = true
		result.Pairs++
	}
	return result
}

func daysApart(earlier, later time.Time, days int) bool {
	return later.Sub(earlier) == time.Duration(days)*24*time.Hour
}
