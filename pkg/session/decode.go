package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Historical field spellings accepted for backward compatibility with older
// dataset exports. Resolution is first-match-wins over these lists; there
// is deliberately no fuzzy matching beyond them.
var (
	dateAliases     = []string{"date_full", "date", "Date"}
	exitAliases     = []string{"exit_time", "exitTime", "ExitTime", "Exit_Time"}
	entryAliases    = []string{"entry_time", "entryTime", "EntryTime", "Entry_Time"}
	durationAliases = []string{"duration", "duration_minutes", "Duration"}

	firstExitAliases = []string{"firstExit", "first_exit"}
	lastEntryAliases = []string{"lastEntry", "last_entry"}
)

// DecodeDataset parses a master-dataset JSON document in any of the three
// historical shapes: a flat array of session records, an array of per-report
// groups (report_info + session_data), or an enhanced document carrying
// precomputed daily summaries. Daily-summary rows synthesize one event per
// day using firstExit/lastEntry as the exit/entry times.
func DecodeDataset(data []byte) ([]Record, error) {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	switch {
	case strings.HasPrefix(trimmed, "["):
		var rows []map[string]any
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("decoding dataset array: %w", err)
		}
		return recordsFromRows(rows), nil
	case strings.HasPrefix(trimmed, "{"):
		var doc struct {
			Precomputed struct {
				DailySummaries []map[string]any `json:"dailySummaries"`
			} `json:"precomputed"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding dataset document: %w", err)
		}
		if len(doc.Precomputed.DailySummaries) == 0 {
			return nil, fmt.Errorf("dataset document has no precomputed.dailySummaries")
		}
		records := make([]Record, 0, len(doc.Precomputed.DailySummaries))
		for _, row := range doc.Precomputed.DailySummaries {
			records = append(records, Record{
				Date:  stringField(row, dateAliases),
				Exit:  stringField(row, firstExitAliases),
				Entry: stringField(row, lastEntryAliases),
			})
		}
		return records, nil
	default:
		return nil, fmt.Errorf("dataset is neither a JSON array nor an object")
	}
}

// recordsFromRows handles both flat session rows and per-report groups.
// A row holding a session_data array is a report group; its sessions are
// flattened in order.
func recordsFromRows(rows []map[string]any) []Record {
	var records []Record
	for _, row := range rows {
		group, ok := row["session_data"].([]any)
		if !ok {
			records = append(records, recordFromRow(row))
			continue
		}
		for _, item := range group {
			sessionRow, ok := item.(map[string]any)
			if !ok {
				continue
			}
			records = append(records, recordFromRow(sessionRow))
		}
	}
	return records
}

func recordFromRow(row map[string]any) Record {
	return Record{
		Date:     stringField(row, dateAliases),
		Exit:     stringField(row, exitAliases),
		Entry:    stringField(row, entryAliases),
		Duration: floatField(row, durationAliases),
	}
}

// stringField resolves the first present alias to a cleaned string value.
// "nan" (any case), "null", and empty strings all mean absent.
func stringField(row map[string]any, aliases []string) string {
	for _, key := range aliases {
		value, present := row[key]
		if !present || value == nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
			return ""
		}
		return s
	}
	return ""
}

func floatField(row map[string]any, aliases []string) float64 {
	for _, key := range aliases {
		switch value := row[key].(type) {
		case float64:
			return value
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				return f
			}
		}
	}
	return 0
}
