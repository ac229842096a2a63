package session

import (
	"testing"
)

func TestDecodeFlatRecords(t *testing.T) {
	data := []byte(`[
		{"date_full": "2025-01-05", "exit_time": "22:30", "entry_time": "nan"},
		{"date": "2025-01-06", "exitTime": "07:00", "entryTime": "19:00", "duration": 720},
		{"Date": "2025-01-07", "ExitTime": "06:45", "EntryTime": ""}
	]`)

	records, err := DecodeDataset(data)
	if err != nil {
		t.Fatalf("DecodeDataset failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Date != "2025-01-05" || records[0].Exit != "22:30" || records[0].Entry != "" {
		t.Errorf("alias resolution failed for snake_case row: %+v", records[0])
	}
	if records[1].Exit != "07:00" || records[1].Duration != 720 {
		t.Errorf("alias resolution failed for camelCase row: %+v", records[1])
	}
	if records[2].Exit != "06:45" || records[2].Entry != "" {
		t.Errorf("alias resolution failed for PascalCase row: %+v", records[2])
	}
}

func TestDecodeReportGroups(t *testing.T) {
	data := []byte(`[
		{
			"report_info": {"filename": "report-1.pdf", "pet_name": "Sven"},
			"session_data": [
				{"date_full": "2025-02-01", "exit_time": "06:00", "entry_time": "08:30"},
				{"date_full": "2025-02-02", "exit_time": "21:45", "entry_time": null}
			]
		},
		{
			"report_info": {"filename": "report-2.pdf", "pet_name": "Sven"},
			"session_data": [
				{"date_full": "2025-02-03", "exit_time": null, "entry_time": "05:20"}
			]
		}
	]`)

	records, err := DecodeDataset(data)
	if err != nil {
		t.Fatalf("DecodeDataset failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 flattened records, got %d", len(records))
	}
	if records[1].Exit != "21:45" || records[1].Entry != "" {
		t.Errorf("null entry should be absent: %+v", records[1])
	}
	if records[2].Exit != "" || records[2].Entry != "05:20" {
		t.Errorf("entry-only record mangled: %+v", records[2])
	}
}

func TestDecodeDailySummaries(t *testing.T) {
	data := []byte(`{
		"precomputed": {
			"dailySummaries": [
				{"date": "2025-06-01", "firstExit": "05:40", "lastEntry": "21:10", "totalOutdoorTime": 310},
				{"date": "2025-06-02", "firstExit": "06:05", "lastEntry": "20:55", "totalOutdoorTime": 250}
			]
		}
	}`)

	records, err := DecodeDataset(data)
	if err != nil {
		t.Fatalf("DecodeDataset failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 synthesized records, got %d", len(records))
	}
	if records[0].Exit != "05:40" || records[0].Entry != "21:10" {
		t.Errorf("daily summary should map firstExit/lastEntry to exit/entry: %+v", records[0])
	}
}

func TestDecodeRejectsUnknownShapes(t *testing.T) {
	if _, err := DecodeDataset([]byte(`{"sessions": []}`)); err == nil {
		t.Error("expected error for object without dailySummaries")
	}
	if _, err := DecodeDataset([]byte(`"just a string"`)); err == nil {
		t.Error("expected error for non-collection JSON")
	}
	if _, err := DecodeDataset([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
