package dataset

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/flapwatch/flapwatch/pkg/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleDataset = `[
	{"date_full": "2025-01-05", "exit_time": "22:30", "entry_time": "nan"},
	{"date_full": "2025-01-06", "exit_time": "nan", "entry_time": "05:10"}
]`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	loader := NewLoader(nil, testLogger())
	records, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Exit != "22:30" || records[1].Entry != "05:10" {
		t.Errorf("records mangled: %+v", records)
	}
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleDataset))
	}))
	defer server.Close()

	loader := NewLoader(nil, testLogger())
	records, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(nil, testLogger())
	if _, err := loader.Load(context.Background(), "/nonexistent/dataset.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWarnOnGaps(t *testing.T) {
	// Smoke test: a 20-day gap must not panic or mutate the events.
	events := session.Normalize([]session.Record{
		{Date: "2025-01-01", Exit: "06:00"},
		{Date: "2025-01-21", Exit: "07:00"},
	})
	WarnOnGaps(events, testLogger())
	if len(events) != 2 {
		t.Errorf("events slice changed: %d", len(events))
	}
}
