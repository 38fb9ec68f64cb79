package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteSink(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := Init(dbPath); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	if err := Init(dbPath); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init: expected ErrAlreadyInitialized, got %v", err)
	}

	Info().Str("op", "quote").Int("size", 5).Msg("first")
	Printf("second %d", 2)

	entries, err := GetLastNLogs(10)
	if err != nil {
		t.Fatalf("GetLastNLogs failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(entries[0].Data), &first); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if first["message"] != "first" || first["op"] != "quote" {
		t.Errorf("unexpected first entry %v", first)
	}

	since, err := GetLogsSince(time.Now().Add(-time.Hour), 0)
	if err != nil {
		t.Fatalf("GetLogsSince failed: %v", err)
	}
	if len(since) != 2 {
		t.Errorf("Expected 2 entries in the last hour, got %d", len(since))
	}

	last, err := GetLastNLogs(1)
	if err != nil {
		t.Fatalf("GetLastNLogs failed: %v", err)
	}
	if len(last) != 1 || last[0].ID != entries[1].ID {
		t.Errorf("Expected the most recent entry, got %v", last)
	}
}

func TestGetLogsBetweenMixedTimes(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "between.db")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	rows := []string{
		`{"time":"2024-03-10T12:00:00.123Z","message":"a"}`,
		`{"time":"2024-03-10T12:00:00.12Z","message":"b"}`,
		`{"time":"2024-03-10T14:30:00+02:00","message":"c"}`,
		`{"time":"2024-03-10T13:00:00Z","message":"d"}`,
	}
	for _, r := range rows {
		if _, err := sink.Write([]byte(r)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	start := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 14, 45, 0, 0, time.FixedZone("CET", 2*60*60))
	entries, err := GetLogsBetween(start, end, 0)
	if err != nil {
		t.Fatalf("GetLogsBetween failed: %v", err)
	}
	var got []string
	for _, e := range entries {
		var m map[string]any
		if err := json.Unmarshal([]byte(e.Data), &m); err != nil {
			t.Fatalf("entry is not JSON: %v", err)
		}
		got = append(got, m["message"].(string))
	}
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

func TestNotInitialized(t *testing.T) {
	if _, err := GetLastNLogs(1); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Close without Init: %v", err)
	}
}

func TestSetOutputAndLevel(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out)
	defer SetOutput(nopWriter{})

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}
	defer SetLevel("debug")

	Info().Msg("hidden")
	Warn().Msg("shown")
	if bytes.Contains(out.Bytes(), []byte("hidden")) || !bytes.Contains(out.Bytes(), []byte("shown")) {
		t.Errorf("level filter not applied: %s", out.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("SetLevel accepted an unknown level")
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
