package audit

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTranscriptRecorderWritesPerSessionNDJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec, err := NewTranscriptRecorder(Config{
		Enabled:   true,
		Dir:       dir,
		QueueSize: 16,
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptRecorder failed: %v", err)
	}
	defer func() { _ = rec.Close() }()

	rec.Record(Event{
		SessionID: "sess-1",
		Stage:     "GREETING",
		Role:      "user",
		Content:   "hello",
	})

	path := filepath.Join(dir, "sess-1.ndjson")
	line := waitForLogLine(t, path)
	var got Event
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("failed to unmarshal transcript line: %v", err)
	}
	if got.Content != "hello" {
		t.Fatalf("unexpected Content: %q", got.Content)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be populated")
	}
}

func TestTranscriptRecorderAppendsInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec, err := NewTranscriptRecorder(Config{Enabled: true, Dir: dir, QueueSize: 16}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptRecorder failed: %v", err)
	}

	rec.Record(Event{SessionID: "sess-2", Role: "user", Content: "first"})
	rec.Record(Event{SessionID: "sess-2", Role: "assistant", Content: "second"})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sess-2.ndjson"))
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Fatalf("lines out of order: %v", lines)
	}
}

func TestDisabledRecorderIsNoop(t *testing.T) {
	t.Parallel()

	rec, err := NewTranscriptRecorder(Config{Enabled: false}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptRecorder failed: %v", err)
	}
	if _, ok := rec.(NoopRecorder); !ok {
		t.Fatalf("Expected NoopRecorder, got %T", rec)
	}
	rec.Record(Event{SessionID: "ignored"})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func waitForLogLine(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) > 0 {
				return lines[len(lines)-1]
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for transcript file %s", path)
	return ""
}
