// Package audit records conversation transcripts as append-only NDJSON,
// one file per session. Recording is best-effort: a full queue drops the
// event rather than blocking a conversation turn.
package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Event is one recorded transcript entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
}

// Recorder accepts transcript events.
type Recorder interface {
	Record(event Event)
	Close() error
}

// NoopRecorder discards all events.
type NoopRecorder struct{}

func (NoopRecorder) Record(Event) {}
func (NoopRecorder) Close() error { return nil }

// Config configures the transcript recorder.
type Config struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// TranscriptRecorder appends events to <dir>/<session_id>.ndjson via a
// single writer goroutine fed by a bounded queue.
type TranscriptRecorder struct {
	dir    string
	queue  chan Event
	done   chan struct{}
	logger *slog.Logger
}

// NewTranscriptRecorder creates the transcript directory and starts the
// writer goroutine. Returns a NoopRecorder when disabled.
func NewTranscriptRecorder(cfg Config, logger *slog.Logger) (Recorder, error) {
	if !cfg.Enabled {
		return NoopRecorder{}, nil
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("transcript dir is required when transcripts are enabled")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}

	r := &TranscriptRecorder{
		dir:    cfg.Dir,
		queue:  make(chan Event, size),
		done:   make(chan struct{}),
		logger: logger,
	}
	go r.run()
	return r, nil
}

// Record enqueues an event. Never blocks; drops when the queue is full.
func (r *TranscriptRecorder) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.queue <- event:
	default:
		r.logger.Warn("transcript queue full, dropping event", "session_id", event.SessionID)
	}
}

// Close drains the queue and stops the writer.
func (r *TranscriptRecorder) Close() error {
	close(r.queue)
	<-r.done
	return nil
}

func (r *TranscriptRecorder) run() {
	defer close(r.done)
	for event := range r.queue {
		if err := r.append(event); err != nil {
			r.logger.Error("failed to append transcript event",
				"session_id", event.SessionID, "error", err)
		}
	}
}

func (r *TranscriptRecorder) append(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	path := filepath.Join(r.dir, event.SessionID+".ndjson")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write transcript line: %w", err)
	}
	return nil
}
