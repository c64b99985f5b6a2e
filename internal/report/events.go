package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventFetch EventType = "fetch"
	EventLoad  EventType = "load"
	EventSkip  EventType = "skip"
	EventError EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the load pipeline
type Event struct {
	Timestamp time.Time  `json:"ts"`
	Level     EventLevel `json:"level"`
	Event     EventType  `json:"event"`
	RunID     string     `json:"run_id,omitempty"`
	Resource  string     `json:"resource,omitempty"`
	RecordID  string     `json:"record_id,omitempty"`
	LaunchID  string     `json:"launch_id,omitempty"`
	Count     int        `json:"count,omitempty"`
	Duration  int64      `json:"duration_ms,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("load-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogFetch logs the fetch of one resource collection
func (l *EventLogger) LogFetch(runID, resource string, count int, duration time.Duration) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventFetch,
		RunID:    runID,
		Resource: resource,
		Count:    count,
		Duration: duration.Milliseconds(),
	})
}

// LogLoad logs the completion of one load phase
func (l *EventLogger) LogLoad(runID, resource string, count int, duration time.Duration) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventLoad,
		RunID:    runID,
		Resource: resource,
		Count:    count,
		Duration: duration.Milliseconds(),
	})
}

// LogSkip logs a payload skipped for a missing or dangling launch reference
func (l *EventLogger) LogSkip(runID, payloadID, launchID, reason string) error {
	return l.Log(&Event{
		Level:    LevelWarning,
		Event:    EventSkip,
		RunID:    runID,
		Resource: "payloads",
		RecordID: payloadID,
		LaunchID: launchID,
		Reason:   reason,
	})
}

// LogError logs a fatal pipeline error
func (l *EventLogger) LogError(runID, resource string, err error) error {
	return l.Log(&Event{
		Level:    LevelError,
		Event:    EventError,
		RunID:    runID,
		Resource: resource,
		Error:    err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
