package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewEventLogger(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.Path() == "" {
		t.Error("EventLogger path is empty")
	}

	// Verify file exists
	if _, err := os.Stat(logger.Path()); os.IsNotExist(err) {
		t.Errorf("Event log file was not created at %s", logger.Path())
	}

	// Verify filename format
	filename := filepath.Base(logger.Path())
	if !strings.HasPrefix(filename, "load-") || !strings.HasSuffix(filename, ".jsonl") {
		t.Errorf("Event log filename format incorrect: %s", filename)
	}
}

func TestEventLogger_LogFetch(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if err := logger.LogFetch("run-1", "launches", 205, 1200*time.Millisecond); err != nil {
		t.Fatalf("LogFetch failed: %v", err)
	}

	logger.Close()

	content, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var event Event
	if err := json.Unmarshal(content, &event); err != nil {
		t.Fatalf("Failed to decode JSONL: %v", err)
	}

	if event.Event != EventFetch {
		t.Errorf("Expected event type 'fetch', got '%s'", event.Event)
	}
	if event.Resource != "launches" {
		t.Errorf("Expected resource 'launches', got '%s'", event.Resource)
	}
	if event.Count != 205 {
		t.Errorf("Expected count 205, got %d", event.Count)
	}
	if event.Duration != 1200 {
		t.Errorf("Expected duration 1200 ms, got %d", event.Duration)
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected timestamp to be auto-set")
	}
}

func TestEventLogger_LogSkip(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if err := logger.LogSkip("run-1", "P1", "no-such-launch", "references missing launch"); err != nil {
		t.Fatalf("LogSkip failed: %v", err)
	}

	logger.Close()

	content, _ := os.ReadFile(logger.Path())
	var event Event
	json.Unmarshal(content, &event)

	if event.Event != EventSkip {
		t.Errorf("Expected event type 'skip', got '%s'", event.Event)
	}
	if event.Level != LevelWarning {
		t.Errorf("Expected level 'warning', got '%s'", event.Level)
	}
	if event.RecordID != "P1" {
		t.Errorf("Expected record_id 'P1', got '%s'", event.RecordID)
	}
	if event.LaunchID != "no-such-launch" {
		t.Errorf("Expected launch_id 'no-such-launch', got '%s'", event.LaunchID)
	}
	if event.Reason != "references missing launch" {
		t.Errorf("Expected reason, got '%s'", event.Reason)
	}
}

func TestEventLogger_LogError(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if err := logger.LogError("run-1", "fetch", errors.New("connection refused")); err != nil {
		t.Fatalf("LogError failed: %v", err)
	}

	logger.Close()

	content, _ := os.ReadFile(logger.Path())
	var event Event
	json.Unmarshal(content, &event)

	if event.Level != LevelError {
		t.Errorf("Expected level 'error', got '%s'", event.Level)
	}
	if event.Error == "" {
		t.Error("Expected error message, got empty string")
	}
}

func TestEventLogger_MultipleEvents(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	events := []*Event{
		{Level: LevelInfo, Event: EventFetch, Resource: "rockets", Count: 4},
		{Level: LevelInfo, Event: EventLoad, Resource: "launches", Count: 205},
		{Level: LevelWarning, Event: EventSkip, RecordID: "P1"},
		{Level: LevelError, Event: EventError, Error: "test error"},
	}

	for _, event := range events {
		if err := logger.Log(event); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	logger.Close()

	// Each line must decode as its own JSON object
	file, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		var decoded Event
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode line %d: %v", lineCount, err)
		}
		if decoded.Timestamp.IsZero() {
			t.Errorf("Line %d: timestamp not set", lineCount)
		}
	}

	if lineCount != len(events) {
		t.Errorf("Expected %d events, got %d", len(events), lineCount)
	}
}

func TestEventLogger_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	const numGoroutines = 10
	const eventsPerGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				event := &Event{
					Level:    LevelInfo,
					Event:    EventFetch,
					Resource: "rockets",
				}
				if err := logger.Log(event); err != nil {
					t.Errorf("Concurrent log failed: %v", err)
				}
			}
		}()
	}

	wg.Wait()
	logger.Close()

	file, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		var decoded Event
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("Failed to decode line %d: %v", lineCount, err)
		}
	}

	expected := numGoroutines * eventsPerGoroutine
	if lineCount != expected {
		t.Errorf("Expected %d events, got %d", expected, lineCount)
	}
}

func TestEventLogger_LogLevelFiltering(t *testing.T) {
	testCases := []struct {
		name          string
		minLevel      EventLevel
		expectedCount int
	}{
		{name: "LevelDebug logs all", minLevel: LevelDebug, expectedCount: 4},
		{name: "LevelInfo skips debug", minLevel: LevelInfo, expectedCount: 3},
		{name: "LevelWarning skips debug and info", minLevel: LevelWarning, expectedCount: 2},
		{name: "LevelError only logs errors", minLevel: LevelError, expectedCount: 1},
	}

	events := []Event{
		{Level: LevelDebug, Event: EventFetch},
		{Level: LevelInfo, Event: EventLoad},
		{Level: LevelWarning, Event: EventSkip},
		{Level: LevelError, Event: EventError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			logger, err := NewEventLogger(tmpDir, tc.minLevel)
			if err != nil {
				t.Fatalf("NewEventLogger failed: %v", err)
			}
			defer logger.Close()

			for _, e := range events {
				e := e
				if err := logger.Log(&e); err != nil {
					t.Fatalf("Log failed: %v", err)
				}
			}

			logger.Close()

			file, err := os.Open(logger.Path())
			if err != nil {
				t.Fatalf("Failed to open log file: %v", err)
			}
			defer file.Close()

			scanner := bufio.NewScanner(file)
			lineCount := 0
			for scanner.Scan() {
				lineCount++
			}

			if lineCount != tc.expectedCount {
				t.Errorf("Expected %d events logged, got %d", tc.expectedCount, lineCount)
			}
		})
	}
}

func TestEventLogger_NullLogger(t *testing.T) {
	logger := NullLogger()

	// Every method is a safe no-op on the nil logger
	if err := logger.Log(&Event{Level: LevelInfo, Event: EventFetch}); err != nil {
		t.Errorf("NullLogger.Log should not return error, got: %v", err)
	}
	if err := logger.LogSkip("run", "P1", "L1", "reason"); err != nil {
		t.Errorf("NullLogger.LogSkip should not return error, got: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("NullLogger.Close should not return error, got: %v", err)
	}
	if path := logger.Path(); path != "" {
		t.Errorf("NullLogger.Path should return empty string, got: %s", path)
	}
}
