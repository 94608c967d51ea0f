package log

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("capture file was not created")
	}
	if logger.Path() != path {
		t.Errorf("Path: got %q, want %q", logger.Path(), path)
	}
}

func TestFileLoggerWritesFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "sess-1",
		Direction: DirectionOut,
		Layer:     LayerTransport,
		Category:  CategoryFrame,
		Model:     "g3",
		Frame: &FrameEvent{
			Size: 3,
			Data: []byte{0xFF, 0xFF, 0xFF},
		},
	}
	logger.Log(event)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read capture: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}

	if decoded.SessionID != "sess-1" {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, "sess-1")
	}
	if decoded.Model != "g3" {
		t.Errorf("Model: got %q, want %q", decoded.Model, "g3")
	}
	if decoded.Frame == nil || decoded.Frame.Size != 3 {
		t.Errorf("Frame: got %+v", decoded.Frame)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.clog")

	for i := 0; i < 2; i++ {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), SessionID: "s", Category: CategoryState})
		logger.Close()
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				logger.Log(Event{
					Timestamp: time.Now(),
					Direction: DirectionIn,
					Category:  CategoryNotification,
					Notification: &NotificationEvent{
						Ready: true,
						Unit:  i % 3,
					},
				})
			}
		}()
	}
	wg.Wait()

	if got := logger.Written(); got != writers*perWriter {
		t.Errorf("Written: got %d, want %d", got, writers*perWriter)
	}
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != writers*perWriter {
		t.Errorf("got %d events, want %d", len(events), writers*perWriter)
	}
}

func TestFileLoggerLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	logger.Log(Event{Timestamp: time.Now()})
	if logger.Written() != 0 {
		t.Errorf("Written after close: got %d, want 0", logger.Written())
	}
}
