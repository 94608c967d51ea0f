package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestCapture(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create capture: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesInOrder(t *testing.T) {
	now := time.Now()
	path := createTestCapture(t, []Event{
		{Timestamp: now, SessionID: "s-1", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryFrame},
		{Timestamp: now, SessionID: "s-2", Direction: DirectionIn, Layer: LayerWire, Category: CategoryNotification},
		{Timestamp: now, SessionID: "s-3", Direction: DirectionLocal, Layer: LayerGroup, Category: CategoryState},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var ids []string
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		ids = append(ids, event.SessionID)
	}

	want := []string{"s-1", "s-2", "s-3"}
	if len(ids) != len(want) {
		t.Fatalf("got %d events, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("event %d: got %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestReaderFilter(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []Event{
		{Timestamp: base, SessionID: "a", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryFrame, Model: "g3", Group: "00"},
		{Timestamp: base.Add(time.Second), SessionID: "a", Direction: DirectionIn, Layer: LayerWire, Category: CategoryNotification, Model: "g3", Group: "00"},
		{Timestamp: base.Add(2 * time.Second), SessionID: "b", Direction: DirectionLocal, Layer: LayerAction, Category: CategoryAction, Model: "wormbot", Group: "12"},
		{Timestamp: base.Add(3 * time.Second), SessionID: "b", Direction: DirectionLocal, Layer: LayerGroup, Category: CategoryState, Model: "wormbot", Group: "12"},
	}
	path := createTestCapture(t, events)

	in := DirectionIn
	action := LayerAction
	state := CategoryState
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"empty", Filter{}, 4},
		{"session", Filter{SessionID: "a"}, 2},
		{"direction", Filter{Direction: &in}, 1},
		{"layer", Filter{Layer: &action}, 1},
		{"category", Filter{Category: &state}, 1},
		{"model", Filter{Model: "wormbot"}, 2},
		{"group", Filter{Group: "00"}, 2},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{SessionID: "b", Category: &state}, 1},
		{"no match", Filter{SessionID: "zzz"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			got, err := reader.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.clog")); err == nil {
		t.Error("expected error for missing file")
	}
}
