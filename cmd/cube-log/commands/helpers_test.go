package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cubelink/cubelink-go/pkg/log"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.clog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

var baseTime = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

// sessionEvents returns a short but complete connect-and-act session.
func sessionEvents(sessionID string, start time.Time) []log.Event {
	join := wire.NewPacket(wire.TargetAggregator, 3, wire.OpGroupJoin, nil)
	at := func(ms int) time.Time { return start.Add(time.Duration(ms) * time.Millisecond) }
	return []log.Event{
		{
			Timestamp: at(0), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionLocal, Layer: log.LayerGroup, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityHandshake, OldState: "IDLE", NewState: "SCANNING"},
		},
		{
			Timestamp: at(10), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionOut, Layer: log.LayerTransport, Category: log.CategoryFrame,
			Frame: &log.FrameEvent{Size: len(join), Data: join},
		},
		{
			Timestamp: at(20), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionIn, Layer: log.LayerWire, Category: log.CategoryNotification,
			Notification: &log.NotificationEvent{Ready: true, Unit: 1, ReadyCount: 1},
		},
		{
			Timestamp: at(30), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionLocal, Layer: log.LayerGroup, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityHandshake, OldState: "AWAITING_READY", NewState: "READY"},
		},
		{
			Timestamp: at(40), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionLocal, Layer: log.LayerAction, Category: log.CategoryAction,
			Action: &log.ActionEvent{Name: "set_step", Outcome: log.ActionStarted, Nominal: 500 * time.Millisecond, PayloadSize: 13, Frames: 1},
		},
		{
			Timestamp: at(50), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionLocal, Layer: log.LayerAction, Category: log.CategoryAction,
			Action: &log.ActionEvent{Name: "change_led", Outcome: log.ActionRejected},
		},
		{
			Timestamp: at(540), SessionID: sessionID, Model: "g3", Group: "12",
			Direction: log.DirectionLocal, Layer: log.LayerAction, Category: log.CategoryAction,
			Action: &log.ActionEvent{Name: "set_step", Outcome: log.ActionCompleted, Nominal: 500 * time.Millisecond},
		},
	}
}
