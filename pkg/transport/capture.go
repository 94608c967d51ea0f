package transport

import (
	"time"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// MaxLogFrameDataSize is the maximum frame data size to include in capture
// events. Larger payloads are truncated.
const MaxLogFrameDataSize = 4096

// NewFrameEvent creates a capture event for raw link data.
func NewFrameEvent(sessionID string, data []byte, direction log.Direction) log.Event {
	frameData := data
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		frameData = data[:MaxLogFrameDataSize]
		truncated = true
	}

	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: direction,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Frame: &log.FrameEvent{
			Size:      len(data),
			Data:      append([]byte(nil), frameData...),
			Truncated: truncated,
		},
	}
}

// NewErrorEvent creates a capture event for a transport failure.
func NewErrorEvent(sessionID string, err error, context string) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: log.DirectionOut,
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: context,
		},
	}
}
