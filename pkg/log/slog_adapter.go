package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see frames and state changes
// interleaved with operational logs.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Model != "" {
		attrs = append(attrs, slog.String("model", event.Model))
	}
	if event.Group != "" {
		attrs = append(attrs, slog.String("group", event.Group))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.String("frame", hex.EncodeToString(event.Frame.Data)),
		)
		if event.Frame.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Notification != nil:
		attrs = append(attrs, slog.Bool("ready", event.Notification.Ready))
		if event.Notification.Ready {
			attrs = append(attrs,
				slog.Int("unit", event.Notification.Unit),
				slog.Int("ready_count", event.Notification.ReadyCount),
			)
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Action != nil:
		attrs = append(attrs,
			slog.String("action", event.Action.Name),
			slog.String("outcome", event.Action.Outcome.String()),
		)
		if event.Action.Nominal > 0 {
			attrs = append(attrs, slog.Duration("nominal", event.Action.Nominal))
		}
		if event.Action.Frames > 0 {
			attrs = append(attrs, slog.Int("frames", event.Action.Frames))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
