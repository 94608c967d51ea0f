package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cubelink/cubelink-go/pkg/log"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var typeLabel string
	switch {
	case event.Frame != nil:
		typeLabel = "Frame"
	case event.Notification != nil:
		typeLabel = "Notification"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Action != nil:
		typeLabel = "Action"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [session:%s] %-5s %s %s", ts, shortenID(event.SessionID), event.Direction, event.Layer, typeLabel)
	if event.Model != "" {
		fmt.Fprintf(w, " (%s/%s)", event.Model, event.Group)
	}
	fmt.Fprintln(w)

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Notification != nil:
		formatNotificationDetails(w, event.Notification)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Action != nil:
		formatActionDetails(w, event.Action)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) == 0 {
		return
	}
	fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
	if frame.Truncated {
		fmt.Fprint(w, " (truncated)")
	}
	fmt.Fprintln(w)

	// Frames that start a packet carry a readable header.
	if h, err := wire.ParseHeader(frame.Data); err == nil {
		fmt.Fprintf(w, "  Packet: %s target=0x%02X units=%d size=%d\n", h.Opcode, h.Target, h.UnitCount, h.Size)
	}
}

func formatNotificationDetails(w io.Writer, n *log.NotificationEvent) {
	if !n.Ready {
		fmt.Fprintln(w, "  Not a ready marker")
		return
	}
	fmt.Fprintf(w, "  Unit %d ready (%d so far)\n", n.Unit, n.ReadyCount)
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatActionDetails(w io.Writer, a *log.ActionEvent) {
	fmt.Fprintf(w, "  %s %s", a.Name, a.Outcome)
	if a.Nominal > 0 {
		fmt.Fprintf(w, " nominal=%s", a.Nominal)
	}
	if a.PayloadSize > 0 {
		fmt.Fprintf(w, " bytes=%d", a.PayloadSize)
	}
	if a.Frames > 0 {
		fmt.Fprintf(w, " frames=%d", a.Frames)
	}
	fmt.Fprintln(w)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", e.Layer)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// RunView prints every event matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}

// layerNames lists layers in display order.
var layerNames = []log.Layer{log.LayerTransport, log.LayerWire, log.LayerGroup, log.LayerAction}

func padLabel(s string) string {
	return fmt.Sprintf("%-14s", strings.TrimSpace(s)+":")
}
