package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// RunExport writes the log file to output (stdout when empty) as jsonl or csv.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "jsonl" {
		return exportJSONL(reader, w)
	}
	return exportCSV(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "direction", "layer", "category", "model", "group", "type", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType, detail := "unknown", ""
		switch {
		case event.Frame != nil:
			eventType, detail = "frame", strconv.Itoa(event.Frame.Size)
		case event.Notification != nil:
			eventType = "notification"
			if event.Notification.Ready {
				detail = strconv.Itoa(event.Notification.Unit)
			}
		case event.StateChange != nil:
			eventType, detail = "state", event.StateChange.NewState
		case event.Action != nil:
			eventType, detail = "action", event.Action.Name+":"+event.Action.Outcome.String()
		case event.Error != nil:
			eventType, detail = "error", event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.Model,
			event.Group,
			eventType,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
}
