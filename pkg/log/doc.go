// Package log provides structured protocol capture for cubelink.
//
// This package defines the Logger interface and Event types for recording
// what crossed the BLE link and how the orchestration layer reacted to it.
// It is separate from operational logging (slog): protocol capture is a
// machine-readable trace for debugging a cube group after the fact.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For field captures: write to a binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/tmp/cubes.clog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw frames written to or received from the link (FrameEvent)
//   - Wire: decoded notifications (NotificationEvent)
//   - Group: handshake state changes (StateChangeEvent)
//   - Action: action start, rejection and completion (ActionEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .clog extension.
// The cube-log CLI tool views, filters and summarizes them.
package log
