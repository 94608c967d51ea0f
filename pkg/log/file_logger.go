package log

import (
	"bufio"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger writes protocol events to a capture file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
//
// Writes are buffered; every event is flushed once encoded so a crash loses
// at most the event being written.
type FileLogger struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	buf     *bufio.Writer
	encoder *cbor.Encoder
	closed  bool
	written int
}

// NewFileLogger creates a FileLogger that appends to the specified path.
// The file is created with permissions 0644 if it doesn't exist.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &FileLogger{
		path:    path,
		file:    f,
		buf:     buf,
		encoder: NewEncoder(buf),
	}, nil
}

// Log writes an event to the capture file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Capture must never disrupt the link, so encoding errors are dropped.
	if err := l.encoder.Encode(event); err != nil {
		return
	}
	if err := l.buf.Flush(); err != nil {
		return
	}
	l.written++
}

// Path returns the capture file path.
func (l *FileLogger) Path() string {
	return l.path
}

// Written returns the number of events written so far.
func (l *FileLogger) Written() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Close flushes and closes the capture file.
// It is safe to call Close multiple times; later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	flushErr := l.buf.Flush()
	if err := l.file.Close(); err != nil {
		return err
	}
	return flushErr
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
