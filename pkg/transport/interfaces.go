package transport

import "context"

// Writer performs a single frame write on the link.
// Implemented by Link and accepted by Queue.Attach.
type Writer interface {
	// Write sends one frame. A returned error means the frame was not sent.
	Write(frame []byte) error
}

// Link is an established connection to the cube aggregator.
type Link interface {
	Writer

	// Subscribe registers the handler for inbound notifications.
	// The handler is called from the radio goroutine and must not block.
	Subscribe(handler func(data []byte)) error

	// OnDisconnect registers a callback invoked when the peer drops the link.
	OnDisconnect(fn func())

	// Disconnect releases the link.
	Disconnect() error
}

// Device is a discovered peripheral that has not been connected yet.
type Device interface {
	// Name returns the advertised local name.
	Name() string

	// Connect establishes the link.
	Connect(ctx context.Context) (Link, error)
}

// Scanner discovers devices by advertised name.
type Scanner interface {
	// Scan blocks until a device advertising a name with the given prefix is
	// found, or ctx is done.
	Scan(ctx context.Context, namePrefix string) (Device, error)
}

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(frame []byte) error

// Write calls f(frame).
func (f WriterFunc) Write(frame []byte) error {
	return f(frame)
}

// Compile-time interface satisfaction check.
var _ Writer = WriterFunc(nil)
