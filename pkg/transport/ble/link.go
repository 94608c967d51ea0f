package ble

import (
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/cubelink/cubelink-go/pkg/transport"
)

// Link is a connected cube aggregator.
type Link struct {
	scanner *Scanner
	device  bluetooth.Device
	address string
	rx      bluetooth.DeviceCharacteristic
	tx      bluetooth.DeviceCharacteristic

	mu           sync.Mutex
	onDisconnect func()
	closed       bool
}

// Write sends one frame to the RX characteristic without response.
func (l *Link) Write(frame []byte) error {
	_, err := l.rx.WriteWithoutResponse(frame)
	return err
}

// Subscribe enables notifications on the TX characteristic.
func (l *Link) Subscribe(handler func(data []byte)) error {
	return l.tx.EnableNotifications(func(buf []byte) {
		// The stack may reuse buf after the callback returns.
		handler(append([]byte(nil), buf...))
	})
}

// OnDisconnect registers the peer-disconnect callback.
func (l *Link) OnDisconnect(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onDisconnect = fn
}

// Disconnect releases the link. The peer-disconnect callback is not invoked
// for a local disconnect.
func (l *Link) Disconnect() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.scanner.untrack(l.address)
	return l.device.Disconnect()
}

func (l *Link) peerDisconnected() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	fn := l.onDisconnect
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Compile-time interface satisfaction check.
var _ transport.Link = (*Link)(nil)
