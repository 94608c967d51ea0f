package sim

import (
	"sync"

	"github.com/cubelink/cubelink-go/pkg/transport"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// Link is the controller's end of a simulated connection.
type Link struct {
	agg *Aggregator

	mu           sync.Mutex
	buf          []byte
	handler      func([]byte)
	onDisconnect func()
	closed       bool
	frames       int

	// deliverMu serialises notifications like a radio callback goroutine.
	deliverMu sync.Mutex
}

var _ transport.Link = (*Link)(nil)

// Write receives one frame and reassembles packets from the stream.
func (l *Link) Write(frame []byte) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLinkClosed
	}
	l.frames++
	l.buf = append(l.buf, frame...)
	packets, rest, err := wire.SplitPackets(l.buf)
	if err != nil {
		// Resynchronise on garbage.
		rest = nil
	}
	l.buf = append([]byte(nil), rest...)
	l.mu.Unlock()

	for _, p := range packets {
		l.agg.record(l, append([]byte(nil), p...))
	}
	return nil
}

// Frames returns how many frames were written to the link.
func (l *Link) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Subscribe implements transport.Link.
func (l *Link) Subscribe(handler func(data []byte)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrNotSubscribed
	}
	l.handler = handler
	return nil
}

// OnDisconnect implements transport.Link.
func (l *Link) OnDisconnect(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onDisconnect = fn
}

// Disconnect closes the link from the controller side. The disconnect
// callback does not fire.
func (l *Link) Disconnect() error {
	l.drop(false)
	return nil
}

// Closed reports whether the link was dropped.
func (l *Link) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Link) drop(byPeer bool) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	fn := l.onDisconnect
	l.mu.Unlock()

	l.agg.mu.Lock()
	if l.agg.link == l {
		l.agg.link = nil
	}
	l.agg.mu.Unlock()

	if byPeer && fn != nil {
		fn()
	}
}

func (l *Link) notify(data []byte) {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	handler := l.handler
	closed := l.closed
	l.mu.Unlock()

	if closed || handler == nil {
		return
	}
	handler(data)
}
