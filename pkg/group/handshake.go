package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/cubelink/cubelink-go/pkg/connection"
	"github.com/cubelink/cubelink-go/pkg/log"
	"github.com/cubelink/cubelink-go/pkg/transport"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// DefaultTeardownGrace bounds how long teardown waits for the reboot
// command to leave the queue before dropping the link.
const DefaultTeardownGrace = 2 * time.Second

// Handshake errors.
var (
	// ErrInProgress is returned by Connect while a session is active.
	ErrInProgress = errors.New("group session already active")

	// ErrCancelled is returned by Connect after Cancel.
	ErrCancelled = errors.New("group handshake cancelled")

	// ErrPeerDisconnected is returned by Connect when the link drops
	// before the group forms.
	ErrPeerDisconnected = errors.New("peer disconnected")

	// ErrTornDown is returned by Connect when the session was torn down
	// before it completed.
	ErrTornDown = errors.New("group session torn down")
)

// Config configures a Handshake.
type Config struct {
	// UnitCount is the number of units expected in the group. Required.
	UnitCount int

	// Token selects the aggregator. Defaults to DefaultToken.
	Token Token

	// Policy decides when the group is complete.
	Policy Policy

	// Scanner finds the aggregator. Required.
	Scanner transport.Scanner

	// Queue carries the join and reboot commands. Required. The handshake
	// attaches the session's link to it.
	Queue *transport.Queue

	// Encoder builds the join and reboot commands. Defaults to wire.GCube.
	Encoder wire.Encoder

	// ScanBackoff paces scan retries.
	ScanBackoff connection.BackoffConfig

	// TeardownGrace bounds the queue drain during teardown.
	TeardownGrace time.Duration

	// Clock drives scan retries and teardown. Defaults to the wall clock.
	Clock clock.Clock

	// Logger receives operational logs. Optional.
	Logger *slog.Logger

	// ProtocolLogger receives capture events. Optional.
	ProtocolLogger log.Logger

	// Model is recorded in capture events.
	Model string
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.UnitCount < 1 || c.UnitCount > wire.MaxUnits {
		return fmt.Errorf("unit count %d outside 1..%d", c.UnitCount, wire.MaxUnits)
	}
	if c.Scanner == nil {
		return errors.New("scanner is required")
	}
	if c.Queue == nil {
		return errors.New("queue is required")
	}
	return nil
}

// session is one Connect attempt. Callbacks carry their session so that
// events from an abandoned link are ignored.
type session struct {
	id      string
	link    transport.Link
	ready   *ReadySet
	readyCh chan struct{}

	abortCh  chan struct{}
	abortErr error
}

func (s *session) abort(err error) {
	select {
	case <-s.abortCh:
	default:
		s.abortErr = err
		close(s.abortCh)
	}
}

// Handshake drives the group session state machine. It is safe for
// concurrent use.
type Handshake struct {
	cfg     Config
	encoder wire.Encoder
	clock   clock.Clock
	plog    log.Logger

	mu            sync.Mutex
	state         State
	current       *session
	lastSessionID string
	teardownDone  chan struct{}
}

// NewHandshake creates a Handshake in StateIdle.
func NewHandshake(cfg Config) (*Handshake, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		cfg.Token = DefaultToken
	}
	if cfg.TeardownGrace <= 0 {
		cfg.TeardownGrace = DefaultTeardownGrace
	}

	h := &Handshake{
		cfg:     cfg,
		encoder: cfg.Encoder,
		clock:   cfg.Clock,
		plog:    log.OrNoop(cfg.ProtocolLogger),
	}
	if h.encoder == nil {
		h.encoder = wire.GCube{}
	}
	if h.clock == nil {
		h.clock = clock.New()
	}
	return h, nil
}

// State returns the current state.
func (h *Handshake) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// SessionID returns the ID of the active or most recent session.
func (h *Handshake) SessionID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastSessionID
}

// ReadyUnits returns the units seen ready in the active session.
func (h *Handshake) ReadyUnits() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil || h.current.ready == nil {
		return nil
	}
	return h.current.ready.Units()
}

// Token returns the configured group token.
func (h *Handshake) Token() Token {
	return h.cfg.Token
}

// UnitCount returns the configured group size.
func (h *Handshake) UnitCount() int {
	return h.cfg.UnitCount
}

// Connect runs a session until the group is Ready. It blocks until then,
// until Cancel is called, or until ctx ends; in the latter two cases the
// state returns to Idle and the link is released.
func (h *Handshake) Connect(ctx context.Context) error {
	s, err := h.startSession()
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-s.abortCh:
			stop()
		case <-ctx.Done():
		}
	}()

	var device transport.Device
	err = connection.Retry(ctx, connection.RetryConfig{
		Backoff: connection.NewBackoffWithConfig(h.cfg.ScanBackoff),
		Clock:   h.clock,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			h.debugLog("scan failed, retrying", "name", h.cfg.Token.ScanName(), "attempt", attempt, "delay", delay, "error", err)
		},
	}, func(ctx context.Context) error {
		d, err := h.cfg.Scanner.Scan(ctx, h.cfg.Token.ScanName())
		if err != nil {
			return err
		}
		device = d
		return nil
	})
	if err != nil {
		return h.fail(s, nil, fmt.Errorf("scan: %w", err))
	}

	if !h.advance(s, StateLinking, "found "+device.Name()) {
		return s.abortErr
	}

	link, err := device.Connect(ctx)
	if err != nil {
		return h.fail(s, nil, fmt.Errorf("connect %s: %w", device.Name(), err))
	}

	h.mu.Lock()
	if h.current != s {
		h.mu.Unlock()
		_ = link.Disconnect()
		return s.abortErr
	}
	s.link = link
	h.cfg.Queue.SetLogger(h.plog, s.id)
	h.cfg.Queue.Attach(link)
	h.mu.Unlock()

	if err := link.Subscribe(func(data []byte) { h.handleNotification(s, data) }); err != nil {
		return h.fail(s, link, fmt.Errorf("subscribe: %w", err))
	}
	link.OnDisconnect(func() { h.handlePeerDisconnect(s) })

	if !h.advance(s, StateAwaitingGroupAck, "join sent") {
		return s.abortErr
	}
	if _, err := h.cfg.Queue.Enqueue(h.encoder.GroupJoin(h.cfg.UnitCount, string(h.cfg.Token))); err != nil {
		return h.fail(s, link, fmt.Errorf("send join: %w", err))
	}

	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return h.fail(s, link, ctx.Err())
	}
}

// startSession moves Idle or Disconnected to Scanning.
func (h *Handshake) startSession() (*session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.state.canConnect() {
		return nil, fmt.Errorf("%w: state %s", ErrInProgress, h.state)
	}

	s := &session{
		id:      uuid.NewString(),
		ready:   NewReadySet(h.cfg.UnitCount, h.cfg.Policy),
		readyCh: make(chan struct{}),
		abortCh: make(chan struct{}),
	}
	h.current = s
	h.lastSessionID = s.id
	h.setStateLocked(StateScanning, "scan for "+h.cfg.Token.ScanName())
	return s, nil
}

// advance moves s to state unless it was abandoned meanwhile.
func (h *Handshake) advance(s *session, state State, reason string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != s {
		return false
	}
	h.setStateLocked(state, reason)
	return true
}

// fail ends s after an error in Connect. If s was already abandoned by
// Cancel, teardown or a peer disconnect, that reason wins.
func (h *Handshake) fail(s *session, link transport.Link, cause error) error {
	h.mu.Lock()
	if h.current != s {
		h.mu.Unlock()
		return s.abortErr
	}
	if h.state == StateReady {
		// The group formed while ctx was ending.
		h.mu.Unlock()
		return nil
	}
	if s.link != nil {
		link = s.link
	}
	h.releaseLocked(s, StateIdle, cause.Error())
	h.mu.Unlock()

	if link != nil {
		_ = link.Disconnect()
	}
	return cause
}

// releaseLocked abandons s and detaches its link from the queue.
// The caller disconnects the link outside the lock.
func (h *Handshake) releaseLocked(s *session, next State, reason string) {
	h.current = nil
	if s.link != nil {
		h.cfg.Queue.Attach(nil)
	}
	h.setStateLocked(next, reason)
}

// Cancel abandons an in-flight Connect. The state returns to Idle before
// Cancel returns and the link, if any, is released. It reports whether a
// Connect was in flight.
func (h *Handshake) Cancel() bool {
	h.mu.Lock()
	s := h.current
	if s == nil || !h.state.connecting() {
		h.mu.Unlock()
		return false
	}
	s.abort(ErrCancelled)
	link := s.link
	h.releaseLocked(s, StateIdle, "cancelled")
	h.mu.Unlock()

	if link != nil {
		_ = link.Disconnect()
	}
	return true
}

// Disconnect dissolves a Ready group: it sends the reboot command, waits for
// the queue to drain (bounded by the teardown grace) and drops the link.
// During a Connect it behaves like Cancel. It returns once the state is
// Disconnected, or ctx ends.
func (h *Handshake) Disconnect(ctx context.Context) error {
	h.mu.Lock()
	switch {
	case h.state == StateReady:
		link, done := h.beginTeardownLocked("disconnect requested")
		h.mu.Unlock()
		h.finishTeardown(ctx, link, done)
		return nil

	case h.state == StateTearingDown:
		done := h.teardownDone
		h.mu.Unlock()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	case h.state.connecting():
		h.mu.Unlock()
		h.Cancel()
		return nil

	default:
		h.mu.Unlock()
		return nil
	}
}

// beginTeardownLocked queues the reboot, clears the ReadySet and flips the
// state. finishTeardown completes it.
func (h *Handshake) beginTeardownLocked(reason string) (transport.Link, chan struct{}) {
	s := h.current
	s.abort(ErrTornDown)
	h.current = nil

	if _, err := h.cfg.Queue.Enqueue(h.encoder.RebootAggregator()); err != nil && h.cfg.Logger != nil {
		h.cfg.Logger.Warn("failed to queue aggregator reboot", "error", err)
	}
	s.ready.Reset()

	h.teardownDone = make(chan struct{})
	h.setStateLocked(StateTearingDown, reason)
	return s.link, h.teardownDone
}

func (h *Handshake) finishTeardown(ctx context.Context, link transport.Link, done chan struct{}) {
	flushCtx, cancel := h.clock.WithTimeout(ctx, h.cfg.TeardownGrace)
	if err := h.cfg.Queue.Flush(flushCtx); err != nil {
		h.debugLog("teardown drain incomplete", "error", err)
	}
	cancel()

	h.mu.Lock()
	if h.state == StateTearingDown {
		h.cfg.Queue.Attach(nil)
		h.setStateLocked(StateDisconnected, "teardown complete")
	}
	close(done)
	h.mu.Unlock()

	if link != nil {
		if err := link.Disconnect(); err != nil && h.cfg.Logger != nil {
			h.cfg.Logger.Warn("link disconnect failed", "error", err)
		}
	}
}

// handleNotification runs on the radio goroutine and must not block.
func (h *Handshake) handleNotification(s *session, data []byte) {
	h.plog.Log(h.stamp(transport.NewFrameEvent(s.id, data, log.DirectionIn)))

	n := wire.DecodeNotification(data)
	if !n.Ready {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != s {
		return
	}

	switch h.state {
	case StateAwaitingGroupAck:
		s.ready.Mark(n.Unit)
		h.logNotification(s, n)
		if s.ready.Complete() {
			h.setStateLocked(StateReady, fmt.Sprintf("%d of %d units ready", s.ready.Count(), h.cfg.UnitCount))
			close(s.readyCh)
		}

	case StateReady:
		h.logNotification(s, n)
		link, done := h.beginTeardownLocked(fmt.Sprintf("unexpected ready marker from unit %d", n.Unit))
		go h.finishTeardown(context.Background(), link, done)
	}
}

// handlePeerDisconnect runs when the aggregator drops the link.
func (h *Handshake) handlePeerDisconnect(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != s {
		return
	}
	s.abort(ErrPeerDisconnected)
	h.releaseLocked(s, StateDisconnected, "peer disconnected")
}

// setStateLocked records a transition. Callers hold h.mu.
func (h *Handshake) setStateLocked(state State, reason string) {
	old := h.state
	if old == state {
		return
	}
	h.state = state

	if h.cfg.Logger != nil {
		h.cfg.Logger.Info("group state changed", "from", old, "to", state, "reason", reason, "session", h.lastSessionID)
	}
	h.plog.Log(h.stamp(log.Event{
		Timestamp: time.Now(),
		SessionID: h.lastSessionID,
		Direction: log.DirectionLocal,
		Layer:     log.LayerGroup,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityHandshake,
			OldState: old.String(),
			NewState: state.String(),
			Reason:   reason,
		},
	}))
}

func (h *Handshake) logNotification(s *session, n wire.Notification) {
	h.debugLog("unit ready", "unit", n.Unit, "ready", s.ready.Count(), "of", h.cfg.UnitCount)
	h.plog.Log(h.stamp(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		Direction: log.DirectionIn,
		Layer:     log.LayerWire,
		Category:  log.CategoryNotification,
		Notification: &log.NotificationEvent{
			Ready:      n.Ready,
			Unit:       n.Unit,
			ReadyCount: s.ready.Count(),
		},
	}))
}

// stamp fills the model and group of a capture event.
func (h *Handshake) stamp(e log.Event) log.Event {
	e.Model = h.cfg.Model
	e.Group = h.cfg.Token.String()
	return e
}

func (h *Handshake) debugLog(msg string, args ...any) {
	if h.cfg.Logger != nil {
		h.cfg.Logger.Debug(msg, args...)
	}
}
