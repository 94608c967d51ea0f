package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// Scheduler errors.
var (
	// ErrBusy is returned by Perform while another action is in flight.
	ErrBusy = errors.New("action already in flight")
)

// Enqueuer accepts an encoded command for delivery. transport.Queue
// satisfies it.
type Enqueuer interface {
	Enqueue(payload []byte) (int, error)
}

// Config configures a Scheduler.
type Config struct {
	// Queue delivers encoded commands. Required.
	Queue Enqueuer

	// Completion decides when an action is done. Defaults to
	// NominalDuration driven by Clock.
	Completion Completion

	// Clock drives the default Completion and event timestamps.
	Clock clock.Clock

	// SessionID returns the session recorded in capture events. Optional.
	SessionID func() string

	// OnStateChange is called after every state transition, outside the
	// scheduler's lock.
	OnStateChange func(from, to State)

	// Logger receives operational logs. Optional.
	Logger *slog.Logger

	// ProtocolLogger receives action capture events. Optional.
	ProtocolLogger log.Logger
}

// Pending is an accepted action. It resolves once the action completes.
type Pending struct {
	name     string
	nominal  time.Duration
	frames   int
	resolved chan struct{}
}

// Name returns the action name given to Perform.
func (p *Pending) Name() string { return p.name }

// Nominal returns the declared duration.
func (p *Pending) Nominal() time.Duration { return p.nominal }

// Frames returns how many frames the command was split into.
func (p *Pending) Frames() int { return p.frames }

// Done returns a channel closed when the action completes.
func (p *Pending) Done() <-chan struct{} { return p.resolved }

// Wait blocks until the action completes or ctx ends. A ctx error does not
// cancel the action; the scheduler stays busy until it completes.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scheduler admits at most one action at a time.
type Scheduler struct {
	queue      Enqueuer
	completion Completion
	clock      clock.Clock
	sessionID  func() string
	onState    func(from, to State)
	logger     *slog.Logger
	plog       log.Logger

	mu      sync.Mutex
	state   State
	current *Pending
}

// NewScheduler creates an idle Scheduler.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Queue == nil {
		return nil, errors.New("queue is required")
	}

	s := &Scheduler{
		queue:      cfg.Queue,
		completion: cfg.Completion,
		clock:      cfg.Clock,
		sessionID:  cfg.SessionID,
		onState:    cfg.OnStateChange,
		logger:     cfg.Logger,
		plog:       log.OrNoop(cfg.ProtocolLogger),
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.completion == nil {
		s.completion = NominalDuration{Clock: s.clock}
	}
	if s.sessionID == nil {
		s.sessionID = func() string { return "" }
	}
	return s, nil
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the in-flight action, or nil.
func (s *Scheduler) Current() *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Perform starts an action. While another action is in flight it returns
// ErrBusy without calling encode, writing anything or touching the running
// timer. Otherwise it encodes the command, queues it and returns a Pending
// that resolves after the completion strategy fires. The scheduler is Idle
// again before the Pending resolves.
//
// Transport write failures do not fail the action; the queue logs and drops
// them and the nominal duration still runs. An empty command still occupies
// the scheduler for nominal.
func (s *Scheduler) Perform(name string, encode func() []byte, nominal time.Duration) (*Pending, error) {
	s.mu.Lock()
	if s.state == StateInFlight {
		busy := s.current.name
		s.mu.Unlock()
		s.debugLog("action rejected", "action", name, "busy_with", busy)
		s.logAction(name, log.ActionRejected, nominal, 0, 0)
		return nil, fmt.Errorf("%w: %s", ErrBusy, busy)
	}

	var payload []byte
	if encode != nil {
		payload = encode()
	}
	frames, err := s.queue.Enqueue(payload)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("queue %s: %w", name, err)
	}

	p := &Pending{
		name:     name,
		nominal:  nominal,
		frames:   frames,
		resolved: make(chan struct{}),
	}
	s.current = p
	s.state = StateInFlight
	done := s.completion.Begin(nominal)
	s.mu.Unlock()

	s.notifyState(StateIdle, StateInFlight)
	s.debugLog("action started", "action", name, "nominal", nominal, "bytes", len(payload), "frames", frames)
	s.logAction(name, log.ActionStarted, nominal, len(payload), frames)

	go s.await(p, done)
	return p, nil
}

func (s *Scheduler) await(p *Pending, done <-chan struct{}) {
	<-done

	s.mu.Lock()
	if s.current == p {
		s.current = nil
		s.state = StateIdle
	}
	s.mu.Unlock()

	s.notifyState(StateInFlight, StateIdle)
	s.logAction(p.name, log.ActionCompleted, p.nominal, 0, p.frames)
	close(p.resolved)
}

func (s *Scheduler) notifyState(from, to State) {
	if s.onState != nil {
		s.onState(from, to)
	}
}

func (s *Scheduler) logAction(name string, outcome log.ActionOutcome, nominal time.Duration, size, frames int) {
	s.plog.Log(log.Event{
		Timestamp: s.clock.Now(),
		SessionID: s.sessionID(),
		Direction: log.DirectionLocal,
		Layer:     log.LayerAction,
		Category:  log.CategoryAction,
		Action: &log.ActionEvent{
			Name:        name,
			Outcome:     outcome,
			Nominal:     nominal,
			PayloadSize: size,
			Frames:      frames,
		},
	})
}

func (s *Scheduler) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
