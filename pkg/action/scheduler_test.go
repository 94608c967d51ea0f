package action

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubelink/cubelink-go/pkg/log"
	"github.com/cubelink/cubelink-go/pkg/transport"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (r *frameRecorder) Write(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("radio off")
	}
	r.frames = append(r.frames, append([]byte(nil), frame...))
	return nil
}

func (r *frameRecorder) get() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.frames...)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *eventRecorder) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) outcomes() []log.ActionOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []log.ActionOutcome
	for _, e := range r.events {
		if e.Action != nil {
			out = append(out, e.Action.Outcome)
		}
	}
	return out
}

type testScheduler struct {
	*Scheduler
	clock  *clock.Mock
	queue  *transport.Queue
	writes *frameRecorder
	events *eventRecorder
}

func newTestScheduler(t *testing.T) *testScheduler {
	t.Helper()

	ts := &testScheduler{
		clock:  clock.NewMock(),
		queue:  transport.NewQueue(transport.QueueConfig{}),
		writes: &frameRecorder{},
		events: &eventRecorder{},
	}
	ts.queue.Attach(ts.writes)
	t.Cleanup(func() { ts.queue.Close() })

	s, err := NewScheduler(Config{
		Queue:          ts.queue,
		Clock:          ts.clock,
		SessionID:      func() string { return "session-1" },
		ProtocolLogger: ts.events,
	})
	require.NoError(t, err)
	ts.Scheduler = s
	return ts
}

func (ts *testScheduler) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, ts.queue.Flush(ctx))
}

func waitDone(t *testing.T, p *Pending) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func payload(b ...byte) func() []byte {
	return func() []byte { return b }
}

func TestPerformWritesOneFrameAndCompletes(t *testing.T) {
	ts := newTestScheduler(t)

	p, err := ts.Perform("blink", payload(0x01, 0x02), 64*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StateInFlight, ts.State())
	assert.Equal(t, 1, p.Frames())

	ts.flush(t)
	assert.Equal(t, [][]byte{{0x01, 0x02}}, ts.writes.get())

	ts.clock.Add(63 * time.Millisecond)
	select {
	case <-p.Done():
		t.Fatal("resolved before the nominal duration")
	default:
	}
	assert.Equal(t, StateInFlight, ts.State())

	ts.clock.Add(time.Millisecond)
	waitDone(t, p)
	assert.Equal(t, StateIdle, ts.State())
	assert.Nil(t, ts.Current())
}

func TestPerformRejectsWhileInFlight(t *testing.T) {
	ts := newTestScheduler(t)

	first, err := ts.Perform("step", payload(0xAA), 500*time.Millisecond)
	require.NoError(t, err)

	encoded := false
	_, err = ts.Perform("led", func() []byte { encoded = true; return []byte{0xBB} }, 64*time.Millisecond)
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, encoded, "a rejected action must not be encoded")

	ts.flush(t)
	assert.Equal(t, [][]byte{{0xAA}}, ts.writes.get())

	// The running timer is unchanged: 500ms from the first request.
	ts.clock.Add(499 * time.Millisecond)
	assert.Equal(t, StateInFlight, ts.State())
	ts.clock.Add(time.Millisecond)
	waitDone(t, first)

	second, err := ts.Perform("led", payload(0xBB), 64*time.Millisecond)
	require.NoError(t, err)
	ts.clock.Add(64 * time.Millisecond)
	waitDone(t, second)

	assert.Equal(t, []log.ActionOutcome{
		log.ActionStarted, log.ActionRejected, log.ActionCompleted,
		log.ActionStarted, log.ActionCompleted,
	}, ts.events.outcomes())
}

func TestIdleBeforeResolve(t *testing.T) {
	ts := newTestScheduler(t)

	p, err := ts.Perform("a", payload(1), 64*time.Millisecond)
	require.NoError(t, err)
	ts.clock.Add(64 * time.Millisecond)
	waitDone(t, p)

	// A caller proceeding on resolution may start the next action at once.
	next, err := ts.Perform("b", payload(2), 64*time.Millisecond)
	require.NoError(t, err)
	assert.NotNil(t, next)
}

func TestLongPayloadIsChunked(t *testing.T) {
	ts := newTestScheduler(t)

	data := make([]byte, 45)
	for i := range data {
		data[i] = byte(i)
	}
	p, err := ts.Perform("upload", payload(data...), 64*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Frames())

	ts.flush(t)
	frames := ts.writes.get()
	require.Len(t, frames, 3)
	assert.Len(t, frames[0], 20)
	assert.Len(t, frames[1], 20)
	assert.Len(t, frames[2], 5)
}

func TestEmptyPayloadStillOccupiesSlot(t *testing.T) {
	ts := newTestScheduler(t)

	p, err := ts.Perform("noop", payload(), 64*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Frames())

	_, err = ts.Perform("other", payload(1), 64*time.Millisecond)
	assert.ErrorIs(t, err, ErrBusy)

	ts.clock.Add(64 * time.Millisecond)
	waitDone(t, p)
	ts.flush(t)
	assert.Empty(t, ts.writes.get())
}

func TestWriteFailureDoesNotFailAction(t *testing.T) {
	ts := newTestScheduler(t)
	ts.writes.fail = true

	p, err := ts.Perform("led", payload(1, 2, 3), 64*time.Millisecond)
	require.NoError(t, err)

	ts.flush(t)
	assert.Equal(t, uint64(1), ts.queue.Stats().Failed)

	ts.clock.Add(64 * time.Millisecond)
	waitDone(t, p)
	assert.Equal(t, StateIdle, ts.State())
}

func TestClosedQueueRejects(t *testing.T) {
	ts := newTestScheduler(t)
	require.NoError(t, ts.queue.Close())

	_, err := ts.Perform("led", payload(1), 64*time.Millisecond)
	assert.ErrorIs(t, err, transport.ErrQueueClosed)
	assert.Equal(t, StateIdle, ts.State())
}

func TestWaitContextDoesNotCancelAction(t *testing.T) {
	ts := newTestScheduler(t)

	p, err := ts.Perform("step", payload(1), time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
	assert.Equal(t, StateInFlight, ts.State())

	ts.clock.Add(time.Second)
	waitDone(t, p)
}

func TestStateCallback(t *testing.T) {
	q := transport.NewQueue(transport.QueueConfig{})
	defer q.Close()
	mock := clock.NewMock()

	var mu sync.Mutex
	var transitions []string
	s, err := NewScheduler(Config{
		Queue: q,
		Clock: mock,
		OnStateChange: func(from, to State) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	require.NoError(t, err)

	p, err := s.Perform("x", nil, 64*time.Millisecond)
	require.NoError(t, err)
	mock.Add(64 * time.Millisecond)
	waitDone(t, p)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"IDLE->IN_FLIGHT", "IN_FLIGHT->IDLE"}, transitions)
}

type manualCompletion struct {
	ch chan struct{}
}

func (m manualCompletion) Begin(time.Duration) <-chan struct{} { return m.ch }

func TestCustomCompletion(t *testing.T) {
	q := transport.NewQueue(transport.QueueConfig{})
	defer q.Close()

	done := make(chan struct{})
	s, err := NewScheduler(Config{Queue: q, Completion: manualCompletion{ch: done}})
	require.NoError(t, err)

	p, err := s.Perform("x", payload(1), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, StateInFlight, s.State())

	close(done)
	waitDone(t, p)
	assert.Equal(t, StateIdle, s.State())
}

func TestNominalDurationZero(t *testing.T) {
	done := NominalDuration{Clock: clock.NewMock()}.Begin(0)
	select {
	case <-done:
	default:
		t.Fatal("zero duration should complete immediately")
	}
}

func TestNewSchedulerRequiresQueue(t *testing.T) {
	_, err := NewScheduler(Config{})
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "IN_FLIGHT", StateInFlight.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
