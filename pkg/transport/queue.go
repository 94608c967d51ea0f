package transport

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// Queue errors.
var (
	// ErrQueueClosed is returned when submitting to a closed queue.
	ErrQueueClosed = errors.New("command queue closed")

	// ErrNotAttached is reported for writes attempted with no link attached.
	ErrNotAttached = errors.New("no link attached")
)

// QueueConfig configures a Queue.
type QueueConfig struct {
	// MaxFrameSize is the chunk size used by Enqueue. Defaults to
	// DefaultMaxFrameSize.
	MaxFrameSize int

	// Logger receives write failures and debug output. Optional.
	Logger *slog.Logger
}

// QueueStats are cumulative delivery counters.
type QueueStats struct {
	Submitted uint64
	Written   uint64
	Failed    uint64
}

// Queue delivers frames to a Writer strictly in submission order, with at
// most one write in flight. It is safe for concurrent use.
type Queue struct {
	maxFrameSize int
	logger       *slog.Logger

	submitCh chan []Frame
	flushCh  chan chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	// mu guards the attached writer and capture settings, read by the
	// writer goroutine before every write.
	mu        sync.Mutex
	writer    Writer
	plog      log.Logger
	sessionID string

	submitted atomic.Uint64
	written   atomic.Uint64
	failed    atomic.Uint64
}

// NewQueue creates a Queue and starts its owner goroutine.
// Call Close to stop it.
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = DefaultMaxFrameSize
	}

	q := &Queue{
		maxFrameSize: cfg.MaxFrameSize,
		logger:       cfg.Logger,
		submitCh:     make(chan []Frame),
		flushCh:      make(chan chan struct{}),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		plog:         log.NoopLogger{},
	}
	go q.run()
	return q
}

// MaxFrameSize returns the chunk size used by Enqueue.
func (q *Queue) MaxFrameSize() int {
	return q.maxFrameSize
}

// Attach sets the writer that receives frames. Pass nil to detach; frames
// drained while detached fail with ErrNotAttached and are dropped.
func (q *Queue) Attach(w Writer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.writer = w
}

// SetLogger configures protocol capture for frames written by this queue.
// Pass nil to disable capture.
func (q *Queue) SetLogger(logger log.Logger, sessionID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.plog = log.OrNoop(logger)
	q.sessionID = sessionID
}

// Submit appends frames to the tail of the queue. It does not wait for
// delivery.
func (q *Queue) Submit(frames ...Frame) error {
	if len(frames) == 0 {
		return nil
	}

	select {
	case q.submitCh <- frames:
		q.submitted.Add(uint64(len(frames)))
		return nil
	case <-q.stopCh:
		return ErrQueueClosed
	}
}

// Enqueue chunks payload and submits the frames. It returns the number of
// frames queued.
func (q *Queue) Enqueue(payload []byte) (int, error) {
	frames := Chunk(payload, q.maxFrameSize)
	if err := q.Submit(frames...); err != nil {
		return 0, err
	}
	return len(frames), nil
}

// Flush blocks until every frame submitted before the call has been handed
// to the writer and no write is in flight, or ctx is done.
func (q *Queue) Flush(ctx context.Context) error {
	waiter := make(chan struct{})

	select {
	case q.flushCh <- waiter:
	case <-q.stopCh:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-waiter:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-q.stopCh:
		return ErrQueueClosed
	default:
		return nil
	}
}

// Stats returns the delivery counters.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Submitted: q.submitted.Load(),
		Written:   q.written.Load(),
		Failed:    q.failed.Load(),
	}
}

// Close stops the queue. Frames still pending are dropped. A write already
// in progress is not interrupted. Close is idempotent.
func (q *Queue) Close() error {
	q.stopOnce.Do(func() {
		close(q.stopCh)
	})
	<-q.doneCh
	return nil
}

// run owns the pending FIFO. The head frame is offered to the writer
// goroutine only while no write is in flight.
func (q *Queue) run() {
	defer close(q.doneCh)

	writeCh := make(chan Frame)
	writeDone := make(chan struct{})
	go q.writeLoop(writeCh, writeDone)
	defer close(writeCh)

	var (
		pending []Frame
		waiters []chan struct{}
		busy    bool
	)

	for {
		if !busy && len(pending) == 0 && len(waiters) > 0 {
			for _, w := range waiters {
				close(w)
			}
			waiters = nil
		}

		var (
			out  chan Frame
			head Frame
		)
		if !busy && len(pending) > 0 {
			out = writeCh
			head = pending[0]
		}

		select {
		case frames := <-q.submitCh:
			pending = append(pending, frames...)

		case out <- head:
			pending[0] = nil
			pending = pending[1:]
			busy = true

		case <-writeDone:
			busy = false

		case w := <-q.flushCh:
			waiters = append(waiters, w)

		case <-q.stopCh:
			if len(pending) > 0 && q.logger != nil {
				q.logger.Debug("command queue closed with pending frames", "dropped", len(pending))
			}
			for _, w := range waiters {
				close(w)
			}
			return
		}
	}
}

// writeLoop performs one write per frame received from run.
func (q *Queue) writeLoop(frames <-chan Frame, done chan<- struct{}) {
	for frame := range frames {
		q.write(frame)

		select {
		case done <- struct{}{}:
		case <-q.stopCh:
			return
		}
	}
}

func (q *Queue) write(frame Frame) {
	q.mu.Lock()
	w, plog, sessionID := q.writer, q.plog, q.sessionID
	q.mu.Unlock()

	var err error
	if w == nil {
		err = ErrNotAttached
	} else {
		err = w.Write(frame)
	}

	if err != nil {
		q.failed.Add(1)
		if q.logger != nil {
			q.logger.Warn("frame write failed, dropping frame", "size", len(frame), "error", err)
		}
		plog.Log(NewErrorEvent(sessionID, err, "write frame"))
		return
	}

	q.written.Add(1)
	plog.Log(NewFrameEvent(sessionID, frame, log.DirectionOut))
}
