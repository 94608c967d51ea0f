package transport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// recordingWriter records frames and can hold writes until released.
type recordingWriter struct {
	mu       sync.Mutex
	frames   [][]byte
	inFlight int
	maxSeen  int
	gate     chan struct{}
	failOn   map[int]error
}

func (w *recordingWriter) Write(frame []byte) error {
	w.mu.Lock()
	w.inFlight++
	if w.inFlight > w.maxSeen {
		w.maxSeen = w.inFlight
	}
	idx := len(w.frames)
	w.frames = append(w.frames, append([]byte(nil), frame...))
	gate := w.gate
	err := w.failOn[idx]
	w.mu.Unlock()

	if gate != nil {
		<-gate
	}

	w.mu.Lock()
	w.inFlight--
	w.mu.Unlock()
	return err
}

func (w *recordingWriter) written() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]byte(nil), w.frames...)
}

func (w *recordingWriter) maxConcurrent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.maxSeen
}

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureLogger) byCategory(cat log.Category) []log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []log.Event
	for _, e := range c.events {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

func newTestQueue(t *testing.T, w Writer) *Queue {
	t.Helper()
	q := NewQueue(QueueConfig{})
	q.Attach(w)
	t.Cleanup(func() { q.Close() })
	return q
}

func flush(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Flush(ctx))
}

func TestQueueDeliversInOrder(t *testing.T) {
	w := &recordingWriter{}
	q := newTestQueue(t, w)

	require.NoError(t, q.Submit(Frame{1}, Frame{2}))
	require.NoError(t, q.Submit(Frame{3}))
	flush(t, q)

	assert.Equal(t, [][]byte{{1}, {2}, {3}}, w.written())
}

func TestQueueConcurrentSubmittersKeepBatchOrder(t *testing.T) {
	w := &recordingWriter{}
	q := newTestQueue(t, w)

	payloadA := bytes.Repeat([]byte{0xA}, 45)
	payloadB := bytes.Repeat([]byte{0xB}, 45)

	var wg sync.WaitGroup
	for _, p := range [][]byte{payloadA, payloadB} {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Enqueue(p)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	flush(t, q)

	frames := w.written()
	require.Len(t, frames, 6)

	// Each Enqueue submits its chunks as one batch, so the payloads never
	// interleave.
	var joined []byte
	for _, f := range frames {
		joined = append(joined, f...)
	}
	first := joined[:45]
	second := joined[45:]
	assert.True(t,
		(bytes.Equal(first, payloadA) && bytes.Equal(second, payloadB)) ||
			(bytes.Equal(first, payloadB) && bytes.Equal(second, payloadA)))
}

func TestQueueOneWriteInFlight(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := newTestQueue(t, w)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Submit(Frame{byte(i)}))
	}

	for i := 0; i < 5; i++ {
		require.Eventually(t, func() bool { return len(w.written()) == i+1 }, time.Second, time.Millisecond)
		// Give the queue a chance to misbehave before releasing.
		time.Sleep(5 * time.Millisecond)
		assert.Len(t, w.written(), i+1)
		w.gate <- struct{}{}
	}
	flush(t, q)

	assert.Equal(t, 1, w.maxConcurrent())
}

func TestQueueSubmitDoesNotWaitForWrites(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := newTestQueue(t, w)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			_ = q.Submit(Frame{byte(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a held write")
	}
	close(w.gate)
}

func TestQueueWriteFailureDropsFrameAndContinues(t *testing.T) {
	w := &recordingWriter{failOn: map[int]error{1: errors.New("radio busy")}}

	var logBuf bytes.Buffer
	q := NewQueue(QueueConfig{Logger: slog.New(slog.NewTextHandler(&logBuf, nil))})
	defer q.Close()
	q.Attach(w)

	plog := &captureLogger{}
	q.SetLogger(plog, "sess-1")

	require.NoError(t, q.Submit(Frame{1}, Frame{2}, Frame{3}))
	flush(t, q)

	assert.Equal(t, [][]byte{{1}, {2}, {3}}, w.written(), "failed frame is not retried")
	stats := q.Stats()
	assert.Equal(t, uint64(3), stats.Submitted)
	assert.Equal(t, uint64(2), stats.Written)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Contains(t, logBuf.String(), "radio busy")

	assert.Len(t, plog.byCategory(log.CategoryFrame), 2)
	errs := plog.byCategory(log.CategoryError)
	require.Len(t, errs, 1)
	assert.Equal(t, "sess-1", errs[0].SessionID)
}

func TestQueueWithoutWriterDropsFrames(t *testing.T) {
	q := NewQueue(QueueConfig{})
	defer q.Close()

	require.NoError(t, q.Submit(Frame{1}))
	flush(t, q)
	assert.Equal(t, uint64(1), q.Stats().Failed)

	w := &recordingWriter{}
	q.Attach(w)
	require.NoError(t, q.Submit(Frame{2}))
	flush(t, q)
	assert.Equal(t, [][]byte{{2}}, w.written())
}

func TestQueueEnqueueChunks(t *testing.T) {
	w := &recordingWriter{}
	q := NewQueue(QueueConfig{MaxFrameSize: 4})
	defer q.Close()
	q.Attach(w)

	n, err := q.Enqueue([]byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	flush(t, q)
	assert.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6}}, w.written())

	n, err = q.Enqueue(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQueueFlushHonoursContext(t *testing.T) {
	w := &recordingWriter{gate: make(chan struct{})}
	q := newTestQueue(t, w)
	defer close(w.gate)

	require.NoError(t, q.Submit(Frame{1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Flush(ctx), context.DeadlineExceeded)
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(QueueConfig{})
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Submit(Frame{1}), ErrQueueClosed)
	assert.ErrorIs(t, q.Flush(context.Background()), ErrQueueClosed)
}

func TestQueueDefaultMaxFrameSize(t *testing.T) {
	q := NewQueue(QueueConfig{})
	defer q.Close()
	assert.Equal(t, DefaultMaxFrameSize, q.MaxFrameSize())
}
