package interactive

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubelink/cubelink-go/internal/sim"
	"github.com/cubelink/cubelink-go/pkg/cube"
	"github.com/cubelink/cubelink-go/pkg/group"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.buf.String()
	b.buf.Reset()
	return s
}

func newSession(t *testing.T, model string) (*Session, *syncBuffer, *sim.Aggregator) {
	t.Helper()
	m, err := cube.LookupModel(model)
	require.NoError(t, err)

	agg := sim.NewAggregator(group.ScanNamePrefix)
	ctrl, err := cube.NewController(cube.Config{Model: m, Scanner: agg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })

	out := &syncBuffer{}
	return NewWithWriter(ctrl, out), out, agg
}

func connected(t *testing.T, model string) (*Session, *syncBuffer, *sim.Aggregator) {
	t.Helper()
	s, out, agg := newSession(t, model)
	s.Execute(context.Background(), "connect")
	s.Wait()
	require.Contains(t, out.take(), "Group ready")
	return s, out, agg
}

func TestConnectAndStatus(t *testing.T) {
	s, out, _ := connected(t, "g3")

	s.Execute(context.Background(), "status")
	text := out.take()
	assert.Contains(t, text, "Model:   g3 (3 units)")
	assert.Contains(t, text, "State:   READY")
	assert.Contains(t, text, "Action:  IDLE")
}

func TestOperationWaitsForCompletion(t *testing.T) {
	s, out, agg := connected(t, "g3")

	s.Execute(context.Background(), "led all 255 0 0")
	assert.Contains(t, out.take(), "OK change_led (64ms)")
	assert.Len(t, agg.Commands(), 2)

	s.Execute(context.Background(), "tool antbot 90")
	assert.Contains(t, out.take(), "OK tool_toggle")
}

func TestArgumentErrors(t *testing.T) {
	s, out, agg := connected(t, "g3")
	ctx := context.Background()

	s.Execute(ctx, "led 0 300 0 0")
	assert.Contains(t, out.take(), "must be 0-255")

	s.Execute(ctx, "led x 1 1 1")
	assert.Contains(t, out.take(), "not an index")

	s.Execute(ctx, "led 5 1 1 1")
	assert.Contains(t, out.take(), "unit outside the group")

	s.Execute(ctx, "move tank 90 10")
	assert.Contains(t, out.take(), "kit")

	s.Execute(ctx, "pixel 0 1 2 maybe")
	assert.Contains(t, out.take(), "not on or off")

	s.Execute(ctx, "step 0 90")
	assert.Contains(t, out.take(), "Usage: step")

	assert.Len(t, agg.Commands(), 1, "only the join was sent")
}

func TestNotReady(t *testing.T) {
	s, out, _ := newSession(t, "g4")
	s.Execute(context.Background(), "spin 0 90")
	assert.Contains(t, out.take(), "group not ready")
}

func TestMotions(t *testing.T) {
	s, out, _ := newSession(t, "wormbot")
	s.Execute(context.Background(), "motions")
	text := out.take()
	assert.Contains(t, text, "dance")
	assert.Contains(t, text, "12s")

	g3, out3, _ := newSession(t, "g3")
	g3.Execute(context.Background(), "motions")
	assert.Contains(t, out3.take(), "no scheduled motions")
}

func TestDisconnectAndCancel(t *testing.T) {
	s, out, _ := connected(t, "g2")
	ctx := context.Background()

	s.Execute(ctx, "cancel")
	assert.Contains(t, out.take(), "Nothing to cancel")

	s.Execute(ctx, "disconnect")
	assert.Contains(t, out.take(), "Disconnected")
}

func TestQuitAndUnknown(t *testing.T) {
	s, out, _ := newSession(t, "g3")
	ctx := context.Background()

	assert.False(t, s.Execute(ctx, "   "))
	assert.False(t, s.Execute(ctx, "fly"))
	assert.Contains(t, out.take(), "Unknown command: fly")
	assert.True(t, s.Execute(ctx, "quit"))
}

func TestParseUnit(t *testing.T) {
	u, err := parseUnit("ALL")
	require.NoError(t, err)
	assert.Equal(t, cube.AllUnits, u)

	u, err = parseUnit("2")
	require.NoError(t, err)
	assert.Equal(t, cube.Unit(2), u)

	_, err = parseUnit("-1")
	assert.Error(t, err)
}
