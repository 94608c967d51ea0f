package cube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubelink/cubelink-go/pkg/action"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

func TestCarContinuous(t *testing.T) {
	h := newHarness(t, "g3")
	h.connect(t)

	p, err := h.CarContinuous(90)
	require.NoError(t, err)
	want := enc.Aggregate(3, wire.AggregateContinuous,
		enc.Continuous(0, 3, 200),
		enc.Continuous(1, 3, -200))
	assert.Equal(t, want, h.last(t, 2))
	assert.Equal(t, wire.MinActionDuration, p.Nominal())
}

func TestCarStep(t *testing.T) {
	tests := []struct {
		name     string
		kit      Kit
		cm       float64
		left     int
		steps    int
		duration time.Duration
	}{
		{"antbot forward", KitAntbot, 10, 200, 244, 1220 * time.Millisecond},
		{"battlebot backward", KitBattlebot, -10, -200, 244, 1220 * time.Millisecond},
		{"drawingbot forward", KitDrawingbot, 2, 200, 198, 990 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "g3")
			h.connect(t)

			p, err := h.CarStep(tt.kit, 90, tt.cm)
			require.NoError(t, err)
			want := enc.Aggregate(3, wire.AggregateStep,
				enc.SingleStep(0, 3, tt.left, tt.steps),
				enc.SingleStep(1, 3, -tt.left, tt.steps))
			assert.Equal(t, want, h.last(t, 2))
			assert.Equal(t, tt.duration, p.Nominal())
		})
	}
}

func TestCarDegree(t *testing.T) {
	tests := []struct {
		name    string
		kit     Kit
		degrees float64
		sps     int
		steps   int
	}{
		{"antbot clockwise", KitAntbot, 90, -2000, 203},
		{"antbot counter-clockwise", KitAntbot, -90, 2000, 203},
		{"drawingbot clockwise", KitDrawingbot, 90, -200, 589},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "g3")
			h.connect(t)

			p, err := h.CarDegree(tt.kit, tt.degrees)
			require.NoError(t, err)
			want := enc.Aggregate(3, wire.AggregateStep,
				enc.SingleStep(0, 3, tt.sps, tt.steps),
				enc.SingleStep(1, 3, tt.sps, tt.steps))
			assert.Equal(t, want, h.last(t, 2))
			assert.Equal(t, wire.MoveDuration(tt.sps, tt.steps), p.Nominal())
		})
	}
}

func TestToolToggleAlternates(t *testing.T) {
	h := newHarness(t, "g3")
	h.connect(t)

	p, err := h.ToolToggle(KitBattlebot, 0)
	require.NoError(t, err)
	assert.Equal(t, enc.SingleStep(2, 3, -222, 200), h.last(t, 2))

	// A rejected toggle does not flip the direction.
	_, err = h.ToolToggle(KitBattlebot, 0)
	assert.ErrorIs(t, err, action.ErrBusy)
	h.finish(t, p)

	p, err = h.ToolToggle(KitBattlebot, 0)
	require.NoError(t, err)
	assert.Equal(t, enc.SingleStep(2, 3, 222, 200), h.last(t, 3))
	h.finish(t, p)

	p, err = h.ToolToggle(KitAntbot, DefaultAntbotAngle)
	require.NoError(t, err)
	assert.Equal(t, enc.SingleStep(2, 3, -222, 1911), h.last(t, 4))
	assert.Equal(t, wire.MoveDuration(222, 1911), p.Nominal())
}

func TestKitValidation(t *testing.T) {
	h := newHarness(t, "g3")
	h.connect(t)

	_, err := h.CarStep(Kit("tank"), 90, 1)
	assert.ErrorIs(t, err, ErrUnsupported)

	k, err := ParseKit("drawingbot")
	require.NoError(t, err)
	assert.Equal(t, KitDrawingbot, k)
	_, err = ParseKit("tank")
	assert.ErrorIs(t, err, ErrUnsupported)
}
