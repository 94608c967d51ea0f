package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCubeGroupJoin(t *testing.T) {
	enc := GCube{}

	assert.Equal(t,
		[]byte{0xFF, 0xFF, 0xFF, 0xAA, 0x40, 0x00, 0xAD, 0x00, 0x0B, '0', '7'},
		enc.GroupJoin(4, "07"))

	// Anything that is not a two-digit token joins the default group.
	assert.Equal(t, []byte{'0', '0'}, enc.GroupJoin(2, "")[HeaderSize:])
}

func TestGCubeReboot(t *testing.T) {
	assert.Equal(t,
		[]byte{0xFF, 0xFF, 0xFF, 0xAA, 0x00, 0x00, 0xA8, 0x00, 0x09},
		GCube{}.RebootAggregator())
}

func TestGCubeSingleStep(t *testing.T) {
	p := GCube{}.SingleStep(1, 3, -200, 500)
	assert.Equal(t,
		[]byte{0xFF, 0xFF, 0xFF, 0x01, 0x30, 0x00, 0xC1, 0x00, 0x0D, 0xFF, 0x38, 0x01, 0xF4},
		p)
}

func TestGCubeContinuousClampsSpeed(t *testing.T) {
	p := GCube{}.Continuous(TargetAll, 3, 5000)
	payload, err := Payload(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07, 0xD0}, payload)
	assert.Equal(t, TargetAll, p[3])
}

func TestGCubeColorAndMatrix(t *testing.T) {
	enc := GCube{}

	payload, err := Payload(enc.ColorLED(0, 3, 10, 20, 30))
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, payload)

	payload, err = Payload(enc.MatrixPixel(2, 3, 9, -1, true))
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 0, 1}, payload)

	rows := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	payload, err = Payload(enc.MatrixPicture(0, 3, rows))
	require.NoError(t, err)
	assert.Equal(t, rows[:], payload)
}

func TestGCubeAggregate(t *testing.T) {
	enc := GCube{}
	left := enc.SingleStep(0, 3, 200, 99)
	right := enc.SingleStep(1, 3, -200, 99)

	agg := enc.Aggregate(3, AggregateStep, left, right)

	h, err := ParseHeader(agg)
	require.NoError(t, err)
	assert.Equal(t, OpAggregate, h.Opcode)
	assert.Equal(t, TargetAggregator, h.Target)
	assert.Equal(t, 3, h.UnitCount)
	assert.Equal(t, len(agg), h.Size)

	payload, _ := Payload(agg)
	assert.Equal(t, []byte{byte(AggregateStep), 0x03, 0x00, 0x00}, payload[:4])

	subs, rest, err := SplitPackets(payload[4:])
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Len(t, subs, 2)
	for _, sub := range subs {
		sh, err := ParseHeader(sub)
		require.NoError(t, err)
		assert.Zero(t, sh.UnitCount, "sub-packets carry no unit count")
	}

	// Inputs are not modified.
	assert.Equal(t, byte(0x30), left[4])
}

func TestGCubePointPlayback(t *testing.T) {
	p := GCube{}.PointPlayback(2, 0x0A, 0x13)
	payload, err := Payload(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x13}, payload)

	assert.Panics(t, func() { GCube{}.PointPlayback(2, 5, 4) })
}

func TestLookupEncoder(t *testing.T) {
	enc, err := LookupEncoder("gcube")
	require.NoError(t, err)
	assert.IsType(t, GCube{}, enc)

	_, err = LookupEncoder("nope")
	assert.Error(t, err)
}
