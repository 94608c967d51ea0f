package wire

import (
	"encoding/binary"
	"fmt"
)

// Encoder builds command payloads for one cube protocol family.
// Unit arguments are zero-based unit indices or TargetAll.
type Encoder interface {
	// GroupJoin asks the aggregator to form a group of unitCount units
	// sharing the given two-digit token.
	GroupJoin(unitCount int, token string) []byte

	// RebootAggregator dissolves the group and restarts the aggregator.
	RebootAggregator() []byte

	// ColorLED sets a unit's RGB LED.
	ColorLED(unit byte, unitCount int, r, g, b uint8) []byte

	// Continuous spins a unit at sps steps per second until told otherwise.
	Continuous(unit byte, unitCount int, sps int) []byte

	// SingleStep moves a unit by steps at sps steps per second.
	SingleStep(unit byte, unitCount int, sps int, steps int) []byte

	// MatrixPixel switches one pixel of a unit's 8x8 matrix.
	MatrixPixel(unit byte, unitCount int, x, y int, on bool) []byte

	// MatrixPicture replaces a unit's whole 8x8 matrix.
	MatrixPicture(unit byte, unitCount int, rows [8]byte) []byte

	// Aggregate wraps per-unit sub-packets so they start together.
	Aggregate(unitCount int, kind AggregateKind, packets ...[]byte) []byte

	// PointPlayback plays scheduled points start..end inclusive on every unit.
	PointPlayback(unitCount int, start, end int) []byte
}

// GCube encodes commands for the GCube aggregator family.
type GCube struct{}

// Compile-time interface satisfaction check.
var _ Encoder = GCube{}

// GroupJoin encodes the token as two ASCII digits.
func (GCube) GroupJoin(unitCount int, token string) []byte {
	payload := []byte{'0', '0'}
	if len(token) == 2 {
		payload[0], payload[1] = token[0], token[1]
	}
	return NewPacket(TargetAggregator, unitCount, OpGroupJoin, payload)
}

// RebootAggregator has no payload.
func (GCube) RebootAggregator() []byte {
	return NewPacket(TargetAggregator, 0, OpRebootAggregate, nil)
}

// ColorLED payload is R, G, B.
func (GCube) ColorLED(unit byte, unitCount int, r, g, b uint8) []byte {
	return NewPacket(unit, unitCount, OpColorLED, []byte{r, g, b})
}

// Continuous payload is the signed speed as big-endian int16.
func (GCube) Continuous(unit byte, unitCount int, sps int) []byte {
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, uint16(int16(ClampSps(sps))))
	return NewPacket(unit, unitCount, OpContinuous, payload)
}

// SingleStep payload is the signed speed (int16) then the step count
// (uint16), both big-endian.
func (GCube) SingleStep(unit byte, unitCount int, sps int, steps int) []byte {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:], uint16(int16(ClampSps(sps))))
	binary.BigEndian.PutUint16(payload[2:], uint16(clamp(steps, 0, MaxSteps)))
	return NewPacket(unit, unitCount, OpSingleStep, payload)
}

// MatrixPixel payload is x, y, on. Coordinates are clamped to 0..7.
func (GCube) MatrixPixel(unit byte, unitCount int, x, y int, on bool) []byte {
	var state byte
	if on {
		state = 1
	}
	return NewPacket(unit, unitCount, OpMatrixPixel, []byte{
		byte(clamp(x, 0, 7)),
		byte(clamp(y, 0, 7)),
		state,
	})
}

// MatrixPicture payload is the eight row bytes.
func (GCube) MatrixPicture(unit byte, unitCount int, rows [8]byte) []byte {
	return NewPacket(unit, unitCount, OpMatrixPicture, rows[:])
}

// Aggregate payload is kind, 0x03, 0x00, 0x00 followed by the sub-packets
// with their unit count field cleared.
func (GCube) Aggregate(unitCount int, kind AggregateKind, packets ...[]byte) []byte {
	payload := []byte{byte(kind), 0x03, 0x00, 0x00}
	for _, p := range packets {
		sub := append([]byte(nil), p...)
		if len(sub) > offsetUnitCount {
			sub[offsetUnitCount] = 0
		}
		payload = append(payload, sub...)
	}
	return NewPacket(TargetAggregator, unitCount, OpAggregate, payload)
}

// PointPlayback payload is the first and last point index.
func (GCube) PointPlayback(unitCount int, start, end int) []byte {
	if start < 0 || end < start || end > 0xFF {
		panic(fmt.Sprintf("wire: invalid point range %d..%d", start, end))
	}
	return NewPacket(TargetAll, unitCount, OpPointPlayback, []byte{byte(start), byte(end)})
}

// Encoders maps encoder names used in configuration to implementations.
var Encoders = map[string]Encoder{
	"gcube": GCube{},
}

// LookupEncoder returns the named encoder.
func LookupEncoder(name string) (Encoder, error) {
	enc, ok := Encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoder %q", name)
	}
	return enc, nil
}
