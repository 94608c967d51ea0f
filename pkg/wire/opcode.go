package wire

import "fmt"

// Opcode identifies the command carried by a packet.
type Opcode uint8

// Command opcodes.
const (
	OpMatrixPixel     Opcode = 0xA2
	OpMatrixPicture   Opcode = 0xA3
	OpRebootAggregate Opcode = 0xA8
	OpGroupJoin       Opcode = 0xAD
	OpSingleStep      Opcode = 0xC1
	OpSchedulePoints  Opcode = 0xCA
	OpPointPlayback   Opcode = 0xCB
	OpContinuous      Opcode = 0xCC
	OpAggregate       Opcode = 0xCD
	OpColorLED        Opcode = 0xE1
)

var opcodeNames = map[Opcode]string{
	OpMatrixPixel:     "MATRIX_PIXEL",
	OpMatrixPicture:   "MATRIX_PICTURE",
	OpRebootAggregate: "REBOOT_AGGREGATOR",
	OpGroupJoin:       "GROUP_JOIN",
	OpSingleStep:      "SINGLE_STEP",
	OpSchedulePoints:  "SCHEDULE_POINTS",
	OpPointPlayback:   "POINT_PLAYBACK",
	OpContinuous:      "CONTINUOUS",
	OpAggregate:       "AGGREGATE",
	OpColorLED:        "COLOR_LED",
}

// String returns the opcode name.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OPCODE_%02X", uint8(o))
}

// AggregateKind tells the aggregator how to treat the embedded sub-packets.
type AggregateKind uint8

const (
	// AggregateContinuous starts continuous rotation on several units.
	AggregateContinuous AggregateKind = 0
	// AggregateStep starts step moves on several units.
	AggregateStep AggregateKind = 1
	// AggregateSchedule uploads per-unit scheduled point tables.
	AggregateSchedule AggregateKind = 2
)

// String returns the aggregate kind name.
func (k AggregateKind) String() string {
	switch k {
	case AggregateContinuous:
		return "CONTINUOUS"
	case AggregateStep:
		return "STEP"
	case AggregateSchedule:
		return "SCHEDULE"
	default:
		return "UNKNOWN"
	}
}
