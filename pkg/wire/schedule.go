package wire

import (
	_ "embed"
	"encoding/hex"
	"fmt"
	"strings"
)

//go:embed schedules/wormbot.hex
var wormbotSchedule string

//go:embed schedules/crawlingbot.hex
var crawlingbotSchedule string

// Schedule is a scheduled-motion table uploaded to the units after the group
// forms. Motions replay contiguous point ranges from it.
type Schedule struct {
	Name string
	Data []byte
}

// Schedules indexed by name.
var schedules = map[string]string{
	"wormbot":     wormbotSchedule,
	"crawlingbot": crawlingbotSchedule,
}

// LookupSchedule returns the named built-in schedule table.
func LookupSchedule(name string) (Schedule, error) {
	text, ok := schedules[name]
	if !ok {
		return Schedule{}, fmt.Errorf("unknown schedule %q", name)
	}
	data, err := DecodeHex(text)
	if err != nil {
		return Schedule{}, fmt.Errorf("schedule %q: %w", name, err)
	}
	return Schedule{Name: name, Data: data}, nil
}

// DecodeHex parses whitespace-separated hex bytes.
func DecodeHex(text string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(text), ""))
}

// Validate checks that the table is a single aggregate of schedule
// sub-packets, one per unit, and returns the number of units it covers.
func (s Schedule) Validate() (int, error) {
	h, err := ParseHeader(s.Data)
	if err != nil {
		return 0, err
	}
	if h.Opcode != OpAggregate || h.Size != len(s.Data) {
		return 0, fmt.Errorf("%w: schedule is not one aggregate packet", ErrBadSize)
	}

	payload := s.Data[HeaderSize:]
	if len(payload) < 4 {
		return 0, ErrShortPacket
	}
	if kind := AggregateKind(payload[0]); kind != AggregateSchedule {
		return 0, fmt.Errorf("schedule aggregate has kind %s", kind)
	}

	subs, rest, err := SplitPackets(payload[4:])
	if err != nil {
		return 0, err
	}
	if len(rest) != 0 {
		return 0, fmt.Errorf("%w: %d trailing bytes", ErrBadSize, len(rest))
	}
	for i, sub := range subs {
		sh, _ := ParseHeader(sub)
		if sh.Opcode != OpSchedulePoints || int(sh.Target) != i {
			return 0, fmt.Errorf("sub-packet %d: target %d opcode %s", i, sh.Target, sh.Opcode)
		}
	}
	if len(subs) != h.UnitCount {
		return 0, fmt.Errorf("schedule covers %d units, header says %d", len(subs), h.UnitCount)
	}
	return len(subs), nil
}
