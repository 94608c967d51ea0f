package cube

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// Capability is a set of operation families a model accepts.
type Capability uint8

const (
	// CapUnits covers per-unit LED, motor and matrix commands.
	CapUnits Capability = 1 << iota

	// CapVehicle covers the two-wheel vehicle commands of a g3 kit.
	CapVehicle

	// CapMotions covers scheduled motion playback.
	CapMotions
)

// Has reports whether c includes all of other.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// Kit is an attachment assembled from a g3 group.
type Kit string

// Vehicle kits.
const (
	KitAntbot     Kit = "antbot"
	KitBattlebot  Kit = "battlebot"
	KitDrawingbot Kit = "drawingbot"
)

// ParseKit validates a kit name.
func ParseKit(s string) (Kit, error) {
	switch k := Kit(s); k {
	case KitAntbot, KitBattlebot, KitDrawingbot:
		return k, nil
	default:
		return "", fmt.Errorf("%w: kit %q", ErrUnsupported, s)
	}
}

// Motion is a named point range of a scheduled-motion table.
type Motion struct {
	// Start and End are the first and last point played.
	Start, End int

	// Duration is how long the units take to play the range.
	Duration time.Duration
}

// Model describes one hardware configuration.
type Model struct {
	// Name is the configuration key, e.g. "g3".
	Name string

	// UnitCount is the number of cubes in the group.
	UnitCount int

	// Encoder names the command encoder (see wire.LookupEncoder).
	Encoder string

	// Capabilities lists the accepted operation families.
	Capabilities Capability

	// Kits lists the vehicle kits the model can be assembled into.
	Kits []Kit

	// Schedule names the motion table uploaded once the group is ready.
	Schedule string

	// Motions maps motion names to point ranges of Schedule.
	Motions map[string]Motion
}

// SupportsKit reports whether k is one of the model's kits.
func (m Model) SupportsKit(k Kit) bool {
	return slices.Contains(m.Kits, k)
}

// MotionNames returns the motion names in sorted order.
func (m Model) MotionNames() []string {
	names := make([]string, 0, len(m.Motions))
	for name := range m.Motions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models holds the built-in hardware models keyed by name.
var Models = map[string]Model{
	"g2": {
		Name:         "g2",
		UnitCount:    2,
		Encoder:      "gcube",
		Capabilities: CapUnits,
	},
	"g3": {
		Name:         "g3",
		UnitCount:    3,
		Encoder:      "gcube",
		Capabilities: CapUnits | CapVehicle,
		Kits:         []Kit{KitAntbot, KitBattlebot, KitDrawingbot},
	},
	"g4": {
		Name:         "g4",
		UnitCount:    4,
		Encoder:      "gcube",
		Capabilities: CapUnits,
	},
	"wormbot": {
		Name:         "wormbot",
		UnitCount:    2,
		Encoder:      "gcube",
		Capabilities: CapMotions,
		Schedule:     "wormbot",
		Motions: map[string]Motion{
			"move-left":  {0x00, 0x09, 6 * time.Second},
			"move-right": {0x0a, 0x13, 6 * time.Second},
			"turn-left":  {0x14, 0x1c, 7 * time.Second},
			"turn-right": {0x1d, 0x25, 7 * time.Second},
			"stand":      {0x26, 0x2c, 5 * time.Second},
			"dance":      {0x2d, 0x41, 12 * time.Second},
		},
	},
	"crawlingbot": {
		Name:         "crawlingbot",
		UnitCount:    4,
		Encoder:      "gcube",
		Capabilities: CapMotions,
		Schedule:     "crawlingbot",
		Motions: map[string]Motion{
			"step-left":       {0x3a, 0x40, 5 * time.Second},
			"step-right":      {0x33, 0x39, 5 * time.Second},
			"move-left":       {0x2b, 0x2e, 4 * time.Second},
			"move-right":      {0x2f, 0x32, 4 * time.Second},
			"acrobat-left":    {0x09, 0x19, 20 * time.Second},
			"acrobat-right":   {0x1a, 0x2a, 20 * time.Second},
			"lift-foot-left":  {0x03, 0x05, 2 * time.Second},
			"lift-foot-right": {0x00, 0x02, 2 * time.Second},
			"lift-foot-both":  {0x06, 0x08, 2 * time.Second},
			"stand":           {0x41, 0x4b, 12 * time.Second},
		},
	},
}

// LookupModel returns the named built-in model.
func LookupModel(name string) (Model, error) {
	m, ok := Models[name]
	if !ok {
		return Model{}, fmt.Errorf("%w: model %q", ErrUnsupported, name)
	}
	return m, nil
}

// ModelNames returns the built-in model names in sorted order.
func ModelNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
