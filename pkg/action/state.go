package action

// State is the scheduler's exclusivity flag.
type State uint8

const (
	// StateIdle accepts a new action.
	StateIdle State = iota

	// StateInFlight rejects new actions until the current one completes.
	StateInFlight
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateInFlight:
		return "IN_FLIGHT"
	default:
		return "UNKNOWN"
	}
}
