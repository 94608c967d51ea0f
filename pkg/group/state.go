package group

// State is the handshake state.
type State uint8

const (
	// StateIdle indicates no session.
	StateIdle State = iota

	// StateScanning indicates the scanner is looking for the aggregator.
	StateScanning

	// StateLinking indicates the link is being established.
	StateLinking

	// StateAwaitingGroupAck indicates the join command was sent and unit
	// reports are being collected.
	StateAwaitingGroupAck

	// StateReady indicates every unit joined and actions may be issued.
	StateReady

	// StateTearingDown indicates the group is being dissolved.
	StateTearingDown

	// StateDisconnected indicates the session ended after the link was up.
	StateDisconnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateScanning:
		return "SCANNING"
	case StateLinking:
		return "LINKING"
	case StateAwaitingGroupAck:
		return "AWAITING_GROUP_ACK"
	case StateReady:
		return "READY"
	case StateTearingDown:
		return "TEARING_DOWN"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// connecting reports whether s belongs to an in-flight Connect.
func (s State) connecting() bool {
	return s == StateScanning || s == StateLinking || s == StateAwaitingGroupAck
}

// canConnect reports whether Connect may start from s.
func (s State) canConnect() bool {
	return s == StateIdle || s == StateDisconnected
}
