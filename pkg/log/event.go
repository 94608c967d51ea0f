package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the handshake session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the controller.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Model is the hardware model name (g3, wormbot, ...).
	Model string `cbor:"6,keyasint,omitempty"`

	// Group is the two-digit group token.
	Group string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame        *FrameEvent        `cbor:"10,keyasint,omitempty"` // Transport layer
	Notification *NotificationEvent `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange  *StateChangeEvent  `cbor:"12,keyasint,omitempty"` // Handshake/action state
	Action       *ActionEvent       `cbor:"13,keyasint,omitempty"` // Action lifecycle
	Error        *ErrorEventData    `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data received from the cubes.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to the cubes.
	DirectionOut Direction = 1
	// DirectionLocal indicates a local event with no link traffic.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionLocal:
		return "LOCAL"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the frame layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the command/notification encoding layer.
	LayerWire Layer = 1
	// LayerGroup is the group handshake layer.
	LayerGroup Layer = 2
	// LayerAction is the action scheduling layer.
	LayerAction Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerGroup:
		return "GROUP"
	case LayerAction:
		return "ACTION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates a raw frame.
	CategoryFrame Category = 0
	// CategoryNotification indicates a decoded notification.
	CategoryNotification Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
	// CategoryAction indicates an action lifecycle event.
	CategoryAction Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryNotification:
		return "NOTIFICATION"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	case CategoryAction:
		return "ACTION"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NotificationEvent captures a decoded inbound notification.
type NotificationEvent struct {
	// Ready is true when the notification carried the unit-ready marker.
	Ready bool `cbor:"1,keyasint"`

	// Unit is the reporting unit's zero-based index (valid when Ready).
	Unit int `cbor:"2,keyasint"`

	// ReadyCount is the number of distinct units seen ready so far.
	ReadyCount int `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures handshake and action state transitions.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityHandshake indicates a group handshake state change.
	StateEntityHandshake StateEntity = 0
	// StateEntityAction indicates an action scheduler state change.
	StateEntityAction StateEntity = 1
	// StateEntityLink indicates a transport link state change.
	StateEntityLink StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityHandshake:
		return "HANDSHAKE"
	case StateEntityAction:
		return "ACTION"
	case StateEntityLink:
		return "LINK"
	default:
		return "UNKNOWN"
	}
}

// ActionEvent captures the lifecycle of one physical action.
type ActionEvent struct {
	// Name is the operation name (e.g. "set_step").
	Name string `cbor:"1,keyasint"`

	// Outcome records what happened to the request.
	Outcome ActionOutcome `cbor:"2,keyasint"`

	// Nominal is the declared completion time. Stored as nanoseconds.
	Nominal time.Duration `cbor:"3,keyasint,omitempty"`

	// PayloadSize is the encoded command size in bytes.
	PayloadSize int `cbor:"4,keyasint,omitempty"`

	// Frames is the number of frames the payload was split into.
	Frames int `cbor:"5,keyasint,omitempty"`
}

// ActionOutcome classifies an action event.
type ActionOutcome uint8

const (
	// ActionStarted indicates the action was accepted and enqueued.
	ActionStarted ActionOutcome = 0
	// ActionRejected indicates the action was refused because another was in flight.
	ActionRejected ActionOutcome = 1
	// ActionCompleted indicates the nominal duration elapsed.
	ActionCompleted ActionOutcome = 2
)

// String returns the outcome name.
func (o ActionOutcome) String() string {
	switch o {
	case ActionStarted:
		return "STARTED"
	case ActionRejected:
		return "REJECTED"
	case ActionCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
