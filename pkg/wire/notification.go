package wire

// Notification is a decoded inbound notification.
type Notification struct {
	// Ready is true when a unit reported that it joined the group.
	Ready bool

	// Unit is the reporting unit's zero-based index. Valid when Ready.
	Unit int
}

const (
	// readyMarker is the opcode slot value of a group-join acknowledgement.
	readyMarker = byte(OpGroupJoin)

	// notificationUnitOffset is the first payload byte.
	notificationUnitOffset = HeaderSize

	// minNotificationSize is the shortest frame that can carry a unit index.
	minNotificationSize = notificationUnitOffset + 1
)

// DecodeNotification classifies an inbound frame. Frames too short to carry
// a unit index, or without the ready marker, decode as not ready. Decoding
// never fails.
func DecodeNotification(frame []byte) Notification {
	if len(frame) < minNotificationSize || frame[offsetOpcode] != readyMarker {
		return Notification{}
	}
	return Notification{Ready: true, Unit: int(frame[notificationUnitOffset])}
}

// EncodeReadyNotification builds the notification a unit's aggregator sends
// when unit joins a group of unitCount. Simulators use it.
func EncodeReadyNotification(unit, unitCount int) []byte {
	return NewPacket(TargetAggregator, unitCount, OpGroupJoin, []byte{byte(unit)})
}
