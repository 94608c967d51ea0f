// Package transport moves encoded cube commands onto a narrow BLE link.
//
// A command payload is split into frames no larger than the link's MTU
// budget (20 bytes by default) and delivered strictly in submission order,
// one write at a time:
//
//	payload ──Chunk──▶ [frame][frame][frame] ──Queue──▶ Link.Write
//
// # Delivery
//
// The Queue is owned by a single goroutine. Submit never waits on transport
// I/O; it hands frames to the owner, which feeds them to the attached Writer
// one by one. A failed write is logged and the frame is dropped. Writes are
// never retried.
//
// # Links
//
// Scanner, Device and Link abstract the radio. pkg/transport/ble binds them
// to tinygo.org/x/bluetooth; internal/sim provides an in-memory ensemble for
// tests and the -simulate CLI mode.
package transport
