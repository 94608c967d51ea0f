package transport

// DefaultMaxFrameSize is the largest frame the cube aggregator accepts in a
// single BLE write.
const DefaultMaxFrameSize = 20

// Frame is one contiguous slice of a command payload, at most the configured
// maximum frame size. Frames are produced by Chunk and are never mutated.
type Frame []byte

// Chunk splits payload into frames of exactly maxFrameSize bytes, except the
// last which holds the remainder. An empty payload yields no frames.
// The frames are copies; later changes to payload do not affect them.
//
// Chunk panics if maxFrameSize is not positive.
func Chunk(payload []byte, maxFrameSize int) []Frame {
	if maxFrameSize <= 0 {
		panic("transport: maxFrameSize must be positive")
	}
	if len(payload) == 0 {
		return nil
	}

	frames := make([]Frame, 0, (len(payload)+maxFrameSize-1)/maxFrameSize)
	for start := 0; start < len(payload); start += maxFrameSize {
		end := min(start+maxFrameSize, len(payload))
		frame := make(Frame, end-start)
		copy(frame, payload[start:end])
		frames = append(frames, frame)
	}
	return frames
}
