package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSizes(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		max      int
		wantLens []int
	}{
		{"empty", 0, 20, nil},
		{"single byte", 1, 20, []int{1}},
		{"exact frame", 20, 20, []int{20}},
		{"one over", 21, 20, []int{20, 1}},
		{"forty five", 45, 20, []int{20, 20, 5}},
		{"exact multiple", 60, 20, []int{20, 20, 20}},
		{"max one", 3, 1, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := make([]byte, tt.size)
			for i := range payload {
				payload[i] = byte(i)
			}

			frames := Chunk(payload, tt.max)

			var lens []int
			for _, f := range frames {
				lens = append(lens, len(f))
			}
			assert.Equal(t, tt.wantLens, lens)
		})
	}
}

func TestChunkRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{0xFF, 0x01, 0xCD, 0x7A, 0x00}, 117)

	for _, max := range []int{1, 7, 20, 64, 1000} {
		frames := Chunk(payload, max)

		var joined []byte
		for i, f := range frames {
			assert.LessOrEqual(t, len(f), max)
			if i < len(frames)-1 {
				assert.Len(t, f, max)
			}
			joined = append(joined, f...)
		}
		assert.Equal(t, payload, joined, "max=%d", max)
	}
}

func TestChunkCopiesPayload(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	frames := Chunk(payload, 2)
	require.Len(t, frames, 3)

	payload[0] = 0xEE
	assert.Equal(t, Frame{1, 2}, frames[0])
}

func TestChunkPanicsOnInvalidSize(t *testing.T) {
	assert.Panics(t, func() { Chunk([]byte{1}, 0) })
	assert.Panics(t, func() { Chunk([]byte{1}, -1) })
}
