package wire

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrBadMatrix indicates a malformed 8x8 matrix bit string.
var ErrBadMatrix = errors.New("matrix must be 64 characters of 0 and 1")

// ParseMatrix8 converts a 64 character bit string into the row bytes of a
// matrix picture. Whitespace is ignored. The string lists rows top to bottom,
// each row left to right; the display's first row register holds the bottom
// row, so rows are rotated by one on the way out.
func ParseMatrix8(bits string) ([8]byte, error) {
	var rows [8]byte

	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, bits)
	if len(clean) != 64 {
		return rows, fmt.Errorf("%w: got %d characters", ErrBadMatrix, len(clean))
	}

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			c := clean[j+8*(7-i)]
			switch c {
			case '0':
			case '1':
				rows[(i+1)%8] |= 1 << (7 - j)
			default:
				return rows, fmt.Errorf("%w: unexpected %q", ErrBadMatrix, c)
			}
		}
	}
	return rows, nil
}

// FlipY converts a top-left origin row into the display's bottom-left origin.
func FlipY(y int) int {
	return 7 - y
}
