package group

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Token constants.
const (
	// DefaultToken is the group token used when none is given.
	DefaultToken Token = "00"

	// MaxToken is the largest valid group number.
	MaxToken = 76

	// ScanNamePrefix is the advertised name of every cube aggregator.
	ScanNamePrefix = "PINGPONG"
)

// ErrInvalidToken indicates a malformed group token.
var ErrInvalidToken = errors.New("invalid group token")

// Token is a two-digit group number that pairs a controller with one
// aggregator when several are in range.
type Token string

// ParseToken validates user input. Empty input selects DefaultToken.
// Valid input is an integer 0..76 whose digits, as typed, differ.
func ParseToken(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultToken, nil
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q is not a whole number", ErrInvalidToken, s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidToken, s, err)
	}
	if n > MaxToken {
		return "", fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidToken, n, MaxToken)
	}
	if len(s) == 2 && s[0] == s[1] {
		return "", fmt.Errorf("%w: %q repeats the same digit", ErrInvalidToken, s)
	}

	return Token(fmt.Sprintf("%02d", n)), nil
}

// IsDefault reports whether t selects the default group.
func (t Token) IsDefault() bool {
	return t == "" || t == DefaultToken
}

// ScanName is the advertised name prefix to look for.
func (t Token) ScanName() string {
	if t.IsDefault() {
		return ScanNamePrefix
	}
	return ScanNamePrefix + "." + string(t)
}

// String returns the two-digit form.
func (t Token) String() string {
	if t == "" {
		return string(DefaultToken)
	}
	return string(t)
}
