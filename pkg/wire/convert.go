package wire

import (
	"math"
	"time"
)

// Motor constants for the stepper in every cube.
const (
	// StepsPerRevolution is the number of steps in one output shaft turn.
	StepsPerRevolution = 800

	// MaxSps is the highest speed the motor driver accepts, in steps per
	// second. It corresponds to a speed of 900.
	MaxSps = 2000

	// MaxSteps is the largest step count a single move can carry.
	MaxSteps = 0xFFFF

	// MinActionDuration is the nominal duration of instantaneous commands
	// and the floor for computed move durations.
	MinActionDuration = 64 * time.Millisecond
)

// SpeedToSps converts a speed in degrees per second to steps per second,
// keeping the sign and clamping to ±MaxSps.
func SpeedToSps(speed float64) int {
	return ClampSps(int(math.Round(speed * StepsPerRevolution / 360)))
}

// DegreeToStep converts an angle in degrees to an unsigned step count.
func DegreeToStep(degree float64) int {
	return clamp(int(math.Round(math.Abs(degree)*StepsPerRevolution/360)), 0, MaxSteps)
}

// MoveDuration is the time a move of steps at sps takes, never less than
// MinActionDuration. A zero speed yields MinActionDuration.
func MoveDuration(sps, steps int) time.Duration {
	if sps == 0 || steps == 0 {
		return MinActionDuration
	}
	if sps < 0 {
		sps = -sps
	}
	if steps < 0 {
		steps = -steps
	}
	d := time.Duration(math.Ceil(float64(steps) * 1000 / float64(sps)))
	return max(d*time.Millisecond, MinActionDuration)
}

// ClampSps limits sps to ±MaxSps.
func ClampSps(sps int) int {
	return clamp(sps, -MaxSps, MaxSps)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
