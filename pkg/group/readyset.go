package group

import (
	"fmt"
	"strings"
)

// Policy decides when a ReadySet is complete.
type Policy uint8

const (
	// PolicyFullMembership requires every index 0..N-1 to report.
	PolicyFullMembership Policy = iota

	// PolicyLastIndex completes when index N-1 reports, whatever else was
	// seen. Older aggregators only forward the last unit's report.
	PolicyLastIndex
)

// String returns the policy name used in configuration.
func (p Policy) String() string {
	switch p {
	case PolicyFullMembership:
		return "full"
	case PolicyLastIndex:
		return "last-index"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a configuration value. Empty selects
// PolicyFullMembership.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "full-membership":
		return PolicyFullMembership, nil
	case "last", "last-index":
		return PolicyLastIndex, nil
	default:
		return 0, fmt.Errorf("unknown readiness policy %q", s)
	}
}

// ReadySet tracks which units of a group reported ready. It is not safe for
// concurrent use; Handshake guards it.
type ReadySet struct {
	policy Policy
	seen   []bool
	count  int
}

// NewReadySet creates an empty set for a group of unitCount units.
func NewReadySet(unitCount int, policy Policy) *ReadySet {
	if unitCount < 1 {
		panic(fmt.Sprintf("group: unit count %d must be at least 1", unitCount))
	}
	return &ReadySet{policy: policy, seen: make([]bool, unitCount)}
}

// Mark records unit as ready. Indices outside 0..N-1 are ignored. It
// reports whether the unit was newly added.
func (r *ReadySet) Mark(unit int) bool {
	if unit < 0 || unit >= len(r.seen) || r.seen[unit] {
		return false
	}
	r.seen[unit] = true
	r.count++
	return true
}

// Complete reports whether the policy is satisfied.
func (r *ReadySet) Complete() bool {
	switch r.policy {
	case PolicyLastIndex:
		return r.seen[len(r.seen)-1]
	default:
		return r.count == len(r.seen)
	}
}

// Count returns the number of distinct units seen.
func (r *ReadySet) Count() int {
	return r.count
}

// UnitCount returns N.
func (r *ReadySet) UnitCount() int {
	return len(r.seen)
}

// Units returns the ready indices in ascending order.
func (r *ReadySet) Units() []int {
	units := make([]int, 0, r.count)
	for i, ok := range r.seen {
		if ok {
			units = append(units, i)
		}
	}
	return units
}

// Reset forgets every unit.
func (r *ReadySet) Reset() {
	clear(r.seen)
	r.count = 0
}
