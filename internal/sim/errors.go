package sim

import "errors"

// Simulator errors.
var (
	// ErrNotFound is returned by Scan when no simulated aggregator
	// advertises the requested name.
	ErrNotFound = errors.New("no aggregator advertising that name")

	// ErrLinkClosed is returned when writing to a dropped link.
	ErrLinkClosed = errors.New("link closed")

	// ErrNotSubscribed is returned by Subscribe on a dropped link.
	ErrNotSubscribed = errors.New("cannot subscribe on a closed link")
)
