package action

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Completion decides when an accepted action is finished.
type Completion interface {
	// Begin starts tracking an action declared to take nominal. The
	// returned channel is closed once the action counts as complete.
	Begin(nominal time.Duration) <-chan struct{}
}

// NominalDuration completes an action after its declared duration.
type NominalDuration struct {
	Clock clock.Clock
}

var _ Completion = NominalDuration{}

// Begin implements Completion.
func (n NominalDuration) Begin(nominal time.Duration) <-chan struct{} {
	c := n.Clock
	if c == nil {
		c = clock.New()
	}

	done := make(chan struct{})
	if nominal <= 0 {
		close(done)
		return done
	}
	c.AfterFunc(nominal, func() { close(done) })
	return done
}
