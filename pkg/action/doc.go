// Package action enforces one physical action at a time.
//
// A Scheduler accepts a request only while no other action is in flight.
// It encodes the command, hands it to the command queue and reports
// completion once the action's nominal duration has elapsed. The hardware
// sends no completion acknowledgement, so completion is a matter of
// elapsed time:
//
//	p, err := sched.Perform("change_led", func() []byte {
//	    return enc.ColorLED(0, 3, 255, 0, 0)
//	}, wire.MinActionDuration)
//	if errors.Is(err, action.ErrBusy) {
//	    // another action is still moving the hardware
//	}
//	err = p.Wait(ctx)
//
// How completion is detected is pluggable through Completion; the default
// NominalDuration waits on a benbjohnson/clock Clock so tests can advance
// time deterministically.
package action
