// Package cube drives a group of cubes as one hardware model.
//
// A Controller owns the command queue, the group handshake and the action
// scheduler for one aggregator. Each hardware model (g3 with a vehicle kit,
// the wormbot, the crawlingbot, ...) is a Model value describing its unit
// count, the commands it accepts and its scheduled motions; there is one
// Controller implementation for all of them.
//
// Every operation returns an *action.Pending for the physical action it
// started, or action.ErrBusy when another action is still running.
package cube
