// Package group forms a group of cube units behind one BLE aggregator.
//
// A session runs through these states:
//
//	IDLE ──Connect──▶ SCANNING ──device──▶ LINKING ──join sent──▶ AWAITING_GROUP_ACK
//	                                                                   │
//	                                       every unit reported ready   ▼
//	DISCONNECTED ◀── TEARING_DOWN ◀──Disconnect / stray ready marker── READY
//
// Cancel, or the end of the Connect context, returns any pre-READY state to
// IDLE and releases the link. A peer disconnect moves any linked state to
// DISCONNECTED. Connect from DISCONNECTED starts a fresh session.
//
// Units announce themselves with ready notifications carrying their index.
// The group is usable once the ReadySet is complete under the configured
// Policy.
package group
