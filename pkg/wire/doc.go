// Package wire encodes cube commands and decodes cube notifications.
//
// Every packet starts with a fixed nine byte header:
//
//	┌──────────┬────────┬──────────────┬──────┬────────┬──────────────┐
//	│ FF FF FF │ target │ unitCount<<4 │ 0x00 │ opcode │ size (BE u16)│
//	└──────────┴────────┴──────────────┴──────┴────────┴──────────────┘
//
// size counts the whole packet including the header. target is a unit index,
// TargetAggregator for commands consumed by the BLE aggregator, or TargetAll
// to address every unit of the group. Packets carry no checksum; the BLE
// link layer already guarantees integrity.
//
// Aggregate packets (OpAggregate) embed complete sub-packets for individual
// units so that several units start moving on the same tick. Sub-packets
// carry zero in the unit count field; the enclosing aggregate states the
// group size.
package wire
