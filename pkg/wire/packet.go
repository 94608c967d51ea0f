package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Header layout constants.
const (
	// HeaderSize is the fixed packet header length.
	HeaderSize = 9

	// MaxPacketSize is the largest size the header can express.
	MaxPacketSize = 0xFFFF

	// MaxUnits is the largest group the unit count nibble can express.
	MaxUnits = 15

	// TargetAggregator addresses the BLE aggregator itself.
	TargetAggregator byte = 0xAA

	// TargetAll addresses every unit in the group.
	TargetAll byte = 0xFF

	offsetTarget    = 3
	offsetUnitCount = 4
	offsetOpcode    = 6
	offsetSize      = 7
)

// Packet errors.
var (
	// ErrShortPacket indicates fewer bytes than a header.
	ErrShortPacket = errors.New("packet shorter than header")

	// ErrBadPreamble indicates the packet does not start with FF FF FF.
	ErrBadPreamble = errors.New("bad packet preamble")

	// ErrBadSize indicates a size field smaller than the header or larger
	// than the available data.
	ErrBadSize = errors.New("bad packet size")
)

// Header is a decoded packet header.
type Header struct {
	Target    byte
	UnitCount int
	Opcode    Opcode
	Size      int
}

// NewPacket builds a packet with the given header fields and payload.
func NewPacket(target byte, unitCount int, op Opcode, payload []byte) []byte {
	size := HeaderSize + len(payload)
	if size > MaxPacketSize {
		panic(fmt.Sprintf("wire: packet size %d exceeds %d", size, MaxPacketSize))
	}

	p := make([]byte, size)
	p[0], p[1], p[2] = 0xFF, 0xFF, 0xFF
	p[offsetTarget] = target
	p[offsetUnitCount] = byte(unitCount&0x0F) << 4
	p[offsetOpcode] = byte(op)
	binary.BigEndian.PutUint16(p[offsetSize:], uint16(size))
	copy(p[HeaderSize:], payload)
	return p
}

// ParseHeader decodes the header at the start of b. It does not require the
// full packet to be present.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortPacket
	}
	if b[0] != 0xFF || b[1] != 0xFF || b[2] != 0xFF {
		return Header{}, ErrBadPreamble
	}

	h := Header{
		Target:    b[offsetTarget],
		UnitCount: int(b[offsetUnitCount] >> 4),
		Opcode:    Opcode(b[offsetOpcode]),
		Size:      int(binary.BigEndian.Uint16(b[offsetSize:])),
	}
	if h.Size < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d", ErrBadSize, h.Size)
	}
	return h, nil
}

// Payload returns the bytes following the header of a complete packet.
func Payload(packet []byte) ([]byte, error) {
	h, err := ParseHeader(packet)
	if err != nil {
		return nil, err
	}
	if h.Size > len(packet) {
		return nil, fmt.Errorf("%w: header says %d, have %d", ErrBadSize, h.Size, len(packet))
	}
	return packet[HeaderSize:h.Size], nil
}

// SplitPackets extracts complete packets from the front of stream. The
// remainder holds a trailing partial packet, if any. Reassembly of chunked
// frames relies on this.
func SplitPackets(stream []byte) (packets [][]byte, rest []byte, err error) {
	for len(stream) > 0 {
		h, err := ParseHeader(stream)
		if errors.Is(err, ErrShortPacket) {
			break
		}
		if err != nil {
			return packets, stream, err
		}
		if h.Size > len(stream) {
			break
		}
		packets = append(packets, stream[:h.Size])
		stream = stream[h.Size:]
	}
	return packets, stream, nil
}
