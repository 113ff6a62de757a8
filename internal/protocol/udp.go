package protocol

import (
	"encoding/binary"
	"errors"
	"math"

	"tridrag/internal/touch"
)

// UDP packet types
const (
	UDPPacketFrame     uint8 = 0x01
	UDPPacketRegister  uint8 = 0x10
	UDPPacketHeartbeat uint8 = 0x11
	UDPPacketAck       uint8 = 0x12 // engine -> source: confirms UDP path is open
)

// Header: [type(1)] [seq(4)] [timestamp(8)] = 13 bytes
const UDPHeaderSize = 13

// Per-contact record: id(2) + x(4) + y(4) + vx(4) + vy(4) + size(4) +
// major(4) + minor(4) + phase(1) = 31 bytes
const udpContactSize = 31

// maxUDPContacts bounds a frame packet; the surface never reports more.
const maxUDPContacts = 16

// UDPFramePacket is a binary-encoded touch frame for low-latency transport.
//
// Wire format (0x01): header + mods(uint16) + count(uint8) + count contact
// records. Register/Heartbeat/Ack packets carry the header only.
type UDPFramePacket struct {
	Type      uint8
	Seq       uint32
	Timestamp int64 // microseconds since device epoch
	Modifiers uint16
	Contacts  []touch.Contact
}

// EncodeUDPFrame serializes a packet to wire format.
func EncodeUDPFrame(pkt *UDPFramePacket) []byte {
	size := UDPHeaderSize
	if pkt.Type == UDPPacketFrame {
		size += 3 + len(pkt.Contacts)*udpContactSize
	}

	buf := make([]byte, size)
	buf[0] = pkt.Type
	binary.BigEndian.PutUint32(buf[1:5], pkt.Seq)
	binary.BigEndian.PutUint64(buf[5:13], uint64(pkt.Timestamp))

	if pkt.Type != UDPPacketFrame {
		return buf
	}

	payload := buf[UDPHeaderSize:]
	binary.BigEndian.PutUint16(payload[0:2], pkt.Modifiers)
	payload[2] = uint8(len(pkt.Contacts))
	off := 3
	for _, c := range pkt.Contacts {
		binary.BigEndian.PutUint16(payload[off:], uint16(c.ID))
		binary.BigEndian.PutUint32(payload[off+2:], math.Float32bits(float32(c.X)))
		binary.BigEndian.PutUint32(payload[off+6:], math.Float32bits(float32(c.Y)))
		binary.BigEndian.PutUint32(payload[off+10:], math.Float32bits(float32(c.VelX)))
		binary.BigEndian.PutUint32(payload[off+14:], math.Float32bits(float32(c.VelY)))
		binary.BigEndian.PutUint32(payload[off+18:], math.Float32bits(float32(c.ZTotal)))
		binary.BigEndian.PutUint32(payload[off+22:], math.Float32bits(float32(c.MajorAxis)))
		binary.BigEndian.PutUint32(payload[off+26:], math.Float32bits(float32(c.MinorAxis)))
		payload[off+30] = uint8(c.Phase)
		off += udpContactSize
	}
	return buf
}

// DecodeUDPFrame deserializes wire bytes into a packet.
func DecodeUDPFrame(data []byte) (*UDPFramePacket, error) {
	if len(data) < UDPHeaderSize {
		return nil, errors.New("udp: packet too short")
	}

	pkt := &UDPFramePacket{
		Type:      data[0],
		Seq:       binary.BigEndian.Uint32(data[1:5]),
		Timestamp: int64(binary.BigEndian.Uint64(data[5:13])),
	}

	switch pkt.Type {
	case UDPPacketFrame:
	case UDPPacketRegister, UDPPacketHeartbeat, UDPPacketAck:
		return pkt, nil
	default:
		return nil, errors.New("udp: unknown packet type")
	}

	payload := data[UDPHeaderSize:]
	if len(payload) < 3 {
		return nil, errors.New("udp: frame payload too short")
	}
	pkt.Modifiers = binary.BigEndian.Uint16(payload[0:2])
	count := int(payload[2])
	if count > maxUDPContacts {
		return nil, errors.New("udp: contact count out of range")
	}
	if len(payload) < 3+count*udpContactSize {
		return nil, errors.New("udp: frame payload truncated")
	}

	pkt.Contacts = make([]touch.Contact, count)
	off := 3
	for i := range pkt.Contacts {
		c := &pkt.Contacts[i]
		c.ID = int(binary.BigEndian.Uint16(payload[off:]))
		c.X = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+2:])))
		c.Y = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+6:])))
		c.VelX = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+10:])))
		c.VelY = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+14:])))
		c.ZTotal = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+18:])))
		c.MajorAxis = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+22:])))
		c.MinorAxis = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[off+26:])))
		c.Phase = touch.Phase(payload[off+30])
		off += udpContactSize
	}
	return pkt, nil
}

// Frame converts a frame packet into the engine's frame representation.
func (pkt *UDPFramePacket) Frame() touch.Frame {
	return FramePayload{
		Contacts:  pkt.Contacts,
		Timestamp: pkt.Timestamp,
		Modifiers: pkt.Modifiers,
	}.Frame()
}
