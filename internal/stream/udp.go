package stream

import (
	"fmt"
	"log"
	"net"

	"tridrag/internal/protocol"
)

// UDPReceiver listens for binary-encoded touch frames from a frame source
// with minimal latency. Frame packets may be sent redundantly; duplicates
// are discarded by sequence number.
type UDPReceiver struct {
	addr string
	conn *net.UDPConn
	sink FrameSink
	done chan struct{}

	dedup seqDedup
}

// seqDedup tracks recently seen sequence numbers to discard redundant
// packets. Fixed-size ring, no allocation, O(1) lookup.
type seqDedup struct {
	ring [512]uint32
	pos  int
	seen map[uint32]struct{}
}

func newSeqDedup() seqDedup {
	return seqDedup{seen: make(map[uint32]struct{}, 512)}
}

func (d *seqDedup) isDuplicate(seq uint32) bool {
	if _, ok := d.seen[seq]; ok {
		return true
	}
	// Evict oldest entry
	old := d.ring[d.pos]
	if old != 0 {
		delete(d.seen, old)
	}
	d.ring[d.pos] = seq
	d.seen[seq] = struct{}{}
	d.pos = (d.pos + 1) % len(d.ring)
	return false
}

// NewUDPReceiver creates a UDP frame receiver bound to addr ("ip:port").
func NewUDPReceiver(addr string, sink FrameSink) *UDPReceiver {
	return &UDPReceiver{
		addr:  addr,
		sink:  sink,
		done:  make(chan struct{}),
		dedup: newSeqDedup(),
	}
}

// Start binds the socket and begins receiving frames.
func (r *UDPReceiver) Start() error {
	udpAddr, err := net.ResolveUDPAddr("udp", r.addr)
	if err != nil {
		return fmt.Errorf("udp receiver: resolve %s: %w", r.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("udp receiver: listen on %s: %w", r.addr, err)
	}
	r.conn = conn
	log.Printf("Stream: UDP frame receiver on %s", r.addr)

	go r.receiveLoop()
	return nil
}

// Stop closes the socket and ends the receive loop.
func (r *UDPReceiver) Stop() {
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *UDPReceiver) receiveLoop() {
	buf := make([]byte, 2048)
	for {
		n, src, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.done:
				return
			default:
				log.Printf("Stream: UDP read error: %v", err)
				return
			}
		}

		pkt, err := protocol.DecodeUDPFrame(buf[:n])
		if err != nil {
			log.Printf("Stream: dropping bad UDP packet from %s: %v", src, err)
			continue
		}

		switch pkt.Type {
		case protocol.UDPPacketRegister, protocol.UDPPacketHeartbeat:
			ack := &protocol.UDPFramePacket{Type: protocol.UDPPacketAck, Seq: pkt.Seq}
			r.conn.WriteToUDP(protocol.EncodeUDPFrame(ack), src)

		case protocol.UDPPacketFrame:
			if pkt.Seq != 0 && r.dedup.isDuplicate(pkt.Seq) {
				continue
			}
			frame := pkt.Frame()
			r.sink.SupplyFrame(frame.Contacts, frame.Timestamp, frame.Modifiers)
		}
	}
}
