package hal

// Speed represents the USB connection speed.
type Speed uint8

// USB speed constants (USB 2.0 Specification).
const (
	SpeedUnknown Speed = iota // Not connected or unknown
	SpeedLow                  // Low Speed (1.5 Mbit/s)
	SpeedFull                 // Full Speed (12 Mbit/s)
	SpeedHigh                 // High Speed (480 Mbit/s)
)

// String returns a human-readable speed name.
func (s Speed) String() string {
	switch s {
	case SpeedLow:
		return "Low Speed"
	case SpeedFull:
		return "Full Speed"
	case SpeedHigh:
		return "High Speed"
	default:
		return "Unknown"
	}
}

// SetupPacket represents a USB SETUP packet in the HAL layer.
// This is a fixed-size, zero-allocation structure for SETUP transactions.
type SetupPacket struct {
	RequestType uint8  // Request characteristics
	Request     uint8  // Specific request
	Value       uint16 // Request-specific value
	Index       uint16 // Request-specific index
	Length      uint16 // Number of bytes to transfer
}

// SetupPacketSize is the size of a USB SETUP packet in bytes.
const SetupPacketSize = 8

// ParseSetupPacket parses raw bytes into a SetupPacket.
// Returns false if data is too short.
func ParseSetupPacket(data []byte, out *SetupPacket) bool {
	if len(data) < SetupPacketSize {
		return false
	}
	out.RequestType = data[0]
	out.Request = data[1]
	out.Value = uint16(data[2]) | uint16(data[3])<<8
	out.Index = uint16(data[4]) | uint16(data[5])<<8
	out.Length = uint16(data[6]) | uint16(data[7])<<8
	return true
}

// MarshalTo writes the setup packet to buf.
// Returns the number of bytes written (8), or 0 if buf is too small.
func (s *SetupPacket) MarshalTo(buf []byte) int {
	if len(buf) < SetupPacketSize {
		return 0
	}
	buf[0] = s.RequestType
	buf[1] = s.Request
	buf[2] = byte(s.Value)
	buf[3] = byte(s.Value >> 8)
	buf[4] = byte(s.Index)
	buf[5] = byte(s.Index >> 8)
	buf[6] = byte(s.Length)
	buf[7] = byte(s.Length >> 8)
	return SetupPacketSize
}

// Phase identifies the transaction phase reported by a transfer event.
type Phase uint8

// Transaction phases.
const (
	PhaseSetup Phase = iota // SETUP stage completed on an OUT endpoint
	PhaseOut                // OUT data transfer completed
	PhaseIn                 // IN data transfer completed
)

// String returns the PID name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "SETUP"
	case PhaseOut:
		return "OUT"
	case PhaseIn:
		return "IN"
	default:
		return "Unknown"
	}
}

// Core is the Device Core notified by the interrupt front-end.
//
// Every method is invoked synchronously from interrupt context, one pass at
// a time. Implementations must not block and must return promptly; the
// front-end never inspects their outcome.
type Core interface {
	// Reset reports completed enumeration after a bus reset, with the
	// negotiated speed. A new device session begins here.
	Reset(speed Speed)

	// DataReceived reports count bytes waiting in the receive FIFO for
	// endpoint ep. The core must drain them before returning.
	DataReceived(ep uint8, count uint16)

	// Transfer reports a completed phase on endpoint ep.
	Transfer(ep uint8, phase Phase)

	// ContinueIn reports that the transmit FIFO of IN endpoint ep has room.
	// The core writes more data, and disables the endpoint's FIFO-empty
	// interrupt once nothing remains.
	ContinueIn(ep uint8)

	// Suspend reports that the bus entered suspend.
	Suspend()

	// StartOfFrame reports a start-of-frame with its frame number.
	StartOfFrame(frame uint16)
}
