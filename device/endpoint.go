package device

import (
	"fmt"

	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
)

// Endpoint transfer types (USB 2.0 Spec Table 9-13).
const (
	EndpointTypeControl     = 0x00 // Control transfer
	EndpointTypeIsochronous = 0x01 // Isochronous transfer
	EndpointTypeBulk        = 0x02 // Bulk transfer
	EndpointTypeInterrupt   = 0x03 // Interrupt transfer
)

// Endpoint directions.
const (
	EndpointDirectionOut = 0x00 // Host to device
	EndpointDirectionIn  = 0x80 // Device to host
)

// Endpoint describes a non-control endpoint to activate.
type Endpoint struct {
	Address       uint8  // Endpoint address including direction
	Attributes    uint8  // Transfer type in bits 0-1
	MaxPacketSize uint16 // Maximum packet size
}

// Number returns the endpoint number (0-15).
func (e Endpoint) Number() uint8 {
	return e.Address & 0x0F
}

// Direction returns the endpoint direction (EndpointDirectionIn or EndpointDirectionOut).
func (e Endpoint) Direction() uint8 {
	return e.Address & 0x80
}

// IsIn returns true if this is an IN endpoint (device to host).
func (e Endpoint) IsIn() bool {
	return e.Direction() == EndpointDirectionIn
}

// IsOut returns true if this is an OUT endpoint (host to device).
func (e Endpoint) IsOut() bool {
	return e.Direction() == EndpointDirectionOut
}

// TransferType returns the transfer type (Control, Isochronous, Bulk, or Interrupt).
func (e Endpoint) TransferType() uint8 {
	return e.Attributes & 0x03
}

// IsIsochronous returns true if this is an isochronous endpoint.
func (e Endpoint) IsIsochronous() bool {
	return e.TransferType() == EndpointTypeIsochronous
}

// String returns a description such as "0x81 Bulk IN 64".
func (e Endpoint) String() string {
	return fmt.Sprintf("0x%02X %s %s %d", e.Address,
		TransferTypeName(e.TransferType()), DirectionName(e.Direction()), e.MaxPacketSize)
}

// control returns the DIEPCTLx/DOEPCTLx value that activates the endpoint
// with DATA0 (or the even frame for isochronous endpoints). IN endpoints
// transmit from the FIFO of the same number.
func (e Endpoint) control() uint32 {
	ctl := reg.DEPCTL_USBAEP | reg.DEPCTL_SEVNFRM |
		uint32(e.TransferType())<<reg.DEPCTL_EPTYP_Pos |
		uint32(e.MaxPacketSize)&reg.DEPCTL_MPSIZ
	if e.IsIn() {
		ctl |= (uint32(e.Number()) << reg.DEPCTL_TXFNUM_Pos) & reg.DEPCTL_TXFNUM
	}
	return ctl
}

// TransferTypeName returns a human-readable transfer type name.
func TransferTypeName(t uint8) string {
	switch t & 0x03 {
	case EndpointTypeControl:
		return "Control"
	case EndpointTypeIsochronous:
		return "Isochronous"
	case EndpointTypeBulk:
		return "Bulk"
	case EndpointTypeInterrupt:
		return "Interrupt"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// DirectionName returns a human-readable direction name.
func DirectionName(dir uint8) string {
	if dir == EndpointDirectionIn {
		return "IN"
	}
	return "OUT"
}
