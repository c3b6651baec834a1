package reg

import "fmt"

// Reg is a register offset from the OTG FS peripheral base address.
type Reg uint32

// Bank is the register-access capability used by the interrupt handlers and
// the FIFO layer. Implementations must give Store the hardware semantics of
// each register: write-1-to-clear status registers, FIFO push windows, and
// write-only control bits.
type Bank interface {
	// Load reads a register. Reading GRXSTSP or a FIFO data window pops it.
	Load(r Reg) uint32

	// Store writes a register.
	Store(r Reg, v uint32)
}

// MaxEndpoints is the number of endpoint register slots in the device
// register map.
const MaxEndpoints = 16

// Core global registers.
const (
	GOTGCTL  Reg = 0x000
	GAHBCFG  Reg = 0x008
	GUSBCFG  Reg = 0x00C
	GRSTCTL  Reg = 0x010 // Reset control (FIFO flush)
	GINTSTS  Reg = 0x014 // Core interrupt status
	GINTMSK  Reg = 0x018 // Core interrupt mask
	GRXSTSR  Reg = 0x01C // Receive status debug read (peek)
	GRXSTSP  Reg = 0x020 // Receive status read and pop
	GRXFSIZ  Reg = 0x024
	DIEPTXF0 Reg = 0x028
)

// Device-mode registers.
const (
	DCFG       Reg = 0x800
	DCTL       Reg = 0x804
	DSTS       Reg = 0x808 // Device status
	DIEPMSK    Reg = 0x810 // IN endpoint common interrupt mask
	DOEPMSK    Reg = 0x814 // OUT endpoint common interrupt mask
	DAINT      Reg = 0x818 // All endpoints interrupt
	DAINTMSK   Reg = 0x81C // All endpoints interrupt mask
	DIEPEMPMSK Reg = 0x834 // IN endpoint FIFO empty interrupt mask
)

const (
	inEndpointBase  Reg = 0x900
	outEndpointBase Reg = 0xB00
	endpointStride  Reg = 0x20
	fifoBase        Reg = 0x1000
	fifoStride      Reg = 0x1000
)

// DIEPCTL returns the control register of IN endpoint n.
func DIEPCTL(n int) Reg { return inEndpointBase + Reg(n)*endpointStride }

// DIEPINT returns the interrupt register of IN endpoint n.
func DIEPINT(n int) Reg { return inEndpointBase + Reg(n)*endpointStride + 0x08 }

// DIEPTSIZ returns the transfer size register of IN endpoint n.
func DIEPTSIZ(n int) Reg { return inEndpointBase + Reg(n)*endpointStride + 0x10 }

// DTXFSTS returns the transmit FIFO status register of IN endpoint n.
func DTXFSTS(n int) Reg { return inEndpointBase + Reg(n)*endpointStride + 0x18 }

// DOEPCTL returns the control register of OUT endpoint n.
func DOEPCTL(n int) Reg { return outEndpointBase + Reg(n)*endpointStride }

// DOEPINT returns the interrupt register of OUT endpoint n.
func DOEPINT(n int) Reg { return outEndpointBase + Reg(n)*endpointStride + 0x08 }

// DOEPTSIZ returns the transfer size register of OUT endpoint n.
func DOEPTSIZ(n int) Reg { return outEndpointBase + Reg(n)*endpointStride + 0x10 }

// FIFO returns the data window of FIFO n. Reads of any window pop the
// receive FIFO; writes push into transmit FIFO n.
func FIFO(n int) Reg { return fifoBase + Reg(n)*fifoStride }

// Endpoint decodes an endpoint register back into its endpoint index,
// the register offset within the endpoint block, and its direction.
// ok is false if r is not an endpoint register.
func Endpoint(r Reg) (n int, offset Reg, in bool, ok bool) {
	switch {
	case r >= inEndpointBase && r < inEndpointBase+MaxEndpoints*endpointStride:
		rel := r - inEndpointBase
		return int(rel / endpointStride), rel % endpointStride, true, true
	case r >= outEndpointBase && r < outEndpointBase+MaxEndpoints*endpointStride:
		rel := r - outEndpointBase
		return int(rel / endpointStride), rel % endpointStride, false, true
	}
	return 0, 0, false, false
}

// FIFOIndex decodes a FIFO data window address. ok is false if r is not
// inside a FIFO window.
func FIFOIndex(r Reg) (n int, ok bool) {
	if r < fifoBase || r >= fifoBase+MaxEndpoints*fifoStride {
		return 0, false
	}
	return int((r - fifoBase) / fifoStride), true
}

// String returns the reference manual name of the register.
func (r Reg) String() string {
	switch r {
	case GOTGCTL:
		return "GOTGCTL"
	case GAHBCFG:
		return "GAHBCFG"
	case GUSBCFG:
		return "GUSBCFG"
	case GRSTCTL:
		return "GRSTCTL"
	case GINTSTS:
		return "GINTSTS"
	case GINTMSK:
		return "GINTMSK"
	case GRXSTSR:
		return "GRXSTSR"
	case GRXSTSP:
		return "GRXSTSP"
	case GRXFSIZ:
		return "GRXFSIZ"
	case DIEPTXF0:
		return "DIEPTXF0"
	case DCFG:
		return "DCFG"
	case DCTL:
		return "DCTL"
	case DSTS:
		return "DSTS"
	case DIEPMSK:
		return "DIEPMSK"
	case DOEPMSK:
		return "DOEPMSK"
	case DAINT:
		return "DAINT"
	case DAINTMSK:
		return "DAINTMSK"
	case DIEPEMPMSK:
		return "DIEPEMPMSK"
	}
	if n, off, in, ok := Endpoint(r); ok {
		dir := "O"
		if in {
			dir = "I"
		}
		switch off {
		case 0x00:
			return fmt.Sprintf("D%sEPCTL%d", dir, n)
		case 0x08:
			return fmt.Sprintf("D%sEPINT%d", dir, n)
		case 0x10:
			return fmt.Sprintf("D%sEPTSIZ%d", dir, n)
		case 0x18:
			if in {
				return fmt.Sprintf("DTXFSTS%d", n)
			}
		}
	}
	if n, ok := FIFOIndex(r); ok {
		return fmt.Sprintf("FIFO%d", n)
	}
	return fmt.Sprintf("0x%03X", uint32(r))
}
