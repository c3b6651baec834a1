package reg

// GINTSTS and GINTMSK bits. Event bits are write-1-to-clear on GINTSTS.
const (
	GINTSTS_CMOD     uint32 = 1 << 0  // Current mode: 0 device, 1 host (read-only)
	GINTSTS_MMIS     uint32 = 1 << 1  // Mode mismatch
	GINTSTS_OTGINT   uint32 = 1 << 2  // OTG interrupt
	GINTSTS_SOF      uint32 = 1 << 3  // Start of frame
	GINTSTS_RXFLVL   uint32 = 1 << 4  // Receive FIFO non-empty
	GINTSTS_NPTXFE   uint32 = 1 << 5  // Non-periodic TX FIFO empty
	GINTSTS_GINAKEFF uint32 = 1 << 6  // Global IN non-periodic NAK effective
	GINTSTS_GONAKEFF uint32 = 1 << 7  // Global OUT NAK effective
	GINTSTS_ESUSP    uint32 = 1 << 10 // Early suspend
	GINTSTS_USBSUSP  uint32 = 1 << 11 // USB suspend
	GINTSTS_USBRST   uint32 = 1 << 12 // USB reset
	GINTSTS_ENUMDNE  uint32 = 1 << 13 // Enumeration done
	GINTSTS_ISOODRP  uint32 = 1 << 14 // Isochronous OUT packet dropped
	GINTSTS_EOPF     uint32 = 1 << 15 // End of periodic frame
	GINTSTS_IEPINT   uint32 = 1 << 18 // IN endpoint interrupt
	GINTSTS_OEPINT   uint32 = 1 << 19 // OUT endpoint interrupt
	GINTSTS_IISOIXFR uint32 = 1 << 20 // Incomplete isochronous IN transfer
	GINTSTS_IPXFR    uint32 = 1 << 21 // Incomplete periodic transfer
	GINTSTS_SRQINT   uint32 = 1 << 30 // Session request
	GINTSTS_WKUPINT  uint32 = 1 << 31 // Resume/remote wakeup detected
)

// GRSTCTL bits.
const (
	GRSTCTL_CSRST   uint32 = 1 << 0
	GRSTCTL_RXFFLSH uint32 = 1 << 4 // Receive FIFO flush (self-clearing)
	GRSTCTL_TXFFLSH uint32 = 1 << 5 // Transmit FIFO flush (self-clearing)
	GRSTCTL_AHBIDL  uint32 = 1 << 31

	GRSTCTL_TXFNUM_Pos        = 6
	GRSTCTL_TXFNUM     uint32 = 0x1F << GRSTCTL_TXFNUM_Pos
)

// GRXSTSR/GRXSTSP fields (device mode).
const (
	GRXSTS_EPNUM  uint32 = 0xF
	GRXSTS_BCNT   uint32 = 0x7FF << GRXSTS_BCNT_Pos
	GRXSTS_DPID   uint32 = 0x3 << GRXSTS_DPID_Pos
	GRXSTS_PKTSTS uint32 = 0xF << GRXSTS_PKTSTS_Pos
	GRXSTS_FRMNUM uint32 = 0xF << GRXSTS_FRMNUM_Pos

	GRXSTS_BCNT_Pos   = 4
	GRXSTS_DPID_Pos   = 15
	GRXSTS_PKTSTS_Pos = 17
	GRXSTS_FRMNUM_Pos = 21
)

// PacketStatus is the GRXSTS packet status code.
type PacketStatus uint8

// Device-mode packet status codes.
const (
	PacketGlobalOutNAK  PacketStatus = 1 // Global OUT NAK (triggers an interrupt)
	PacketOutReceived   PacketStatus = 2 // OUT data packet received
	PacketOutComplete   PacketStatus = 3 // OUT transfer completed
	PacketSetupComplete PacketStatus = 4 // SETUP transaction completed
	PacketSetupReceived PacketStatus = 6 // SETUP data packet received
)

// String returns the packet status name.
func (s PacketStatus) String() string {
	switch s {
	case PacketGlobalOutNAK:
		return "global OUT NAK"
	case PacketOutReceived:
		return "OUT data received"
	case PacketOutComplete:
		return "OUT transfer complete"
	case PacketSetupComplete:
		return "SETUP complete"
	case PacketSetupReceived:
		return "SETUP data received"
	default:
		return "reserved"
	}
}

// DSTS fields.
const (
	DSTS_SUSPSTS uint32 = 1 << 0
	DSTS_ENUMSPD uint32 = 0x3 << DSTS_ENUMSPD_Pos
	DSTS_EERR    uint32 = 1 << 3
	DSTS_FNSOF   uint32 = 0x3FFF << DSTS_FNSOF_Pos

	DSTS_ENUMSPD_Pos = 1
	DSTS_FNSOF_Pos   = 8
)

// DSTS.ENUMSPD values.
const (
	EnumSpeedHigh   uint32 = 0 // High speed (HS core only)
	EnumSpeedFull30 uint32 = 1 // Full speed, PHY clock 30 or 60 MHz
	EnumSpeedLow    uint32 = 2 // Low speed
	EnumSpeedFull48 uint32 = 3 // Full speed, PHY clock 48 MHz
)

// DAINT and DAINTMSK halves.
const (
	DAINT_IEPINT uint32 = 0xFFFF
	DAINT_OEPINT uint32 = 0xFFFF << DAINT_OEPINT_Pos

	DAINT_OEPINT_Pos = 16
)

// DOEPINTx and DOEPMSK bits.
const (
	DOEPINT_XFRC    uint32 = 1 << 0 // Transfer completed
	DOEPINT_EPDISD  uint32 = 1 << 1 // Endpoint disabled
	DOEPINT_STUP    uint32 = 1 << 3 // SETUP phase done
	DOEPINT_OTEPDIS uint32 = 1 << 4 // OUT token received when endpoint disabled
	DOEPINT_B2BSTUP uint32 = 1 << 6 // Back-to-back SETUP packets received

	DOEPMSK_XFRCM  = DOEPINT_XFRC
	DOEPMSK_EPDM   = DOEPINT_EPDISD
	DOEPMSK_STUPM  = DOEPINT_STUP
	DOEPMSK_OTEPDM = DOEPINT_OTEPDIS
)

// DIEPINTx and DIEPMSK bits.
const (
	DIEPINT_XFRC   uint32 = 1 << 0 // Transfer completed
	DIEPINT_EPDISD uint32 = 1 << 1 // Endpoint disabled
	DIEPINT_TOC    uint32 = 1 << 3 // Timeout condition
	DIEPINT_ITTXFE uint32 = 1 << 4 // IN token received when TX FIFO empty
	DIEPINT_INEPNE uint32 = 1 << 6 // IN endpoint NAK effective
	DIEPINT_TXFE   uint32 = 1 << 7 // Transmit FIFO empty

	DIEPINT_TXFE_Pos = 7

	DIEPMSK_XFRCM = DIEPINT_XFRC
	DIEPMSK_EPDM  = DIEPINT_EPDISD
	DIEPMSK_TOM   = DIEPINT_TOC
)

// EndpointIntAll clears every flag of an endpoint interrupt register when
// written.
const EndpointIntAll uint32 = 0xFFFFFFFF

// DIEPCTLx and DOEPCTLx fields.
const (
	DEPCTL_MPSIZ   uint32 = 0x7FF
	DEPCTL_USBAEP  uint32 = 1 << 15 // USB active endpoint
	DEPCTL_EONUM   uint32 = 1 << 16 // Even/odd frame (isochronous) or DPID
	DEPCTL_NAKSTS  uint32 = 1 << 17
	DEPCTL_EPTYP   uint32 = 0x3 << DEPCTL_EPTYP_Pos
	DEPCTL_SNPM    uint32 = 1 << 20
	DEPCTL_STALL   uint32 = 1 << 21
	DEPCTL_TXFNUM  uint32 = 0xF << DEPCTL_TXFNUM_Pos
	DEPCTL_CNAK    uint32 = 1 << 26 // Clear NAK (write-only)
	DEPCTL_SNAK    uint32 = 1 << 27 // Set NAK (write-only)
	DEPCTL_SEVNFRM uint32 = 1 << 28 // Set even frame / SD0PID (write-only)
	DEPCTL_SODDFRM uint32 = 1 << 29 // Set odd frame / SD1PID (write-only)
	DEPCTL_EPDIS   uint32 = 1 << 30
	DEPCTL_EPENA   uint32 = 1 << 31

	DEPCTL_EPTYP_Pos  = 18
	DEPCTL_TXFNUM_Pos = 22

	// DEPCTL_WriteOnly covers the bits that always read as zero.
	DEPCTL_WriteOnly = DEPCTL_CNAK | DEPCTL_SNAK | DEPCTL_SEVNFRM | DEPCTL_SODDFRM
)

// DEPCTL.EPTYP values.
const (
	EndpointTypeControl     uint32 = 0
	EndpointTypeIsochronous uint32 = 1
	EndpointTypeBulk        uint32 = 2
	EndpointTypeInterrupt   uint32 = 3
)

// DTXFSTSx fields.
const DTXFSTS_INEPTFSAV uint32 = 0xFFFF

// PacketEndpoint returns the endpoint number of a receive status word.
func PacketEndpoint(grxsts uint32) uint8 {
	return uint8(grxsts & GRXSTS_EPNUM)
}

// PacketCount returns the byte count of a receive status word.
func PacketCount(grxsts uint32) uint16 {
	return uint16((grxsts & GRXSTS_BCNT) >> GRXSTS_BCNT_Pos)
}

// PacketDataPID returns the data PID of a receive status word.
func PacketDataPID(grxsts uint32) uint8 {
	return uint8((grxsts & GRXSTS_DPID) >> GRXSTS_DPID_Pos)
}

// PacketStatusOf returns the packet status of a receive status word.
func PacketStatusOf(grxsts uint32) PacketStatus {
	return PacketStatus((grxsts & GRXSTS_PKTSTS) >> GRXSTS_PKTSTS_Pos)
}

// ReceiveStatus builds a receive status word.
func ReceiveStatus(ep uint8, count uint16, pid uint8, status PacketStatus) uint32 {
	return uint32(ep)&GRXSTS_EPNUM |
		(uint32(count)<<GRXSTS_BCNT_Pos)&GRXSTS_BCNT |
		(uint32(pid)<<GRXSTS_DPID_Pos)&GRXSTS_DPID |
		(uint32(status)<<GRXSTS_PKTSTS_Pos)&GRXSTS_PKTSTS
}

// EnumSpeed returns DSTS.ENUMSPD.
func EnumSpeed(dsts uint32) uint32 {
	return (dsts & DSTS_ENUMSPD) >> DSTS_ENUMSPD_Pos
}

// FrameNumber returns DSTS.FNSOF.
func FrameNumber(dsts uint32) uint16 {
	return uint16((dsts & DSTS_FNSOF) >> DSTS_FNSOF_Pos)
}

// InEndpoints returns the IN half of a DAINT value.
func InEndpoints(daint uint32) uint16 {
	return uint16(daint & DAINT_IEPINT)
}

// OutEndpoints returns the OUT half of a DAINT value.
func OutEndpoints(daint uint32) uint16 {
	return uint16((daint & DAINT_OEPINT) >> DAINT_OEPINT_Pos)
}

// InEndpointBit returns the DAINT/DAINTMSK bit of IN endpoint n.
func InEndpointBit(n int) uint32 {
	return 1 << uint(n)
}

// OutEndpointBit returns the DAINT/DAINTMSK bit of OUT endpoint n.
func OutEndpointBit(n int) uint32 {
	return 1 << uint(n+DAINT_OEPINT_Pos)
}

// EndpointType returns DEPCTL.EPTYP.
func EndpointType(depctl uint32) uint32 {
	return (depctl & DEPCTL_EPTYP) >> DEPCTL_EPTYP_Pos
}

// TxFIFONumber returns the GRSTCTL.TXFNUM field for transmit FIFO n.
func TxFIFONumber(n int) uint32 {
	return (uint32(n) << GRSTCTL_TXFNUM_Pos) & GRSTCTL_TXFNUM
}

// FreeWords returns DTXFSTS.INEPTFSAV.
func FreeWords(dtxfsts uint32) uint32 {
	return dtxfsts & DTXFSTS_INEPTFSAV
}

// DCFG fields.
const (
	DCFG_DSPD uint32 = 0x3
	DCFG_DAD  uint32 = 0x7F << DCFG_DAD_Pos

	DCFG_DAD_Pos = 4
)

// DIEPTSIZx and DOEPTSIZx fields.
const (
	DEPTSIZ_XFRSIZ uint32 = 0x7FFFF
	DEPTSIZ_PKTCNT uint32 = 0x3FF << DEPTSIZ_PKTCNT_Pos

	DEPTSIZ_PKTCNT_Pos = 19
)

// TransferSize builds a DIEPTSIZx/DOEPTSIZx value for size bytes split into
// packets of at most mps bytes. A zero-length transfer is one packet.
func TransferSize(size int, mps uint16) uint32 {
	packets := 1
	if size > 0 && mps > 0 {
		packets = (size + int(mps) - 1) / int(mps)
	}
	return uint32(size)&DEPTSIZ_XFRSIZ |
		(uint32(packets)<<DEPTSIZ_PKTCNT_Pos)&DEPTSIZ_PKTCNT
}

// DeviceAddress returns the DCFG value with the device address set to addr.
func DeviceAddress(dcfg uint32, addr uint8) uint32 {
	return dcfg&^DCFG_DAD | (uint32(addr)<<DCFG_DAD_Pos)&DCFG_DAD
}
