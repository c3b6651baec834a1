package device

import (
	"fmt"
	"sync"

	"github.com/ardnew/otgfs/device/hal"
	"github.com/ardnew/otgfs/device/hal/fifo"
	"github.com/ardnew/otgfs/device/hal/otgfs"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// inTransfer is an IN transfer queued on one endpoint.
type inTransfer struct {
	data    []byte // bytes not yet written to the FIFO
	pending bool   // set until transfer complete is reported
}

// Session is a minimal Device Core. It keeps the device session state,
// moves packet data through the FIFO layer, and hands completed transfers
// to callbacks. Standard requests and descriptors are left to the setup
// callback.
//
// The hal.Core methods run in interrupt context. Foreground code queues IN
// data with Write and never touches a transmit FIFO itself.
type Session struct {
	regs      reg.Bank
	fifo      *fifo.Layer
	endpoints int

	mutex sync.Mutex
	state State
	speed hal.Speed
	frame uint16

	setup    hal.SetupPacket
	hasSetup bool

	maxPacket [reg.MaxEndpoints]uint16
	out       [reg.MaxEndpoints][]byte
	in        [reg.MaxEndpoints]inTransfer

	onReset       func(speed hal.Speed)
	onSetup       func(setup hal.SetupPacket)
	onReceive     func(ep uint8, data []byte)
	onTransmitted func(ep uint8)
	onSuspend     func()
}

// NewSession creates a Device Core over regs for a controller with the
// given number of endpoints per direction; zero selects
// otgfs.DefaultEndpoints.
func NewSession(regs reg.Bank, endpoints int) *Session {
	if endpoints <= 0 {
		endpoints = otgfs.DefaultEndpoints
	}
	if endpoints > reg.MaxEndpoints {
		endpoints = reg.MaxEndpoints
	}
	return &Session{
		regs:      regs,
		fifo:      fifo.New(regs),
		endpoints: endpoints,
		state:     StatePowered,
	}
}

// Reset implements hal.Core. The session returns to the Default state,
// every endpoint but EP0 is deactivated, and queued IN data is dropped.
func (s *Session) Reset(speed hal.Speed) {
	s.mutex.Lock()
	s.state = StateDefault
	s.speed = speed
	s.frame = 0
	s.hasSetup = false
	for i := range s.in {
		s.in[i] = inTransfer{}
		s.out[i] = nil
		s.maxPacket[i] = 0
	}
	s.maxPacket[0] = MaxPacketSize0(speed)

	if err := s.fifo.FlushTx(fifo.AllTxFIFOs); err != nil {
		pkg.LogWarn(pkg.ComponentCore, "flush on reset failed", "error", err)
	}

	mps := ep0MaxPacketCode(s.maxPacket[0])
	s.regs.Store(reg.DIEPCTL(0), reg.DEPCTL_USBAEP|mps)
	s.regs.Store(reg.DOEPCTL(0), reg.DEPCTL_USBAEP|reg.DEPCTL_CNAK|mps)
	s.regs.Store(reg.DAINTMSK, reg.InEndpointBit(0)|reg.OutEndpointBit(0))
	cb := s.onReset
	s.mutex.Unlock()

	pkg.LogInfo(pkg.ComponentCore, "device reset", "speed", speed)
	if cb != nil {
		cb(speed)
	}
}

// ep0MaxPacketCode encodes an EP0 maximum packet size for the 2-bit
// DIEPCTL0/DOEPCTL0 MPSIZ field.
func ep0MaxPacketCode(mps uint16) uint32 {
	switch mps {
	case 64:
		return 0
	case 32:
		return 1
	case 16:
		return 2
	default:
		return 3
	}
}

// DataReceived implements hal.Core. It drains count bytes from the receive
// FIFO into the OUT buffer of ep.
func (s *Session) DataReceived(ep uint8, count uint16) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if int(ep) >= s.endpoints {
		pkg.LogWarn(pkg.ComponentCore, "data for unknown endpoint discarded",
			"endpoint", ep, "count", count)
		s.fifo.Discard(int(count))
		return
	}

	buf := make([]byte, count)
	if err := s.fifo.Read8(buf); err != nil {
		pkg.LogWarn(pkg.ComponentCore, "receive FIFO read failed", "endpoint", ep, "error", err)
		return
	}
	s.out[ep] = append(s.out[ep], buf...)
	pkg.LogDebug(pkg.ComponentEndpoint, "data received", "endpoint", ep, "count", count)
}

// Transfer implements hal.Core.
func (s *Session) Transfer(ep uint8, phase hal.Phase) {
	if int(ep) >= s.endpoints {
		pkg.LogWarn(pkg.ComponentCore, "transfer on unknown endpoint",
			"endpoint", ep, "phase", phase)
		return
	}

	switch phase {
	case hal.PhaseSetup:
		s.completeSetup(ep)
	case hal.PhaseOut:
		s.mutex.Lock()
		data := s.out[ep]
		s.out[ep] = nil
		cb := s.onReceive
		s.mutex.Unlock()

		pkg.LogDebug(pkg.ComponentEndpoint, "OUT transfer complete", "endpoint", ep, "count", len(data))
		if cb != nil {
			cb(ep, data)
		}
	case hal.PhaseIn:
		s.mutex.Lock()
		s.in[ep] = inTransfer{}
		cb := s.onTransmitted
		s.mutex.Unlock()

		pkg.LogDebug(pkg.ComponentEndpoint, "IN transfer complete", "endpoint", ep)
		if cb != nil {
			cb(ep)
		}
	}
}

// completeSetup decodes the last 8 bytes buffered on ep as a SETUP packet.
// Back-to-back SETUPs leave only the most recent one.
func (s *Session) completeSetup(ep uint8) {
	s.mutex.Lock()
	data := s.out[ep]
	s.out[ep] = nil

	if len(data) < hal.SetupPacketSize {
		s.mutex.Unlock()
		pkg.LogWarn(pkg.ComponentCore, "SETUP dropped", "endpoint", ep,
			"error", fmt.Errorf("%d bytes: %w", len(data), pkg.ErrSetupPacketTooShort))
		return
	}

	hal.ParseSetupPacket(data[len(data)-hal.SetupPacketSize:], &s.setup)
	s.hasSetup = true
	setup := s.setup
	cb := s.onSetup
	s.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentEndpoint, "SETUP received", "endpoint", ep,
		"setup", DescribeSetup(setup))
	if cb != nil {
		cb(setup)
	}
}

// ContinueIn implements hal.Core. It writes as many whole words of the
// queued IN data as the transmit FIFO has room for and disables the
// FIFO-empty interrupt of ep once nothing is left.
func (s *Session) ContinueIn(ep uint8) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if int(ep) >= s.endpoints {
		pkg.LogWarn(pkg.ComponentCore, "FIFO empty on unknown endpoint", "endpoint", ep)
		return
	}

	t := &s.in[ep]
	if len(t.data) > 0 {
		free, err := s.fifo.FreeSpace(int(ep))
		if err != nil {
			pkg.LogWarn(pkg.ComponentCore, "free space query failed", "endpoint", ep, "error", err)
			return
		}

		n := int(free) * 4
		if n > len(t.data) {
			n = len(t.data)
		}
		if err := s.fifo.Write8(int(ep), t.data[:n]); err != nil {
			pkg.LogWarn(pkg.ComponentCore, "transmit FIFO write failed", "endpoint", ep, "error", err)
			return
		}
		t.data = t.data[n:]
		pkg.LogDebug(pkg.ComponentFIFO, "IN data queued", "endpoint", ep,
			"written", n, "remaining", len(t.data))
	}

	if len(t.data) == 0 {
		empty := s.regs.Load(reg.DIEPEMPMSK)
		s.regs.Store(reg.DIEPEMPMSK, empty&^(1<<uint(ep)))
	}
}

// Suspend implements hal.Core.
func (s *Session) Suspend() {
	s.mutex.Lock()
	s.state = StateSuspended
	cb := s.onSuspend
	s.mutex.Unlock()

	pkg.LogInfo(pkg.ComponentCore, "device suspended")
	if cb != nil {
		cb()
	}
}

// StartOfFrame implements hal.Core.
func (s *Session) StartOfFrame(frame uint16) {
	s.mutex.Lock()
	s.frame = frame
	s.mutex.Unlock()
}

// ActivateEndpoint activates a non-control endpoint and unmasks its
// interrupts. The device must have been reset.
func (s *Session) ActivateEndpoint(e Endpoint) error {
	n := int(e.Number())
	if n == 0 || n >= s.endpoints {
		return fmt.Errorf("activate %v: %w", e, pkg.ErrInvalidEndpoint)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StateAttached || s.state == StatePowered {
		return fmt.Errorf("activate %v in state %v: %w", e, s.state, pkg.ErrInvalidState)
	}

	mask := s.regs.Load(reg.DAINTMSK)
	if e.IsIn() {
		s.maxPacket[n] = e.MaxPacketSize
		s.regs.Store(reg.DIEPCTL(n), e.control())
		mask |= reg.InEndpointBit(n)
	} else {
		s.regs.Store(reg.DOEPCTL(n), e.control()|reg.DEPCTL_CNAK)
		mask |= reg.OutEndpointBit(n)
	}
	s.regs.Store(reg.DAINTMSK, mask)

	pkg.LogDebug(pkg.ComponentEndpoint, "endpoint activated", "endpoint", e)
	return nil
}

// Write queues data for transmission on IN endpoint ep and enables its
// FIFO-empty interrupt. The data is written to the FIFO from interrupt
// context. Write returns pkg.ErrBusy while a previous transfer on ep has
// not completed.
func (s *Session) Write(ep uint8, data []byte) error {
	if int(ep) >= s.endpoints {
		return fmt.Errorf("write ep %d: %w", ep, pkg.ErrInvalidEndpoint)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	mps := s.maxPacket[ep]
	if mps == 0 {
		return fmt.Errorf("write ep %d: %w", ep, pkg.ErrInvalidState)
	}
	t := &s.in[ep]
	if t.pending {
		return fmt.Errorf("write ep %d: %w", ep, pkg.ErrBusy)
	}

	t.data = append([]byte(nil), data...)
	t.pending = true

	s.regs.Store(reg.DIEPTSIZ(int(ep)), reg.TransferSize(len(data), mps))
	ctl := s.regs.Load(reg.DIEPCTL(int(ep)))
	s.regs.Store(reg.DIEPCTL(int(ep)), ctl|reg.DEPCTL_EPENA|reg.DEPCTL_CNAK)

	empty := s.regs.Load(reg.DIEPEMPMSK)
	s.regs.Store(reg.DIEPEMPMSK, empty|1<<uint(ep))
	return nil
}

// SetAddress programs the device address assigned by the host and moves
// the session to the Address state.
func (s *Session) SetAddress(addr uint8) error {
	if addr > 127 {
		return fmt.Errorf("address %d: %w", addr, pkg.ErrInvalidParameter)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != StateDefault && s.state != StateAddress {
		return fmt.Errorf("set address in state %v: %w", s.state, pkg.ErrInvalidState)
	}
	s.regs.Store(reg.DCFG, reg.DeviceAddress(s.regs.Load(reg.DCFG), addr))
	if addr == 0 {
		s.state = StateDefault
	} else {
		s.state = StateAddress
	}
	return nil
}

// SetConfigured moves the session between the Address and Configured
// states.
func (s *Session) SetConfigured(configured bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case configured && (s.state == StateAddress || s.state == StateConfigured):
		s.state = StateConfigured
	case !configured && s.state == StateConfigured:
		s.state = StateAddress
	default:
		return fmt.Errorf("configure=%v in state %v: %w", configured, s.state, pkg.ErrInvalidState)
	}
	return nil
}

// State returns the device state.
func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Speed returns the speed negotiated at the last reset.
func (s *Session) Speed() hal.Speed {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.speed
}

// Frame returns the last start-of-frame number.
func (s *Session) Frame() uint16 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.frame
}

// Setup returns the last SETUP packet received, if any.
func (s *Session) Setup() (hal.SetupPacket, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.setup, s.hasSetup
}

// Busy reports whether an IN transfer is pending on ep.
func (s *Session) Busy(ep uint8) bool {
	if int(ep) >= s.endpoints {
		return false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.in[ep].pending
}

// SetOnReset sets the callback invoked after a bus reset.
func (s *Session) SetOnReset(cb func(speed hal.Speed)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onReset = cb
}

// SetOnSetup sets the callback invoked for each SETUP packet.
func (s *Session) SetOnSetup(cb func(setup hal.SetupPacket)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onSetup = cb
}

// SetOnReceive sets the callback invoked with the data of each completed
// OUT transfer.
func (s *Session) SetOnReceive(cb func(ep uint8, data []byte)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onReceive = cb
}

// SetOnTransmitted sets the callback invoked when an IN transfer completes.
func (s *Session) SetOnTransmitted(cb func(ep uint8)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onTransmitted = cb
}

// SetOnSuspend sets the callback invoked when the bus is suspended.
func (s *Session) SetOnSuspend(cb func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onSuspend = cb
}

var _ hal.Core = (*Session)(nil)
