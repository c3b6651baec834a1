package sim

import (
	"fmt"
	"sync"

	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// DefaultTxFIFODepth is the depth, in words, of each simulated transmit FIFO.
const DefaultTxFIFODepth = 64

// gintstsReadOnly are the GINTSTS bits software cannot clear.
const gintstsReadOnly = reg.GINTSTS_CMOD

// Op is the kind of a recorded register access.
type Op uint8

// Register access kinds.
const (
	OpLoad Op = iota
	OpStore
)

// String returns "load" or "store".
func (o Op) String() string {
	if o == OpStore {
		return "store"
	}
	return "load"
}

// Access is one register access made through the Bank interface.
type Access struct {
	Op    Op
	Reg   reg.Reg
	Value uint32 // Value read, or value written
}

// String returns a compact representation such as "store DOEPMSK 0x00000009".
func (a Access) String() string {
	return fmt.Sprintf("%s %s 0x%08X", a.Op, a.Reg, a.Value)
}

// Bank is a simulated OTG FS register bank implementing [reg.Bank].
//
// Accesses through Load and Store have hardware semantics; the remaining
// methods model the hardware side (raising interrupts, receiving packets)
// and bypass both the semantics and the access log.
type Bank struct {
	mutex sync.Mutex

	regs map[reg.Reg]uint32

	// Receive path: status words popped by GRXSTSP, data words popped by
	// reads of any FIFO window.
	rxStatus []uint32
	rxData   []uint32

	tx      [reg.MaxEndpoints][]uint32
	txDepth [reg.MaxEndpoints]uint32

	// Number of GRSTCTL loads before pending flush bits self-clear;
	// negative means never.
	flushLatency int
	flushPolls   int

	log []Access
	irq chan struct{}
}

// New creates a register bank in device mode with all registers zero.
func New() *Bank {
	b := &Bank{
		regs: make(map[reg.Reg]uint32),
		irq:  make(chan struct{}, 1),
	}
	for i := range b.txDepth {
		b.txDepth[i] = DefaultTxFIFODepth
	}
	return b
}

// Load implements [reg.Bank].
func (b *Bank) Load(r reg.Reg) uint32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	v := b.load(r)
	b.log = append(b.log, Access{Op: OpLoad, Reg: r, Value: v})
	return v
}

// Store implements [reg.Bank].
func (b *Bank) Store(r reg.Reg, v uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.log = append(b.log, Access{Op: OpStore, Reg: r, Value: v})
	b.store(r, v)
	b.signal()
}

func (b *Bank) load(r reg.Reg) uint32 {
	switch r {
	case reg.GRXSTSP:
		if len(b.rxStatus) == 0 {
			return 0
		}
		v := b.rxStatus[0]
		b.rxStatus = b.rxStatus[1:]
		if len(b.rxStatus) > 0 {
			// The receive FIFO level is a level interrupt; it stays
			// asserted while status words remain.
			b.regs[reg.GINTSTS] |= reg.GINTSTS_RXFLVL
			b.signal()
		}
		return v
	case reg.GRXSTSR:
		if len(b.rxStatus) == 0 {
			return 0
		}
		return b.rxStatus[0]
	case reg.DAINT:
		return b.daint()
	case reg.GRSTCTL:
		v := b.regs[reg.GRSTCTL] | reg.GRSTCTL_AHBIDL
		if b.flushPolls > 0 {
			b.flushPolls--
		}
		if b.flushPolls == 0 {
			b.regs[reg.GRSTCTL] &^= reg.GRSTCTL_TXFFLSH | reg.GRSTCTL_RXFFLSH
		}
		return v
	}
	if n, off, in, ok := reg.Endpoint(r); ok && in && off == 0x18 {
		return b.txDepth[n] - uint32(len(b.tx[n]))
	}
	if _, ok := reg.FIFOIndex(r); ok {
		if len(b.rxData) == 0 {
			pkg.LogWarn(pkg.ComponentSim, "receive FIFO underrun")
			return 0
		}
		v := b.rxData[0]
		b.rxData = b.rxData[1:]
		return v
	}
	return b.regs[r]
}

func (b *Bank) store(r reg.Reg, v uint32) {
	switch r {
	case reg.GINTSTS:
		b.regs[r] &^= v &^ gintstsReadOnly
		return
	case reg.GRXSTSP, reg.GRXSTSR, reg.DAINT, reg.DSTS:
		return
	case reg.GRSTCTL:
		b.resetControl(v)
		return
	}
	if _, off, _, ok := reg.Endpoint(r); ok {
		switch off {
		case 0x00:
			b.regs[r] = endpointControl(b.regs[r], v)
		case 0x08:
			b.regs[r] &^= v
		case 0x18:
			// DTXFSTSx is read-only.
		default:
			b.regs[r] = v
		}
		return
	}
	if n, ok := reg.FIFOIndex(r); ok {
		if uint32(len(b.tx[n])) >= b.txDepth[n] {
			pkg.LogWarn(pkg.ComponentSim, "transmit FIFO overflow", "fifo", n)
			return
		}
		b.tx[n] = append(b.tx[n], v)
		return
	}
	b.regs[r] = v
}

// endpointControl applies a write to DIEPCTLx/DOEPCTLx. EONUM and NAKSTS are
// only changed through the write-only SEVNFRM/SODDFRM and CNAK/SNAK bits.
func endpointControl(old, v uint32) uint32 {
	const status = reg.DEPCTL_EONUM | reg.DEPCTL_NAKSTS
	next := v&^(reg.DEPCTL_WriteOnly|status) | old&status
	switch {
	case v&reg.DEPCTL_SODDFRM != 0:
		next |= reg.DEPCTL_EONUM
	case v&reg.DEPCTL_SEVNFRM != 0:
		next &^= reg.DEPCTL_EONUM
	}
	switch {
	case v&reg.DEPCTL_SNAK != 0:
		next |= reg.DEPCTL_NAKSTS
	case v&reg.DEPCTL_CNAK != 0:
		next &^= reg.DEPCTL_NAKSTS
	}
	return next
}

func (b *Bank) resetControl(v uint32) {
	if v&reg.GRSTCTL_TXFFLSH != 0 {
		n := int((v & reg.GRSTCTL_TXFNUM) >> reg.GRSTCTL_TXFNUM_Pos)
		if n >= reg.MaxEndpoints {
			for i := range b.tx {
				b.tx[i] = b.tx[i][:0]
			}
		} else {
			b.tx[n] = b.tx[n][:0]
		}
	}
	if v&reg.GRSTCTL_RXFFLSH != 0 {
		b.rxStatus = b.rxStatus[:0]
		b.rxData = b.rxData[:0]
	}
	b.regs[reg.GRSTCTL] = v & (reg.GRSTCTL_TXFFLSH | reg.GRSTCTL_RXFFLSH | reg.GRSTCTL_TXFNUM)
	b.flushPolls = b.flushLatency
	if b.flushPolls == 0 {
		b.regs[reg.GRSTCTL] &^= reg.GRSTCTL_TXFFLSH | reg.GRSTCTL_RXFFLSH
	}
}

// daint derives the all-endpoints interrupt register from the per-endpoint
// status registers and the common masks.
func (b *Bank) daint() uint32 {
	var v uint32
	empty := b.regs[reg.DIEPEMPMSK]
	for n := 0; n < reg.MaxEndpoints; n++ {
		inMask := b.regs[reg.DIEPMSK] | ((empty>>uint(n))&1)<<reg.DIEPINT_TXFE_Pos
		if b.regs[reg.DIEPINT(n)]&inMask != 0 {
			v |= reg.InEndpointBit(n)
		}
		if b.regs[reg.DOEPINT(n)]&b.regs[reg.DOEPMSK] != 0 {
			v |= reg.OutEndpointBit(n)
		}
	}
	return v
}

// signal asserts the interrupt line if any enabled source is pending.
// Callers hold the mutex.
func (b *Bank) signal() {
	if b.regs[reg.GINTSTS]&b.regs[reg.GINTMSK]&^gintstsReadOnly == 0 {
		return
	}
	select {
	case b.irq <- struct{}{}:
	default:
	}
}

// IRQ returns the interrupt line. A value is sent, without blocking, each
// time an enabled interrupt source becomes pending.
func (b *Bank) IRQ() <-chan struct{} {
	return b.irq
}

// Pending reports whether any enabled interrupt source is pending.
func (b *Bank) Pending() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.regs[reg.GINTSTS]&b.regs[reg.GINTMSK]&^gintstsReadOnly != 0
}

// SetHostMode sets or clears GINTSTS.CMOD.
func (b *Bank) SetHostMode(host bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if host {
		b.regs[reg.GINTSTS] |= reg.GINTSTS_CMOD
	} else {
		b.regs[reg.GINTSTS] &^= reg.GINTSTS_CMOD
	}
}

// Raise latches core interrupt bits in GINTSTS.
func (b *Bank) Raise(bits uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.regs[reg.GINTSTS] |= bits &^ gintstsReadOnly
	b.signal()
}

// RaiseOut latches interrupt bits on OUT endpoint ep and asserts
// GINTSTS.OEPINT.
func (b *Bank) RaiseOut(ep int, bits uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.regs[reg.DOEPINT(ep)] |= bits
	b.regs[reg.GINTSTS] |= reg.GINTSTS_OEPINT
	b.signal()
}

// RaiseIn latches interrupt bits on IN endpoint ep and asserts
// GINTSTS.IEPINT.
func (b *Bank) RaiseIn(ep int, bits uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.regs[reg.DIEPINT(ep)] |= bits
	b.regs[reg.GINTSTS] |= reg.GINTSTS_IEPINT
	b.signal()
}

// Receive queues a packet in the receive FIFO: one status word followed by
// the data packed little-endian into words. It asserts GINTSTS.RXFLVL.
func (b *Bank) Receive(ep uint8, status reg.PacketStatus, data []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.rxStatus = append(b.rxStatus, reg.ReceiveStatus(ep, uint16(len(data)), 0, status))
	b.rxData = append(b.rxData, PackWords(data)...)
	b.regs[reg.GINTSTS] |= reg.GINTSTS_RXFLVL
	b.signal()
}

// ReceiveStatus queues a raw status word with no data.
func (b *Bank) ReceiveStatus(status uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.rxStatus = append(b.rxStatus, status)
	b.regs[reg.GINTSTS] |= reg.GINTSTS_RXFLVL
	b.signal()
}

// SetEnumSpeed sets DSTS.ENUMSPD.
func (b *Bank) SetEnumSpeed(enumspd uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	dsts := b.regs[reg.DSTS] &^ reg.DSTS_ENUMSPD
	b.regs[reg.DSTS] = dsts | (enumspd<<reg.DSTS_ENUMSPD_Pos)&reg.DSTS_ENUMSPD
}

// SetFrame sets DSTS.FNSOF.
func (b *Bank) SetFrame(frame uint16) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	dsts := b.regs[reg.DSTS] &^ reg.DSTS_FNSOF
	b.regs[reg.DSTS] = dsts | (uint32(frame)<<reg.DSTS_FNSOF_Pos)&reg.DSTS_FNSOF
}

// SetFlushLatency sets how many GRSTCTL reads a FIFO flush takes to
// complete. Zero completes immediately; negative never completes.
func (b *Bank) SetFlushLatency(polls int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.flushLatency = polls
}

// SetTxFIFODepth sets the depth, in words, of transmit FIFO n.
func (b *Bank) SetTxFIFODepth(n int, words uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.txDepth[n] = words
}

// TxFIFO returns a copy of the words written to transmit FIFO n.
func (b *Bank) TxFIFO(n int) []uint32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]uint32(nil), b.tx[n]...)
}

// DrainTxFIFO removes and returns the words in transmit FIFO n, as the
// host would by reading them out with IN tokens.
func (b *Bank) DrainTxFIFO(n int) []uint32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	words := b.tx[n]
	b.tx[n] = nil
	return words
}

// RxPending returns the number of status and data words left in the
// receive FIFO.
func (b *Bank) RxPending() (status, data int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.rxStatus), len(b.rxData)
}

// Peek reads a register without side effects or logging.
func (b *Bank) Peek(r reg.Reg) uint32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if r == reg.DAINT {
		return b.daint()
	}
	return b.regs[r]
}

// Poke writes a register without side effects or logging.
func (b *Bank) Poke(r reg.Reg, v uint32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.regs[r] = v
}

// Log returns a copy of the access log.
func (b *Bank) Log() []Access {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]Access(nil), b.log...)
}

// ClearLog empties the access log.
func (b *Bank) ClearLog() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.log = b.log[:0]
}

// PackWords packs bytes little-endian into 32-bit words, zero-padding the
// final word.
func PackWords(data []byte) []uint32 {
	words := make([]uint32, (len(data)+3)/4)
	for i, c := range data {
		words[i/4] |= uint32(c) << (8 * uint(i%4))
	}
	return words
}

// UnpackWords unpacks count bytes from little-endian words.
func UnpackWords(words []uint32, count int) []byte {
	data := make([]byte, count)
	for i := range data {
		if i/4 >= len(words) {
			break
		}
		data[i] = byte(words[i/4] >> (8 * uint(i%4)))
	}
	return data
}
