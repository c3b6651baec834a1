package fifo

import (
	"fmt"

	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// RxFIFO is the index of the shared receive FIFO.
const RxFIFO = 0

// AllTxFIFOs selects every transmit FIFO in FlushTx.
const AllTxFIFOs = reg.MaxEndpoints

// MaxFlushPolls bounds the number of GRSTCTL reads spent waiting for the
// core to go idle or for a flush to complete.
const MaxFlushPolls = 200000

// Layer moves data between software and the controller's packet FIFOs.
type Layer struct {
	regs reg.Bank
}

// New creates a FIFO layer over regs.
func New(regs reg.Bank) *Layer {
	return &Layer{regs: regs}
}

// FlushTx flushes transmit FIFO n, or every transmit FIFO if n is
// AllTxFIFOs.
func (l *Layer) FlushTx(n int) error {
	if n < 0 || n > AllTxFIFOs {
		return fmt.Errorf("flush tx %d: %w", n, pkg.ErrInvalidFIFO)
	}
	if err := l.waitIdle(); err != nil {
		return fmt.Errorf("flush tx %d: %w", n, err)
	}

	l.regs.Store(reg.GRSTCTL, reg.GRSTCTL_TXFFLSH|reg.TxFIFONumber(n))
	if err := l.waitClear(reg.GRSTCTL_TXFFLSH); err != nil {
		return fmt.Errorf("flush tx %d: %w", n, err)
	}

	pkg.LogDebug(pkg.ComponentFIFO, "tx fifo flushed", "fifo", n)
	return nil
}

// FlushRx flushes the receive FIFO.
func (l *Layer) FlushRx() error {
	if err := l.waitIdle(); err != nil {
		return fmt.Errorf("flush rx: %w", err)
	}

	l.regs.Store(reg.GRSTCTL, reg.GRSTCTL_RXFFLSH)
	if err := l.waitClear(reg.GRSTCTL_RXFFLSH); err != nil {
		return fmt.Errorf("flush rx: %w", err)
	}

	pkg.LogDebug(pkg.ComponentFIFO, "rx fifo flushed")
	return nil
}

func (l *Layer) waitIdle() error {
	for i := 0; i < MaxFlushPolls; i++ {
		if l.regs.Load(reg.GRSTCTL)&reg.GRSTCTL_AHBIDL != 0 {
			return nil
		}
	}
	return pkg.ErrTimeout
}

func (l *Layer) waitClear(bit uint32) error {
	for i := 0; i < MaxFlushPolls; i++ {
		if l.regs.Load(reg.GRSTCTL)&bit == 0 {
			return nil
		}
	}
	pkg.LogWarn(pkg.ComponentFIFO, "flush timed out", "polls", MaxFlushPolls)
	return pkg.ErrTimeout
}

// Write8 pushes buf into transmit FIFO n, packed little-endian into words.
// The final word is zero-padded.
func (l *Layer) Write8(n int, buf []byte) error {
	if err := checkTx(n); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	window := reg.FIFO(n)
	for i := 0; i < len(buf); i += 4 {
		var w uint32
		for j := 0; j < 4 && i+j < len(buf); j++ {
			w |= uint32(buf[i+j]) << (8 * uint(j))
		}
		l.regs.Store(window, w)
	}
	return nil
}

// Write32 pushes buf into transmit FIFO n.
func (l *Layer) Write32(n int, buf []uint32) error {
	if err := checkTx(n); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	window := reg.FIFO(n)
	for _, w := range buf {
		l.regs.Store(window, w)
	}
	return nil
}

// Read8 pops len(buf) bytes from the receive FIFO. Whole words are popped;
// bytes of a final partial word beyond len(buf) are discarded.
func (l *Layer) Read8(buf []byte) error {
	window := reg.FIFO(RxFIFO)
	for i := 0; i < len(buf); i += 4 {
		w := l.regs.Load(window)
		for j := 0; j < 4 && i+j < len(buf); j++ {
			buf[i+j] = byte(w >> (8 * uint(j)))
		}
	}
	return nil
}

// Read32 pops len(buf) words from the receive FIFO.
func (l *Layer) Read32(buf []uint32) error {
	window := reg.FIFO(RxFIFO)
	for i := range buf {
		buf[i] = l.regs.Load(window)
	}
	return nil
}

// FreeSpace returns the free space of transmit FIFO n in words.
func (l *Layer) FreeSpace(n int) (uint32, error) {
	if err := checkTx(n); err != nil {
		return 0, fmt.Errorf("free space: %w", err)
	}
	return reg.FreeWords(l.regs.Load(reg.DTXFSTS(n))), nil
}

// Discard pops and drops count bytes from the receive FIFO.
func (l *Layer) Discard(count int) {
	window := reg.FIFO(RxFIFO)
	for i := 0; i < count; i += 4 {
		l.regs.Load(window)
	}
}

func checkTx(n int) error {
	if n < 0 || n >= AllTxFIFOs {
		return fmt.Errorf("fifo %d: %w", n, pkg.ErrInvalidFIFO)
	}
	return nil
}
