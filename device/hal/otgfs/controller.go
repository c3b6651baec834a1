package otgfs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ardnew/otgfs/device/hal"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// DefaultEndpoints is the number of endpoints per direction on the OTG FS
// core of the STM32F4 family.
const DefaultEndpoints = 4

// handledInterrupts are the core interrupt sources serviced in device mode,
// start-of-frame excepted.
const handledInterrupts = reg.GINTSTS_USBRST |
	reg.GINTSTS_ENUMDNE |
	reg.GINTSTS_RXFLVL |
	reg.GINTSTS_OEPINT |
	reg.GINTSTS_IEPINT |
	reg.GINTSTS_USBSUSP |
	reg.GINTSTS_WKUPINT

// Config holds controller parameters.
type Config struct {
	// Endpoints is the number of endpoints per direction (EP_MAX_COUNT).
	// Endpoint indices are in [0, Endpoints).
	Endpoints int
}

// DefaultConfig returns the configuration of an STM32F4 OTG FS core.
func DefaultConfig() Config {
	return Config{Endpoints: DefaultEndpoints}
}

// Controller is the device-mode interrupt front-end of an OTG FS core.
//
// HandleInterrupt is the interrupt service routine. It is not reentrant;
// concurrent calls are serialized.
type Controller struct {
	regs      reg.Bank
	core      hal.Core
	endpoints int

	pass    sync.Mutex
	running atomic.Bool
}

// New creates a controller reading registers through regs and reporting
// events to core.
func New(regs reg.Bank, core hal.Core, cfg Config) *Controller {
	n := cfg.Endpoints
	switch {
	case n <= 0:
		n = DefaultEndpoints
	case n > reg.MaxEndpoints:
		pkg.LogWarn(pkg.ComponentIRQ, "endpoint count clamped",
			"requested", n, "max", reg.MaxEndpoints)
		n = reg.MaxEndpoints
	}
	return &Controller{
		regs:      regs,
		core:      core,
		endpoints: n,
	}
}

// Endpoints returns the number of endpoints per direction.
func (c *Controller) Endpoints() int {
	return c.endpoints
}

// EnableInterrupts unmasks every core interrupt source the controller
// handles. Start-of-frame is only unmasked if sof is true; it fires every
// millisecond and is only needed for isochronous endpoints.
func (c *Controller) EnableInterrupts(sof bool) {
	mask := handledInterrupts
	if sof {
		mask |= reg.GINTSTS_SOF
	}
	c.regs.Store(reg.GINTMSK, mask)
}

// HandleInterrupt runs one dispatch pass and returns the interrupt bits it
// handled. In host mode it does nothing and returns zero.
//
// The pending sources are cleared before any handler runs. Handlers run in
// a fixed order: reset, enumeration done, receive FIFO, OUT endpoints, IN
// endpoints, suspend, wakeup, start of frame. Enumeration done reads the
// speed that reset handling left stable, and data events are decoded
// before anything that depends on them.
func (c *Controller) HandleInterrupt() uint32 {
	c.pass.Lock()
	defer c.pass.Unlock()

	status := c.regs.Load(reg.GINTSTS)
	if status&reg.GINTSTS_CMOD != 0 {
		pkg.LogDebug(pkg.ComponentIRQ, "interrupt ignored in host mode")
		return 0
	}

	status &= c.regs.Load(reg.GINTMSK)
	c.regs.Store(reg.GINTSTS, status)

	if status&reg.GINTSTS_USBRST != 0 {
		c.handleReset()
	}
	if status&reg.GINTSTS_ENUMDNE != 0 {
		c.handleEnumerationDone()
	}

	if status&reg.GINTSTS_RXFLVL != 0 {
		c.handleRxFIFO()
	}
	if status&reg.GINTSTS_OEPINT != 0 {
		c.handleOutEndpoints()
	}
	if status&reg.GINTSTS_IEPINT != 0 {
		c.handleInEndpoints()
	}

	if status&reg.GINTSTS_USBSUSP != 0 {
		c.handleSuspend()
	}
	if status&reg.GINTSTS_WKUPINT != 0 {
		c.handleWakeup()
	}

	if status&reg.GINTSTS_SOF != 0 {
		c.handleStartOfFrame()
	}

	return status
}

// Run services the interrupt line until ctx is cancelled. Each receive on
// irq runs exactly one dispatch pass. Run returns ctx.Err(), or
// pkg.ErrAlreadyRunning if another Run is active.
func (c *Controller) Run(ctx context.Context, irq <-chan struct{}) error {
	if !c.running.CompareAndSwap(false, true) {
		return pkg.ErrAlreadyRunning
	}
	defer c.running.Store(false)

	pkg.LogDebug(pkg.ComponentIRQ, "interrupt loop started")
	for {
		select {
		case <-ctx.Done():
			pkg.LogDebug(pkg.ComponentIRQ, "interrupt loop stopped")
			return ctx.Err()
		case <-irq:
			c.HandleInterrupt()
		}
	}
}
