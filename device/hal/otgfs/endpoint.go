package otgfs

import (
	"github.com/ardnew/otgfs/device/hal"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
)

// Endpoint handlers assume at most one interrupt source per endpoint per
// pass. If the hardware latches SETUP and transfer-complete together on an
// OUT endpoint, both are cleared and only SETUP is reported; the lost
// completion is not recovered until the next edge.

// pendingEndpoints returns DAINT masked by DAINTMSK.
func (c *Controller) pendingEndpoints() uint32 {
	return c.regs.Load(reg.DAINT) & c.regs.Load(reg.DAINTMSK)
}

func (c *Controller) handleOutEndpoints() {
	pending := reg.OutEndpoints(c.pendingEndpoints())
	for ep := 0; ep < c.endpoints && pending != 0; ep, pending = ep+1, pending>>1 {
		if pending&1 == 0 {
			continue
		}

		flags := c.regs.Load(reg.DOEPINT(ep)) & c.regs.Load(reg.DOEPMSK)
		c.regs.Store(reg.DOEPINT(ep), flags)

		switch {
		case flags&reg.DOEPINT_STUP != 0:
			c.core.Transfer(uint8(ep), hal.PhaseSetup)
		case flags&reg.DOEPINT_XFRC != 0:
			c.core.Transfer(uint8(ep), hal.PhaseOut)
		}
	}
}

// handleInEndpoints services IN endpoints. TXFE is enabled per endpoint in
// DIEPEMPMSK rather than in DIEPMSK, so it is folded into the mask at its
// DIEPINT position. FIFO-empty and transfer-complete are independent and
// both reported, continuation first.
func (c *Controller) handleInEndpoints() {
	pending := reg.InEndpoints(c.pendingEndpoints())
	for ep := 0; ep < c.endpoints && pending != 0; ep, pending = ep+1, pending>>1 {
		if pending&1 == 0 {
			continue
		}

		mask := c.regs.Load(reg.DIEPMSK)
		mask |= ((c.regs.Load(reg.DIEPEMPMSK) >> uint(ep)) & 1) << reg.DIEPINT_TXFE_Pos
		flags := c.regs.Load(reg.DIEPINT(ep)) & mask
		c.regs.Store(reg.DIEPINT(ep), flags)

		if flags&reg.DIEPINT_TXFE != 0 {
			// The Device Core clears this endpoint's DIEPEMPMSK bit once
			// its transfer is fully queued.
			c.core.ContinueIn(uint8(ep))
		}
		if flags&reg.DIEPINT_XFRC != 0 {
			c.core.Transfer(uint8(ep), hal.PhaseIn)
		}
	}
}
