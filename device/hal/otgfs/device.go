package otgfs

import (
	"github.com/ardnew/otgfs/device/hal"
	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
	"github.com/ardnew/otgfs/pkg"
)

// handleReset returns the endpoint interrupt logic to its post-reset
// baseline: every endpoint flag cleared, every endpoint masked, and only
// SETUP/transfer-complete on OUT and transfer-complete on IN enabled in the
// common masks. The Device Core unmasks endpoints in DAINTMSK as it
// activates them.
func (c *Controller) handleReset() {
	pkg.LogDebug(pkg.ComponentIRQ, "bus reset")

	c.regs.Store(reg.DOEPMSK, 0)
	c.regs.Store(reg.DIEPMSK, 0)
	c.regs.Store(reg.DAINTMSK, 0)
	c.regs.Store(reg.DIEPEMPMSK, 0)

	for ep := 0; ep < c.endpoints; ep++ {
		c.regs.Store(reg.DIEPINT(ep), reg.EndpointIntAll)
		c.regs.Store(reg.DOEPINT(ep), reg.EndpointIntAll)
	}

	c.regs.Store(reg.DOEPMSK, reg.DOEPMSK_STUPM|reg.DOEPMSK_XFRCM)
	c.regs.Store(reg.DIEPMSK, reg.DIEPMSK_XFRCM)
}

func (c *Controller) handleEnumerationDone() {
	speed := speedOf(reg.EnumSpeed(c.regs.Load(reg.DSTS)))
	pkg.LogDebug(pkg.ComponentIRQ, "enumeration done", "speed", speed)
	c.core.Reset(speed)
}

// speedOf converts DSTS.ENUMSPD to a connection speed.
func speedOf(enumspd uint32) hal.Speed {
	switch enumspd {
	case reg.EnumSpeedHigh:
		return hal.SpeedHigh
	case reg.EnumSpeedFull30, reg.EnumSpeedFull48:
		return hal.SpeedFull
	case reg.EnumSpeedLow:
		return hal.SpeedLow
	default:
		return hal.SpeedUnknown
	}
}

// handleRxFIFO pops one receive status word. Only data-carrying packets are
// reported; the remaining codes are left to the Device Core.
func (c *Controller) handleRxFIFO() {
	status := c.regs.Load(reg.GRXSTSP)
	switch reg.PacketStatusOf(status) {
	case reg.PacketSetupReceived, reg.PacketOutReceived:
		c.core.DataReceived(reg.PacketEndpoint(status), reg.PacketCount(status))
	}
}

// handleSuspend reports suspend and clears USBSUSP again, in case it latched
// after the dispatcher's clear.
func (c *Controller) handleSuspend() {
	pkg.LogDebug(pkg.ComponentIRQ, "bus suspended")
	c.core.Suspend()
	c.regs.Store(reg.GINTSTS, reg.GINTSTS_USBSUSP)
}

// handleWakeup is a no-op; the dispatcher's clear consumes WKUPINT.
// TODO: report resume to the Device Core once remote wakeup is supported.
func (c *Controller) handleWakeup() {}

// handleStartOfFrame selects the even or odd frame on every isochronous OUT
// endpoint from the parity of the new frame number, then reports the frame.
// Endpoint 0 is always a control endpoint and is skipped.
func (c *Controller) handleStartOfFrame() {
	frame := reg.FrameNumber(c.regs.Load(reg.DSTS))
	for ep := 1; ep < c.endpoints; ep++ {
		ctl := c.regs.Load(reg.DOEPCTL(ep))
		if reg.EndpointType(ctl) != reg.EndpointTypeIsochronous {
			continue
		}
		if frame&1 != 0 {
			ctl |= reg.DEPCTL_SODDFRM
		} else {
			ctl |= reg.DEPCTL_SEVNFRM
		}
		c.regs.Store(reg.DOEPCTL(ep), ctl)
	}
	c.core.StartOfFrame(frame)
}
