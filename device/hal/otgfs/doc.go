// Package otgfs implements the device-mode interrupt front-end of the OTG FS
// USB controller found on STM32F4 parts.
//
// A [Controller] owns no protocol state. Each call to
// [Controller.HandleInterrupt] reads GINTSTS, masks it with GINTMSK, clears
// the pending sources, and reports the decoded events to a [hal.Core]:
//
//	USBRST   reset endpoint interrupt state to the post-reset baseline
//	ENUMDNE  Core.Reset with the negotiated speed
//	RXFLVL   pop GRXSTSP; Core.DataReceived for SETUP and OUT data
//	OEPINT   Core.Transfer(ep, PhaseSetup) or Core.Transfer(ep, PhaseOut)
//	IEPINT   Core.ContinueIn(ep) and/or Core.Transfer(ep, PhaseIn)
//	USBSUSP  Core.Suspend
//	WKUPINT  no event
//	SOF      toggle isochronous OUT frame parity; Core.StartOfFrame
//
// Handlers run in that order within a pass. When the core is in host mode
// the pass does nothing.
//
// Registers are accessed through a [reg.Bank], so the same controller runs
// against memory-mapped hardware or the simulator in
// [github.com/ardnew/otgfs/device/hal/sim].
//
// # Example
//
//	bank := sim.New()
//	ctrl := otgfs.New(bank, core, otgfs.DefaultConfig())
//	ctrl.EnableInterrupts(false)
//
//	go ctrl.Run(ctx, bank.IRQ())
package otgfs
