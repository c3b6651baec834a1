// Package device implements a minimal Device Core for the OTG FS interrupt
// front-end.
//
// [Session] implements [hal.Core]. The front-end in
// [github.com/ardnew/otgfs/device/hal/otgfs] reports protocol events to it
// from interrupt context; the session moves packet data through the FIFO
// layer in [github.com/ardnew/otgfs/device/hal/fifo] and hands finished
// transfers to callbacks.
//
// # Device States
//
// The session follows the USB 2.0 device state machine:
//
//	Powered → Default (bus reset) → Address → Configured
//	                                    ↓
//	                               Suspended
//
// Reset and Suspend are driven by the bus; [Session.SetAddress] and
// [Session.SetConfigured] are called by the setup callback once it has
// handled the corresponding standard request.
//
// # IN Transfers
//
// Foreground code never writes a transmit FIFO. [Session.Write] queues the
// data and enables the endpoint's FIFO-empty interrupt; each FIFO-empty
// event writes as much as fits, and the last one disables the interrupt
// again. [Session.Write] fails with [pkg.ErrBusy] until the transfer
// completes.
//
// # Example
//
//	bank := sim.New()
//	session := device.NewSession(bank, 0)
//	session.SetOnSetup(func(setup hal.SetupPacket) {
//		// decode the request, reply on EP0
//		session.Write(0, reply)
//	})
//	session.SetOnReceive(func(ep uint8, data []byte) {
//		fmt.Printf("ep%d: % x\n", ep, data)
//	})
//
//	ctrl := otgfs.New(bank, session, otgfs.DefaultConfig())
//	ctrl.EnableInterrupts(false)
//	go ctrl.Run(ctx, bank.IRQ())
package device
