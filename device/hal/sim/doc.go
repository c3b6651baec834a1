// Package sim simulates the OTG FS controller register bank for testing and
// for the otgsim command.
//
// [Bank] implements [reg.Bank] with the access semantics of the real
// peripheral:
//
//   - GINTSTS, DIEPINTx and DOEPINTx are write-1-to-clear; GINTSTS.CMOD is read-only
//   - GRXSTSP pops the receive status queue, GRXSTSR peeks it
//   - Reading any FIFO window pops the receive FIFO; writing FIFO n pushes transmit FIFO n
//   - DTXFSTSx reports the free words of transmit FIFO x
//   - GRSTCTL flush bits self-clear after a configurable number of polls
//   - DxEPCTLx SEVNFRM/SODDFRM and SNAK/CNAK are write-only and drive EONUM/NAKSTS
//   - DAINT is derived from the per-endpoint status and the common masks
//
// Every access through Load and Store is appended to an access log so tests
// can assert ordering. Methods such as [Bank.Raise] and [Bank.Receive] play
// the hardware's part and are not logged.
//
// [Recorder] is a [hal.Core] that records notifications as [Event] values.
//
// # Example
//
//	bank := sim.New()
//	rec := sim.NewRecorder(nil)
//	ctrl := otgfs.New(bank, rec, otgfs.DefaultConfig())
//	ctrl.EnableInterrupts(false)
//
//	bank.Raise(reg.GINTSTS_USBRST)
//	ctrl.HandleInterrupt()
package sim
