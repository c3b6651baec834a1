// Package hal defines the contracts between the OTG FS interrupt front-end
// and the Device Core it reports to.
//
// The front-end ([github.com/ardnew/otgfs/device/hal/otgfs]) turns hardware
// interrupt status into a stream of protocol events. Each event is delivered
// as one call on the [Core] interface:
//
//   - Reset: enumeration finished after a bus reset, with negotiated [Speed]
//   - DataReceived: a packet is waiting in the receive FIFO
//   - Transfer: a SETUP, OUT or IN [Phase] completed on an endpoint
//   - ContinueIn: a transmit FIFO has room for more IN data
//   - Suspend: the bus was suspended
//   - StartOfFrame: a new frame began
//
// # Implementing a Core
//
// All methods run in interrupt context and must not block. A Core that
// needs to move data does so through the FIFO layer in
// [github.com/ardnew/otgfs/device/hal/fifo]. A reference implementation is
// [github.com/ardnew/otgfs/device.Session]; a recording test double is
// [github.com/ardnew/otgfs/device/hal/sim.Recorder].
//
// # Example
//
//	type myCore struct{}
//
//	func (myCore) Reset(speed hal.Speed)                  {}
//	func (myCore) DataReceived(ep uint8, count uint16)    {}
//	func (myCore) Transfer(ep uint8, phase hal.Phase)     {}
//	func (myCore) ContinueIn(ep uint8)                    {}
//	func (myCore) Suspend()                               {}
//	func (myCore) StartOfFrame(frame uint16)              {}
package hal
