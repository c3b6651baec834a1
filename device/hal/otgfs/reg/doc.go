// Package reg describes the register map of the OTG FS controller in
// device mode.
//
// Registers are plain uint32 values. Every field used by the interrupt
// front-end has a named mask constant (and a _Pos shift for multi-bit
// fields) and, where a field is read by more than one package, an accessor
// function:
//
//	dsts := bank.Load(reg.DSTS)
//	frame := reg.FrameNumber(dsts)
//	if frame&1 != 0 {
//	    // odd frame
//	}
//
// Hardware access goes through the [Bank] capability so handlers can be
// exercised against a simulated register bank.
package reg
