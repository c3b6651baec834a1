// Package fifo implements the FIFO access primitives of the OTG FS
// controller: flushing, reading the shared receive FIFO, writing the
// per-endpoint transmit FIFOs and querying their free space.
//
// FIFO indices are range checked. The receive FIFO is [RxFIFO]; transmit
// FIFOs are 0 through 15, and [AllTxFIFOs] selects all of them for a flush.
// Flushes poll the self-clearing GRSTCTL bits for at most [MaxFlushPolls]
// reads and fail with [pkg.ErrTimeout] after that.
//
// Data moves through the FIFO windows one 32-bit word at a time. Byte
// buffers are packed little-endian; a final partial word is zero-padded on
// write and truncated on read.
//
// # Usage
//
//	l := fifo.New(bank)
//	if err := l.FlushTx(fifo.AllTxFIFOs); err != nil {
//		return err
//	}
//
//	free, _ := l.FreeSpace(1)
//	if free*4 >= uint32(len(packet)) {
//		l.Write8(1, packet)
//	}
package fifo
