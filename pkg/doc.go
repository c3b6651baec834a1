// Package pkg provides shared utilities for the OTG FS device front-end.
//
// This package contains common functionality used by the interrupt
// dispatcher, the FIFO layer, the simulator, and the reference Device Core:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values
//   - Component identifiers for log filtering
//
// Profiling support for the simulator lives in the prof subpackage.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with a component attribute:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogDebug(pkg.ComponentIRQ, "bus reset")
//
// Handlers running in interrupt context only log at debug level.
//
// # Errors
//
// Errors are defined as sentinel values and may be wrapped:
//
//	if errors.Is(err, pkg.ErrTimeout) {
//	    // FIFO flush did not complete
//	}
package pkg
