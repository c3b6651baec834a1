package pkg

import "errors"

// Sentinel errors.
var (
	// ErrTimeout indicates a hardware operation did not complete within its poll budget.
	ErrTimeout = errors.New("operation timeout")

	// ErrInvalidFIFO indicates a FIFO index outside the range of its class.
	ErrInvalidFIFO = errors.New("invalid FIFO index")

	// ErrInvalidEndpoint indicates an endpoint index outside the configured range.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrInvalidState indicates an invalid device state for the operation.
	ErrInvalidState = errors.New("invalid device state")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrBusy indicates the resource is busy.
	ErrBusy = errors.New("resource busy")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSetupPacketTooShort indicates fewer than 8 bytes were buffered for a SETUP.
	ErrSetupPacketTooShort = errors.New("setup packet too short")

	// ErrAlreadyRunning indicates the interrupt loop is already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrInvalidScenario indicates a malformed simulator scenario.
	ErrInvalidScenario = errors.New("invalid scenario")
)
