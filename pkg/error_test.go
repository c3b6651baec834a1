package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrTimeout,
		ErrInvalidFIFO,
		ErrInvalidEndpoint,
		ErrInvalidState,
		ErrBufferTooSmall,
		ErrBusy,
		ErrInvalidParameter,
		ErrSetupPacketTooShort,
		ErrAlreadyRunning,
		ErrInvalidScenario,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrTimeout, "operation timeout"},
		{ErrInvalidFIFO, "invalid FIFO index"},
		{ErrInvalidEndpoint, "invalid endpoint"},
		{ErrBusy, "resource busy"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("error.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestWrappedErrors(t *testing.T) {
	err := fmt.Errorf("flush tx fifo 3: %w", ErrTimeout)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("errors.Is(%v, ErrTimeout) = false", err)
	}
	if errors.Is(err, ErrInvalidFIFO) {
		t.Errorf("errors.Is(%v, ErrInvalidFIFO) = true", err)
	}
}
