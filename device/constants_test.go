package device

import (
	"testing"

	"github.com/ardnew/otgfs/device/hal"
)

func TestMaxPacketSize0(t *testing.T) {
	tests := []struct {
		speed hal.Speed
		want  uint16
	}{
		{hal.SpeedLow, 8},
		{hal.SpeedFull, 64},
		{hal.SpeedHigh, 64},
		{hal.SpeedUnknown, 8},
	}

	for _, tt := range tests {
		t.Run(tt.speed.String(), func(t *testing.T) {
			if got := MaxPacketSize0(tt.speed); got != tt.want {
				t.Errorf("MaxPacketSize0() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateAttached, "Attached"},
		{StatePowered, "Powered"},
		{StateDefault, "Default"},
		{StateAddress, "Address"},
		{StateConfigured, "Configured"},
		{StateSuspended, "Suspended"},
		{State(99), "Unknown State (99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
