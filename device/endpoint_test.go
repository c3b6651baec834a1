package device

import (
	"testing"

	"github.com/ardnew/otgfs/device/hal/otgfs/reg"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		ep       Endpoint
		number   uint8
		isIn     bool
		transfer uint8
		str      string
	}{
		{"bulk IN", Endpoint{0x81, EndpointTypeBulk, 64}, 1, true, EndpointTypeBulk, "0x81 Bulk IN 64"},
		{"bulk OUT", Endpoint{0x02, EndpointTypeBulk, 64}, 2, false, EndpointTypeBulk, "0x02 Bulk OUT 64"},
		{"interrupt IN", Endpoint{0x83, EndpointTypeInterrupt, 8}, 3, true, EndpointTypeInterrupt, "0x83 Interrupt IN 8"},
		{"isochronous OUT", Endpoint{0x01, EndpointTypeIsochronous | 0x04, 192}, 1, false, EndpointTypeIsochronous, "0x01 Isochronous OUT 192"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ep.Number(); got != tt.number {
				t.Errorf("Number() = %d, want %d", got, tt.number)
			}
			if got := tt.ep.IsIn(); got != tt.isIn {
				t.Errorf("IsIn() = %v, want %v", got, tt.isIn)
			}
			if got := tt.ep.IsOut(); got == tt.isIn {
				t.Errorf("IsOut() = %v, want %v", got, !tt.isIn)
			}
			if got := tt.ep.TransferType(); got != tt.transfer {
				t.Errorf("TransferType() = %d, want %d", got, tt.transfer)
			}
			if got := tt.ep.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestEndpoint_Control(t *testing.T) {
	in := Endpoint{0x83, EndpointTypeInterrupt, 16}.control()
	if reg.EndpointType(in) != reg.EndpointTypeInterrupt {
		t.Errorf("EPTYP = %d, want interrupt", reg.EndpointType(in))
	}
	if in&reg.DEPCTL_MPSIZ != 16 {
		t.Errorf("MPSIZ = %d, want 16", in&reg.DEPCTL_MPSIZ)
	}
	if (in&reg.DEPCTL_TXFNUM)>>reg.DEPCTL_TXFNUM_Pos != 3 {
		t.Errorf("TXFNUM = %d, want 3", (in&reg.DEPCTL_TXFNUM)>>reg.DEPCTL_TXFNUM_Pos)
	}
	if in&reg.DEPCTL_USBAEP == 0 {
		t.Error("USBAEP not set")
	}

	out := Endpoint{0x02, EndpointTypeBulk, 64}.control()
	if out&reg.DEPCTL_TXFNUM != 0 {
		t.Errorf("OUT endpoint has TXFNUM 0x%X", out&reg.DEPCTL_TXFNUM)
	}
}

func TestTransferTypeName(t *testing.T) {
	tests := []struct {
		t    uint8
		want string
	}{
		{EndpointTypeControl, "Control"},
		{EndpointTypeIsochronous, "Isochronous"},
		{EndpointTypeBulk, "Bulk"},
		{EndpointTypeInterrupt, "Interrupt"},
		{0xFF, "Interrupt"}, // 0xFF & 0x03 = 0x03 = Interrupt
	}

	for _, tt := range tests {
		if got := TransferTypeName(tt.t); got != tt.want {
			t.Errorf("TransferTypeName(%d) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestDirectionName(t *testing.T) {
	if got := DirectionName(EndpointDirectionIn); got != "IN" {
		t.Errorf("DirectionName(IN) = %q, want %q", got, "IN")
	}
	if got := DirectionName(EndpointDirectionOut); got != "OUT" {
		t.Errorf("DirectionName(OUT) = %q, want %q", got, "OUT")
	}
}
