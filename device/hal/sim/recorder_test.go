package sim

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/otgfs/device/hal"
)

func TestRecorder_Forwards(t *testing.T) {
	inner := NewRecorder(nil)
	outer := NewRecorder(inner)

	outer.Reset(hal.SpeedFull)
	outer.DataReceived(0, 8)
	outer.Transfer(0, hal.PhaseSetup)
	outer.ContinueIn(1)
	outer.Suspend()
	outer.StartOfFrame(42)

	want := []Event{
		ResetEvent(hal.SpeedFull),
		DataEvent(0, 8),
		TransferEvent(0, hal.PhaseSetup),
		ContinueEvent(1),
		SuspendEvent(),
		FrameEvent(42),
	}
	if diff := cmp.Diff(want, outer.Events()); diff != "" {
		t.Errorf("outer events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, inner.Events()); diff != "" {
		t.Errorf("forwarded events mismatch (-want +got):\n%s", diff)
	}

	outer.Clear()
	if len(outer.Events()) != 0 {
		t.Error("Clear() left events")
	}
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{ResetEvent(hal.SpeedFull), `reset speed="Full Speed"`},
		{DataEvent(2, 64), "data-received ep=2 count=64"},
		{TransferEvent(3, hal.PhaseIn), "transfer ep=3 phase=IN"},
		{ContinueEvent(3), "continue-in ep=3"},
		{SuspendEvent(), "suspend"},
		{FrameEvent(7), "sof frame=7"},
		{Event{Kind: EventKind(42)}, "unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.event.String(); got != tt.want {
				t.Errorf("Event.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
