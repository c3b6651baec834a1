package sim

import (
	"fmt"
	"sync"

	"github.com/ardnew/otgfs/device/hal"
)

// EventKind identifies which [hal.Core] method produced an Event.
type EventKind uint8

// Event kinds, one per [hal.Core] method.
const (
	EventReset EventKind = iota
	EventDataReceived
	EventTransfer
	EventContinueIn
	EventSuspend
	EventStartOfFrame
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventDataReceived:
		return "data-received"
	case EventTransfer:
		return "transfer"
	case EventContinueIn:
		return "continue-in"
	case EventSuspend:
		return "suspend"
	case EventStartOfFrame:
		return "sof"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Event is one Device Core notification. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind     EventKind
	Endpoint uint8
	Count    uint16
	Phase    hal.Phase
	Speed    hal.Speed
	Frame    uint16
}

// String returns a one-line description of the event.
func (e Event) String() string {
	switch e.Kind {
	case EventReset:
		return fmt.Sprintf("reset speed=%q", e.Speed)
	case EventDataReceived:
		return fmt.Sprintf("data-received ep=%d count=%d", e.Endpoint, e.Count)
	case EventTransfer:
		return fmt.Sprintf("transfer ep=%d phase=%s", e.Endpoint, e.Phase)
	case EventContinueIn:
		return fmt.Sprintf("continue-in ep=%d", e.Endpoint)
	case EventSuspend:
		return "suspend"
	case EventStartOfFrame:
		return fmt.Sprintf("sof frame=%d", e.Frame)
	default:
		return e.Kind.String()
	}
}

// ResetEvent returns the event recorded by Core.Reset.
func ResetEvent(speed hal.Speed) Event { return Event{Kind: EventReset, Speed: speed} }

// DataEvent returns the event recorded by Core.DataReceived.
func DataEvent(ep uint8, count uint16) Event {
	return Event{Kind: EventDataReceived, Endpoint: ep, Count: count}
}

// TransferEvent returns the event recorded by Core.Transfer.
func TransferEvent(ep uint8, phase hal.Phase) Event {
	return Event{Kind: EventTransfer, Endpoint: ep, Phase: phase}
}

// ContinueEvent returns the event recorded by Core.ContinueIn.
func ContinueEvent(ep uint8) Event { return Event{Kind: EventContinueIn, Endpoint: ep} }

// SuspendEvent returns the event recorded by Core.Suspend.
func SuspendEvent() Event { return Event{Kind: EventSuspend} }

// FrameEvent returns the event recorded by Core.StartOfFrame.
func FrameEvent(frame uint16) Event { return Event{Kind: EventStartOfFrame, Frame: frame} }

// Recorder is a [hal.Core] that records every notification and optionally
// forwards it to another Core.
type Recorder struct {
	mutex  sync.Mutex
	events []Event
	next   hal.Core
}

// NewRecorder creates a Recorder forwarding to next, which may be nil.
func NewRecorder(next hal.Core) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) record(e Event) {
	r.mutex.Lock()
	r.events = append(r.events, e)
	r.mutex.Unlock()
}

// Reset implements [hal.Core].
func (r *Recorder) Reset(speed hal.Speed) {
	r.record(ResetEvent(speed))
	if r.next != nil {
		r.next.Reset(speed)
	}
}

// DataReceived implements [hal.Core].
func (r *Recorder) DataReceived(ep uint8, count uint16) {
	r.record(DataEvent(ep, count))
	if r.next != nil {
		r.next.DataReceived(ep, count)
	}
}

// Transfer implements [hal.Core].
func (r *Recorder) Transfer(ep uint8, phase hal.Phase) {
	r.record(TransferEvent(ep, phase))
	if r.next != nil {
		r.next.Transfer(ep, phase)
	}
}

// ContinueIn implements [hal.Core].
func (r *Recorder) ContinueIn(ep uint8) {
	r.record(ContinueEvent(ep))
	if r.next != nil {
		r.next.ContinueIn(ep)
	}
}

// Suspend implements [hal.Core].
func (r *Recorder) Suspend() {
	r.record(SuspendEvent())
	if r.next != nil {
		r.next.Suspend()
	}
}

// StartOfFrame implements [hal.Core].
func (r *Recorder) StartOfFrame(frame uint16) {
	r.record(FrameEvent(frame))
	if r.next != nil {
		r.next.StartOfFrame(frame)
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]Event(nil), r.events...)
}

// Clear discards the recorded events.
func (r *Recorder) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = nil
}

var _ hal.Core = (*Recorder)(nil)
