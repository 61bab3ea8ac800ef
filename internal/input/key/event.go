package key

import "fmt"

// EventType distinguishes presses from releases.
type EventType uint8

const (
	EventPress EventType = iota
	EventRelease
)

// String returns "press" or "release".
func (t EventType) String() string {
	if t == EventRelease {
		return "release"
	}
	return "press"
}

// Timestamp is a server timestamp in milliseconds. Zero means CurrentTime.
type Timestamp uint32

// TimeCurrent asks the server to substitute its current time.
const TimeCurrent Timestamp = 0

// DeviceID identifies the input device that produced an event.
type DeviceID int

// Event is a raw key event.
type Event struct {
	Type    EventType
	Keycode Keycode
	State   ModMask
	Time    Timestamp
	Repeat  bool
	Device  DeviceID
}

// IsPress returns true for press events.
func (e Event) IsPress() bool {
	return e.Type == EventPress
}

// IsRelease returns true for release events.
func (e Event) IsRelease() bool {
	return e.Type == EventRelease
}

// String returns a debug representation of the event.
func (e Event) String() string {
	s := fmt.Sprintf("%s keycode=%d state=%s time=%d", e.Type, e.Keycode, e.State, e.Time)
	if e.Repeat {
		s += " repeat"
	}
	return s
}

// NewPress creates a press event.
func NewPress(code Keycode, state ModMask, t Timestamp) Event {
	return Event{Type: EventPress, Keycode: code, State: state, Time: t}
}

// NewRelease creates a release event.
func NewRelease(code Keycode, state ModMask, t Timestamp) Event {
	return Event{Type: EventRelease, Keycode: code, State: state, Time: t}
}
