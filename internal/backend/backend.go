// Package backend defines the display server surface the daemon runs on.
package backend

import (
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/grab/grabtest"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
)

// EventType identifies the type of server event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventButton
	EventMapping
	EventClosed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventButton:
		return "button"
	case EventMapping:
		return "mapping"
	case EventClosed:
		return "closed"
	default:
		return "none"
	}
}

// Event represents a server event relevant to keybindings.
type Event struct {
	Type EventType

	// Window is the window the event was reported on.
	Window grab.WindowID

	// Key event fields
	Key key.Event

	// Button event fields
	Button grab.Button

	// Mapping event fields. Modifiers is set when the modifier map changed,
	// otherwise the keyboard mapping changed.
	Modifiers bool

	// Err is set on EventClosed when the connection failed.
	Err error
}

// Backend is the display server connection.
type Backend interface {
	grab.Backend

	// Keymap fetches the current keyboard mapping.
	Keymap() (layout.Keymap, error)

	// Modifiers fetches the modifier map, naming virtual modifiers from the
	// keysyms found in km.
	Modifiers(km layout.Keymap) (modmap.Source, error)

	// PollEvent waits for and returns the next event. After the connection
	// closes it returns EventClosed forever.
	PollEvent() Event

	// Shutdown closes the connection.
	Shutdown()
}

// NullBackend is an in-memory backend for testing. Grabs are recorded by the
// embedded Recorder and events are fed with PostEvent.
type NullBackend struct {
	*grabtest.Recorder

	KeymapValue layout.Keymap
	Source      modmap.Source

	events chan Event
	closed bool
}

// NewNullBackend creates a null backend with the US keymap and the default
// modifier map.
func NewNullBackend() *NullBackend {
	return &NullBackend{
		Recorder:    grabtest.New(),
		KeymapValue: layout.USKeymap(),
		Source:      modmap.DefaultSource(),
		events:      make(chan Event, 100),
	}
}

// Keymap implements Backend.
func (b *NullBackend) Keymap() (layout.Keymap, error) {
	return b.KeymapValue, nil
}

// Modifiers implements Backend.
func (b *NullBackend) Modifiers(layout.Keymap) (modmap.Source, error) {
	return b.Source, nil
}

// PostEvent queues an event for PollEvent.
func (b *NullBackend) PostEvent(ev Event) {
	b.events <- ev
}

// PollEvent implements Backend.
func (b *NullBackend) PollEvent() Event {
	ev, ok := <-b.events
	if !ok {
		return Event{Type: EventClosed}
	}
	return ev
}

// Shutdown implements Backend.
func (b *NullBackend) Shutdown() {
	if b.closed {
		return
	}
	b.closed = true
	close(b.events)
}
