package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/dshills/wmkeys/internal/backend"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
)

// autorepeatWindow bounds how long, in server milliseconds, a press without
// a release still marks the key as held. Releases of replayed keys go to
// the client and never reach us, so the down state must expire.
const autorepeatWindow xproto.Timestamp = 1000

// translator converts xgb events and detects autorepeat. The core protocol
// carries no repeat flag: a held key shows up either as repeated presses or
// as release/press pairs sharing a timestamp.
type translator struct {
	// down maps a held keycode to the time of its latest press.
	down map[xproto.Keycode]xproto.Timestamp

	lastRelease     xproto.Keycode
	lastReleaseTime xproto.Timestamp
	released        bool
}

func newTranslator() translator {
	return translator{down: make(map[xproto.Keycode]xproto.Timestamp)}
}

func (t *translator) translate(ev xgb.Event) (backend.Event, bool) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		prev, held := t.down[e.Detail]
		repeat := (held && e.Time-prev <= autorepeatWindow) ||
			(t.released && t.lastRelease == e.Detail && t.lastReleaseTime == e.Time)
		t.down[e.Detail] = e.Time
		t.released = false
		return keyEvent(key.EventPress, e.Event, e.Detail, e.State, e.Time, repeat), true

	case xproto.KeyReleaseEvent:
		delete(t.down, e.Detail)
		t.lastRelease, t.lastReleaseTime, t.released = e.Detail, e.Time, true
		return keyEvent(key.EventRelease, e.Event, e.Detail, e.State, e.Time, false), true

	case xproto.ButtonPressEvent:
		return backend.Event{
			Type:   backend.EventButton,
			Window: grab.WindowID(e.Event),
			Button: grab.Button(e.Detail),
		}, true

	case xproto.MappingNotifyEvent:
		switch e.Request {
		case xproto.MappingModifier:
			return backend.Event{Type: backend.EventMapping, Modifiers: true}, true
		case xproto.MappingKeyboard:
			return backend.Event{Type: backend.EventMapping}, true
		}
	}
	return backend.Event{}, false
}

func keyEvent(typ key.EventType, win xproto.Window, code xproto.Keycode, state uint16, t xproto.Timestamp, repeat bool) backend.Event {
	return backend.Event{
		Type:   backend.EventKey,
		Window: grab.WindowID(win),
		Key: key.Event{
			Type:    typ,
			Keycode: key.Keycode(code),
			State:   key.ModMask(state),
			Time:    key.Timestamp(t),
			Repeat:  repeat,
		},
	}
}
