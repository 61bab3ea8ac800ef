package grab

import (
	"errors"

	"github.com/dshills/wmkeys/internal/input/key"
)

// Errors reported by backends.
var (
	ErrAlreadyGrabbed = errors.New("grab: already grabbed by another client")
	ErrNotViewable    = errors.New("grab: window not viewable")
	ErrGrabFailed     = errors.New("grab: request failed")
)

// WindowID identifies a window on the server.
type WindowID uint32

// Button is a pointer button number.
type Button uint8

// AllowMode selects how a frozen keyboard is released.
type AllowMode uint8

const (
	// AllowAsync thaws the keyboard and keeps the grab.
	AllowAsync AllowMode = iota

	// AllowSync thaws for one event, then freezes again.
	AllowSync

	// AllowReplay releases the grab and redelivers the frozen event as if
	// the grab had not existed.
	AllowReplay
)

// String returns the mode name.
func (m AllowMode) String() string {
	switch m {
	case AllowSync:
		return "sync"
	case AllowReplay:
		return "replay"
	default:
		return "async"
	}
}

// EventAllower releases a frozen keyboard.
type EventAllower interface {
	AllowEvents(mode AllowMode, t key.Timestamp) error
}

// Backend is the windowing system call surface used by the Controller.
// Key grabs are requested with the keyboard in synchronous mode so that an
// event can be replayed after inspection.
type Backend interface {
	EventAllower

	// Root returns the root window.
	Root() WindowID

	GrabKey(win WindowID, code key.Keycode, mask key.ModMask) error
	UngrabKey(win WindowID, code key.Keycode, mask key.ModMask) error

	GrabButton(win WindowID, button Button, mask key.ModMask) error
	UngrabButton(win WindowID, button Button, mask key.ModMask) error

	// GrabKeyboard takes an exclusive grab of the whole keyboard.
	GrabKeyboard(win WindowID, t key.Timestamp) error
	UngrabKeyboard(t key.Timestamp) error
}
