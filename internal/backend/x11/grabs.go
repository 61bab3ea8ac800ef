package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
)

// Buttons are grabbed for press and release; the pointer is not frozen.
const buttonEventMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease

// GrabKey implements grab.Backend. The keyboard is grabbed synchronously so
// the dispatcher can replay the event.
func (b *Backend) GrabKey(win grab.WindowID, code key.Keycode, mask key.ModMask) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := xproto.GrabKeyChecked(b.conn, true, xproto.Window(win), uint16(mask),
		xproto.Keycode(code), xproto.GrabModeAsync, xproto.GrabModeSync).Check()
	return requestError("grab key", err)
}

// UngrabKey implements grab.Backend.
func (b *Backend) UngrabKey(win grab.WindowID, code key.Keycode, mask key.ModMask) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := xproto.UngrabKeyChecked(b.conn, xproto.Keycode(code), xproto.Window(win), uint16(mask)).Check()
	return requestError("ungrab key", err)
}

// GrabButton implements grab.Backend.
func (b *Backend) GrabButton(win grab.WindowID, button grab.Button, mask key.ModMask) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := xproto.GrabButtonChecked(b.conn, false, xproto.Window(win), buttonEventMask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
		byte(button), uint16(mask)).Check()
	return requestError("grab button", err)
}

// UngrabButton implements grab.Backend.
func (b *Backend) UngrabButton(win grab.WindowID, button grab.Button, mask key.ModMask) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := xproto.UngrabButtonChecked(b.conn, byte(button), xproto.Window(win), uint16(mask)).Check()
	return requestError("ungrab button", err)
}

// GrabKeyboard implements grab.Backend.
func (b *Backend) GrabKeyboard(win grab.WindowID, t key.Timestamp) error {
	if b.closed.Load() {
		return ErrClosed
	}
	reply, err := xproto.GrabKeyboard(b.conn, false, xproto.Window(win), xproto.Timestamp(t),
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil {
		return requestError("grab keyboard", err)
	}
	return grabStatusError(reply.Status)
}

// UngrabKeyboard implements grab.Backend.
func (b *Backend) UngrabKeyboard(t key.Timestamp) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := xproto.UngrabKeyboardChecked(b.conn, xproto.Timestamp(t)).Check()
	return requestError("ungrab keyboard", err)
}

// AllowEvents implements grab.EventAllower.
func (b *Backend) AllowEvents(mode grab.AllowMode, t key.Timestamp) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := xproto.AllowEventsChecked(b.conn, allowMode(mode), xproto.Timestamp(t)).Check()
	return requestError("allow events", err)
}

func allowMode(mode grab.AllowMode) byte {
	switch mode {
	case grab.AllowSync:
		return xproto.AllowSyncKeyboard
	case grab.AllowReplay:
		return xproto.AllowReplayKeyboard
	default:
		return xproto.AllowAsyncKeyboard
	}
}

func grabStatusError(status byte) error {
	switch status {
	case xproto.GrabStatusSuccess:
		return nil
	case xproto.GrabStatusAlreadyGrabbed, xproto.GrabStatusFrozen:
		return grab.ErrAlreadyGrabbed
	case xproto.GrabStatusNotViewable:
		return grab.ErrNotViewable
	default:
		return fmt.Errorf("%w: status %d", grab.ErrGrabFailed, status)
	}
}

// requestError maps X protocol errors onto the grab sentinels.
func requestError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case xproto.AccessError:
		return fmt.Errorf("%s: %w: %v", op, grab.ErrAlreadyGrabbed, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, grab.ErrGrabFailed, err)
	}
}
