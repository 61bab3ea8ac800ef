package x11

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/backend"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
)

// ErrClosed is returned by requests made after Shutdown.
var ErrClosed = errors.New("x11: connection closed")

// Backend is an X11 connection implementing backend.Backend.
type Backend struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	root   xproto.Window
	logger zerolog.Logger

	tr translator

	// closed is read by the event pump goroutine.
	closed atomic.Bool
}

var _ backend.Backend = (*Backend)(nil)

// Connect opens a connection to display. An empty display uses $DISPLAY.
func Connect(display string, logger zerolog.Logger) (*Backend, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect %q: %w", display, err)
	}
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	b := &Backend{
		conn:   conn,
		setup:  setup,
		root:   screen.Root,
		logger: logger.With().Str("component", "x11").Logger(),
		tr:     newTranslator(),
	}
	b.logger.Info().
		Uint32("root", uint32(b.root)).
		Uint8("min_keycode", uint8(setup.MinKeycode)).
		Uint8("max_keycode", uint8(setup.MaxKeycode)).
		Msg("connected")
	return b, nil
}

// Root implements grab.Backend.
func (b *Backend) Root() grab.WindowID {
	return grab.WindowID(b.root)
}

// Keymap implements backend.Backend.
func (b *Backend) Keymap() (layout.Keymap, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	lo, hi := b.setup.MinKeycode, b.setup.MaxKeycode
	count := byte(hi - lo + 1)
	reply, err := xproto.GetKeyboardMapping(b.conn, lo, count).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get keyboard mapping: %w", err)
	}
	km := keymapFromMapping(lo, hi, int(reply.KeysymsPerKeycode), reply.Keysyms)
	b.logger.Debug().
		Int("layouts", km.NumLayouts()).
		Uint8("keysyms_per_keycode", reply.KeysymsPerKeycode).
		Msg("keyboard mapping loaded")
	return km, nil
}

// Modifiers implements backend.Backend.
func (b *Backend) Modifiers(km layout.Keymap) (modmap.Source, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	reply, err := xproto.GetModifierMapping(b.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get modifier mapping: %w", err)
	}
	return sourceFromModmap(int(reply.KeycodesPerModifier), reply.Keycodes, km), nil
}

// PollEvent implements backend.Backend.
func (b *Backend) PollEvent() backend.Event {
	for {
		if b.closed.Load() {
			return backend.Event{Type: backend.EventClosed}
		}
		ev, err := b.conn.WaitForEvent()
		if ev == nil && err == nil {
			return backend.Event{Type: backend.EventClosed}
		}
		if err != nil {
			b.logger.Warn().Err(err).Msg("x error")
			continue
		}
		if out, ok := b.tr.translate(ev); ok {
			return out
		}
	}
}

// Shutdown implements backend.Backend.
func (b *Backend) Shutdown() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	b.conn.Close()
}
