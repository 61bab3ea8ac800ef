// Package special implements accelerators bound to a bare modifier key,
// such as the overlay key, which fire when the key is pressed and released
// alone but act as an ordinary modifier when combined with another key.
package special

import (
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// State is the machine state.
type State uint8

const (
	// Idle waits for a clean press of the bound key.
	Idle State = iota

	// Armed holds the keyboard frozen after the bound key went down.
	Armed
)

// String returns "idle" or "armed".
func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// GlobalFunc gives global bindings first refusal on a key typed while the
// bound key is held. It reports whether the event was handled.
type GlobalFunc func(ev key.Event) bool

// FilterFunc vetoes an activation when it returns true.
type FilterFunc func(b *keymap.Binding) bool

// TriggerFunc is called once per press-and-release of the bound key.
type TriggerFunc func(ev key.Event)

// Config wires a Machine to its collaborators.
type Config struct {
	Allower grab.EventAllower
	Global  GlobalFunc
	Filter  FilterFunc
	Trigger TriggerFunc
	Logger  zerolog.Logger
}

// Machine is the state machine for one pseudo-binding.
//
// A Machine is not safe for concurrent use.
type Machine struct {
	binding *keymap.Binding
	state   State
	ignored key.ModMask
	cfg     Config
	logger  zerolog.Logger
}

// New creates an idle machine for binding.
func New(binding *keymap.Binding, cfg Config) *Machine {
	return &Machine{
		binding: binding,
		cfg:     cfg,
		logger:  cfg.Logger.With().Str("component", "special").Str("binding", binding.Name).Logger(),
	}
}

// Binding returns the pseudo-binding the machine watches.
func (m *Machine) Binding() *keymap.Binding {
	return m.binding
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// SetIgnoredMask sets the bits disregarded when checking for a clean press.
func (m *Machine) SetIgnoredMask(mask key.ModMask) {
	m.ignored = mask
}

// Reset returns the machine to Idle without touching the keyboard. Pointer
// activity between press and release cancels the activation this way.
func (m *Machine) Reset() {
	m.state = Idle
}

func (m *Machine) allow(mode grab.AllowMode, t key.Timestamp) {
	if m.cfg.Allower == nil {
		return
	}
	if err := m.cfg.Allower.AllowEvents(mode, t); err != nil {
		m.logger.Warn().Err(err).Stringer("mode", mode).Msg("allow events failed")
	}
}

// Process feeds ev through the machine and reports whether it consumed the
// event.
func (m *Machine) Process(ev key.Event) bool {
	rc := m.binding.Resolved
	if m.state == Armed {
		m.state = Idle
		switch {
		case !containsKeycode(rc, ev.Keycode):
			// The bound key was used as a modifier. Replaying would skip
			// passive grabs above the grab window, so our own global
			// bindings get the event first.
			if m.cfg.Global != nil && m.cfg.Global(ev) {
				m.allow(grab.AllowAsync, ev.Time)
			} else {
				m.allow(grab.AllowReplay, ev.Time)
			}
		case ev.IsRelease():
			m.allow(grab.AllowAsync, ev.Time)
			if m.cfg.Filter != nil && m.cfg.Filter(m.binding) {
				m.logger.Debug().Msg("activation filtered")
				break
			}
			m.logger.Debug().Msg("activated")
			if m.cfg.Trigger != nil {
				m.cfg.Trigger(ev)
			}
		default:
			// The release was lost; never leave the keyboard frozen.
			m.allow(grab.AllowAsync, ev.Time)
		}
		return true
	}

	clean := ev.State&key.ModMaskCore&^m.ignored == 0
	if ev.IsPress() && clean && containsKeycode(rc, ev.Keycode) {
		m.state = Armed
		m.allow(grab.AllowSync, ev.Time)
		return true
	}
	return false
}

func containsKeycode(rc keymap.ResolvedCombo, code key.Keycode) bool {
	for _, c := range rc.Keycodes {
		if c == code {
			return true
		}
	}
	return false
}
