package dispatcher

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
	"github.com/dshills/wmkeys/internal/input/special"
)

// Filter lets the compositor veto a binding. Returning true rejects it.
type Filter func(b *keymap.Binding) bool

// Inhibitor reports whether a window currently inhibits shortcuts.
type Inhibitor interface {
	ShortcutsInhibited(w *grab.Window) bool
}

// KeyboardGrab handles key events while an exclusive keyboard grab is
// held, for example during keyboard window moves or Alt-Tab cycling.
type KeyboardGrab interface {
	// Active reports whether a grab operation is running.
	Active() bool

	// ProcessGrabKey handles ev and reports whether the grab continues.
	ProcessGrabKey(w *grab.Window, ev key.Event) bool

	// EndGrab ends the grab operation.
	EndGrab(t key.Timestamp)
}

// LayoutSwitcher locks the keyboard to the next layout group.
type LayoutSwitcher interface {
	LockNextGroup(t key.Timestamp)
}

// Options wire a Dispatcher to the rest of the engine.
type Options struct {
	Config     Config
	Index      *keymap.Index
	Handlers   *Registry
	Controller *grab.Controller
	Logger     zerolog.Logger
}

// Dispatcher routes key events to handlers.
//
// A Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	config     Config
	index      *keymap.Index
	handlers   *Registry
	controller *grab.Controller

	overlay *special.Machine
	locate  *special.Machine

	isoCombos  []keymap.ResolvedCombo
	isoBinding *keymap.Binding
	switcher   LayoutSwitcher

	filter    Filter
	inhibitor Inhibitor
	kbdGrab   KeyboardGrab
	disabled  bool

	depth   int
	metrics *Metrics
	logger  zerolog.Logger
}

// New creates a dispatcher.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		config:     opts.Config,
		index:      opts.Index,
		handlers:   opts.Handlers,
		controller: opts.Controller,
		logger:     opts.Logger.With().Str("component", "dispatcher").Logger(),
	}
	if opts.Config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// SetSpecialMachines installs the overlay and locate-pointer machines.
// Either may be nil.
func (d *Dispatcher) SetSpecialMachines(overlay, locate *special.Machine) {
	d.overlay = overlay
	d.locate = locate
}

// Overlay returns the overlay key machine.
func (d *Dispatcher) Overlay() *special.Machine {
	return d.overlay
}

// LocatePointer returns the locate-pointer key machine.
func (d *Dispatcher) LocatePointer() *special.Machine {
	return d.locate
}

// SetISONextGroup installs the resolved group toggle combos.
func (d *Dispatcher) SetISONextGroup(b *keymap.Binding, combos []keymap.ResolvedCombo, sw LayoutSwitcher) {
	d.isoBinding = b
	d.isoCombos = combos
	d.switcher = sw
}

// SetFilter installs the compositor filter.
func (d *Dispatcher) SetFilter(f Filter) {
	d.filter = f
}

// SetInhibitor installs the shortcut inhibitor.
func (d *Dispatcher) SetInhibitor(i Inhibitor) {
	d.inhibitor = i
}

// SetKeyboardGrab installs the exclusive grab handler.
func (d *Dispatcher) SetKeyboardGrab(g KeyboardGrab) {
	d.kbdGrab = g
}

// SetDisabled turns all keybindings off. While disabled every event is
// replayed to clients.
func (d *Dispatcher) SetDisabled(disabled bool) {
	d.disabled = disabled
}

// Disabled reports whether keybindings are off.
func (d *Dispatcher) Disabled() bool {
	return d.disabled
}

// Dispatching reports whether an event is being processed. Reloads
// requested while dispatching must be deferred.
func (d *Dispatcher) Dispatching() bool {
	return d.depth > 0
}

// Metrics returns the metrics collector, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// ResetSpecialKeys returns both special key machines to idle. It is
// called for pointer events.
func (d *Dispatcher) ResetSpecialKeys() {
	if d.overlay != nil {
		d.overlay.Reset()
	}
	if d.locate != nil {
		d.locate.Reset()
	}
}

// ProcessKeyEvent handles one raw key event for win, which is nil for
// events on the root window. It reports whether the event was consumed.
func (d *Dispatcher) ProcessKeyEvent(win *grab.Window, ev key.Event) bool {
	d.depth++
	defer func() { d.depth-- }()

	if d.disabled {
		_ = d.controller.AllowEvents(grab.AllowReplay, ev.Time)
		return false
	}

	d.logger.Debug().
		Stringer("event", ev).
		Bool("window", win != nil).
		Msg("processing key event")

	target := win
	if target == nil {
		target = d.controller.Root()
	}
	allKeysGrabbed := target.AllKeysGrabbed()

	if !allKeysGrabbed {
		if d.overlay != nil && d.overlay.Process(ev) {
			return true
		}
		// Handled locate-pointer events continue on to clients.
		if d.locate != nil && d.locate.Process(ev) {
			return false
		}
		if d.processISONextGroup(ev) {
			return true
		}
	}

	_ = d.controller.AllowEvents(grab.AllowAsync, ev.Time)

	if allKeysGrabbed {
		if d.kbdGrab == nil || !d.kbdGrab.Active() {
			return true
		}
		if !d.kbdGrab.ProcessGrabKey(win, ev) {
			d.logger.Debug().Stringer("event", ev).Msg("ending keyboard grab")
			d.kbdGrab.EndGrab(ev.Time)
		}
		return true
	}

	return d.processEvent(win, ev)
}

// ProcessGlobal runs the binding lookup without a window context. The
// special key machines use it to give global bindings first refusal.
func (d *Dispatcher) ProcessGlobal(ev key.Event) bool {
	return d.processEvent(nil, ev)
}

func (d *Dispatcher) processISONextGroup(ev key.Event) bool {
	if !ev.IsPress() || len(d.isoCombos) == 0 {
		return false
	}
	mask := ev.State & key.ModMaskCore &^ d.index.IgnoredMask()
	for _, rc := range d.isoCombos {
		if !rc.Matches(ev.Keycode, mask) {
			continue
		}
		if d.filter != nil && d.isoBinding != nil && d.filter(d.isoBinding) {
			return false
		}
		// The toggle is grabbed synchronously; thaw before switching.
		_ = d.controller.AllowEvents(grab.AllowAsync, ev.Time)
		if d.switcher != nil {
			d.switcher.LockNextGroup(ev.Time)
		}
		return true
	}
	return false
}

// Lookup returns the binding for a keycode and event state.
func (d *Dispatcher) Lookup(code key.Keycode, state key.ModMask) *keymap.Binding {
	return d.index.LookupKey(code, state&key.ModMaskCore)
}

func (d *Dispatcher) processEvent(win *grab.Window, ev key.Event) bool {
	// Bindings are edge-triggered on press.
	if !ev.IsPress() {
		return false
	}

	start := time.Now()
	b := d.Lookup(ev.Keycode, ev.State)
	if b == nil {
		d.logger.Debug().Stringer("event", ev).Msg("no handler found")
		d.record("", start, OutcomeNotFound)
		return false
	}

	h := d.handlers.Get(b.Handler)
	switch {
	case h == nil:
		d.logger.Warn().Str("binding", b.Name).Str("handler", b.Handler).Msg("binding has no handler")
		d.record(b.Name, start, OutcomeNotFound)
		return false
	case win == nil && b.IsPerWindow():
		d.record(b.Name, start, OutcomeNotFound)
		return false
	case !h.HasCallback():
		d.record(b.Name, start, OutcomeNotFound)
		return false
	case win != nil && !b.Flags.Has(keymap.FlagNonMaskable) &&
		d.inhibitor != nil && d.inhibitor.ShortcutsInhibited(win):
		d.logger.Debug().Str("binding", b.Name).Msg("shortcuts inhibited")
		d.record(b.Name, start, OutcomeInhibited)
		return false
	case d.filter != nil && d.filter(b):
		d.logger.Debug().Str("binding", b.Name).Msg("binding filtered")
		d.record(b.Name, start, OutcomeFiltered)
		return false
	case ev.Repeat && b.Flags.Has(keymap.FlagIgnoreAutorepeat):
		d.logger.Debug().Str("binding", b.Name).Msg("ignoring autorepeat")
		d.record(b.Name, start, OutcomeSwallowed)
		return true
	}

	d.logger.Debug().Str("binding", b.Name).Msg("running handler")
	if err := d.invoke(h, win, ev, b); err != nil {
		d.logger.Error().Err(err).Str("binding", b.Name).Msg("handler failed")
		d.record(b.Name, start, OutcomePanic)
		return true
	}
	d.record(b.Name, start, OutcomeHandled)
	return true
}

// Invoke runs h directly, outside of event processing.
func (d *Dispatcher) Invoke(h *handler.Handler, win *grab.Window, ev key.Event, b *keymap.Binding) error {
	d.depth++
	defer func() { d.depth-- }()
	return d.invoke(h, win, ev, b)
}

func (d *Dispatcher) invoke(h *handler.Handler, win *grab.Window, ev key.Event, b *keymap.Binding) (err error) {
	if d.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: %v", ErrPanic, h.Name, r)
			}
		}()
	}
	if !h.Invoke(win, ev, b) {
		return fmt.Errorf("%w: %s has no callback", ErrNoHandler, h.Name)
	}
	return nil
}

func (d *Dispatcher) record(name string, start time.Time, outcome Outcome) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(name, time.Since(start), outcome)
	}
}
