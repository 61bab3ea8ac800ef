package grab

import (
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Controller issues and revokes grabs through a Backend.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	backend Backend
	root    *Window
	ignored key.ModMask
	logger  zerolog.Logger
}

// NewController creates a controller for backend.
func NewController(backend Backend, logger zerolog.Logger) *Controller {
	return &Controller{
		backend: backend,
		root:    &Window{ID: backend.Root(), root: true},
		logger:  logger.With().Str("component", "grab").Logger(),
	}
}

// Root returns the grab state of the root window.
func (c *Controller) Root() *Window {
	return c.root
}

// SetIgnoredMask sets the bits every grab is expanded over.
func (c *Controller) SetIgnoredMask(mask key.ModMask) {
	c.ignored = mask
}

// IgnoredMask returns the bits every grab is expanded over.
func (c *Controller) IgnoredMask() key.ModMask {
	return c.ignored
}

// AllowEvents releases the frozen keyboard. Failures are logged and
// returned.
func (c *Controller) AllowEvents(mode AllowMode, t key.Timestamp) error {
	if err := c.backend.AllowEvents(mode, t); err != nil {
		c.logger.Warn().Err(err).Stringer("mode", mode).Msg("allow events failed")
		return err
	}
	return nil
}

// Variants returns mask together with mask OR-ed with every nonempty subset
// of the ignored bits. A mask already carrying ModMaskAny needs no
// expansion.
func (c *Controller) Variants(mask key.ModMask) []key.ModMask {
	if mask.Has(key.ModMaskAny) {
		return []key.ModMask{mask}
	}
	variants := []key.ModMask{mask}
	for sub := key.ModMask(1); sub <= c.ignored; sub++ {
		if sub&^c.ignored != 0 {
			continue
		}
		variants = append(variants, mask|sub)
	}
	return variants
}

// Grab grabs every keycode of rc on target over all mask variants. It
// returns false if any request failed.
func (c *Controller) Grab(target WindowID, rc keymap.ResolvedCombo) bool {
	return c.changeKeyGrab(target, rc, true)
}

// Ungrab releases the grabs Grab would issue for rc.
func (c *Controller) Ungrab(target WindowID, rc keymap.ResolvedCombo) bool {
	return c.changeKeyGrab(target, rc, false)
}

func (c *Controller) changeKeyGrab(target WindowID, rc keymap.ResolvedCombo, grab bool) bool {
	ok := true
	for _, code := range rc.Keycodes {
		for _, mask := range c.Variants(rc.Mask) {
			var err error
			if grab {
				err = c.backend.GrabKey(target, code, mask)
			} else {
				err = c.backend.UngrabKey(target, code, mask)
			}
			if err != nil {
				ok = false
				c.logger.Warn().Err(err).
					Bool("grab", grab).
					Uint32("window", uint32(target)).
					Uint32("keycode", uint32(code)).
					Stringer("mask", mask).
					Msg("key grab request failed")
			}
		}
		c.logger.Debug().
			Bool("grab", grab).
			Uint32("window", uint32(target)).
			Uint32("keycode", uint32(code)).
			Stringer("mask", rc.Mask).
			Msg("changed key grab")
	}
	return ok
}

// GrabKeys grabs combos on w: the root for global bindings, or a client's
// toplevel for per-window bindings. It is a no-op while w already holds
// grabs on its current toplevel or cannot take focus. While w holds an
// exclusive grab the combos are only remembered, and UngrabAllKeys grabs
// them.
func (c *Controller) GrabKeys(w *Window, combos []keymap.ResolvedCombo) bool {
	if w.allKeysGrabbed {
		w.keyCombos = append(w.keyCombos[:0], combos...)
		return true
	}
	if !w.Focusable() {
		if w.keysGrabbed {
			c.UngrabKeys(w)
		}
		return true
	}

	target := w.ID
	if !w.root {
		target = w.Toplevel()
	}
	if w.keysGrabbed {
		if w.keyTarget == target {
			return true
		}
		c.UngrabKeys(w)
	}

	ok := true
	for _, rc := range combos {
		if rc.IsEmpty() {
			continue
		}
		if !c.Grab(target, rc) {
			ok = false
		}
	}

	w.keysGrabbed = true
	w.keyTarget = target
	w.grabOnFrame = !w.root && w.Frame != 0
	w.keyCombos = append(w.keyCombos[:0], combos...)
	return ok
}

// UngrabKeys releases the grabs taken by GrabKeys. It is a no-op when none
// are held.
func (c *Controller) UngrabKeys(w *Window) bool {
	if !w.keysGrabbed {
		return true
	}
	ok := true
	for _, rc := range w.keyCombos {
		if rc.IsEmpty() {
			continue
		}
		if !c.Ungrab(w.keyTarget, rc) {
			ok = false
		}
	}
	w.keysGrabbed = false
	w.grabOnFrame = false
	w.keyTarget = 0
	w.keyCombos = w.keyCombos[:0]
	return ok
}

// SetFrame changes the decoration of w. Existing key grabs are destroyed
// on the old toplevel and recreated on the new one.
func (c *Controller) SetFrame(w *Window, frame WindowID) {
	if w.Frame == frame {
		return
	}
	held := w.keysGrabbed
	combos := append([]keymap.ResolvedCombo(nil), w.keyCombos...)
	c.UngrabKeys(w)
	w.Frame = frame
	if held {
		c.GrabKeys(w, combos)
	}
}

// GrabAllKeys takes an exclusive keyboard grab on w, dropping its passive
// grabs. It returns false if the grab is already held or the server
// refused it.
func (c *Controller) GrabAllKeys(w *Window, t key.Timestamp) bool {
	if w.allKeysGrabbed {
		return false
	}
	combos := append([]keymap.ResolvedCombo(nil), w.keyCombos...)
	if w.keysGrabbed {
		c.UngrabKeys(w)
	}
	w.keyCombos = combos

	target := w.ID
	if !w.root {
		target = w.Toplevel()
	}
	if err := c.backend.GrabKeyboard(target, t); err != nil {
		c.logger.Warn().Err(err).Uint32("window", uint32(target)).Msg("keyboard grab failed")
		return false
	}

	w.allKeysGrabbed = true
	w.keysGrabbed = false
	w.grabOnFrame = !w.root && w.Frame != 0
	return true
}

// UngrabAllKeys releases an exclusive grab and grabs combos passively. A
// nil combos restores the grabs w held before, or was given since, the
// exclusive grab.
func (c *Controller) UngrabAllKeys(w *Window, t key.Timestamp, combos []keymap.ResolvedCombo) {
	if !w.allKeysGrabbed {
		return
	}
	if err := c.backend.UngrabKeyboard(t); err != nil {
		c.logger.Warn().Err(err).Msg("keyboard ungrab failed")
	}
	w.allKeysGrabbed = false
	w.keysGrabbed = false
	w.grabOnFrame = false

	if combos == nil {
		combos = append([]keymap.ResolvedCombo(nil), w.keyCombos...)
	}
	c.GrabKeys(w, combos)
}

// Buttons grabbed for window move and resize.
const (
	firstButton Button = 1
	lastButton  Button = 3
)

func (c *Controller) changeButtonGrab(win WindowID, button Button, mask key.ModMask, grab bool) {
	for _, m := range c.Variants(mask) {
		var err error
		if grab {
			err = c.backend.GrabButton(win, button, m)
		} else {
			err = c.backend.UngrabButton(win, button, m)
		}
		if err != nil {
			c.logger.Debug().Err(err).
				Bool("grab", grab).
				Uint32("window", uint32(win)).
				Uint8("button", uint8(button)).
				Stringer("mask", m).
				Msg("button grab request failed")
		}
	}
}

// GrabWindowButtons grabs buttons 1-3 with mask for moving and resizing,
// plus mask with Shift on button 1 for snap moves. A zero mask disables the
// grabs.
func (c *Controller) GrabWindowButtons(w *Window, mask key.ModMask) {
	if w.OverrideRedirect || w.root || mask == 0 || w.buttonsGrabbed {
		return
	}
	for b := firstButton; b <= lastButton; b++ {
		c.changeButtonGrab(w.ID, b, mask, true)
	}
	c.changeButtonGrab(w.ID, firstButton, mask|key.ModMaskShift, true)
	w.buttonMask = mask
	w.buttonsGrabbed = true
}

// UngrabWindowButtons releases GrabWindowButtons.
func (c *Controller) UngrabWindowButtons(w *Window) {
	if !w.buttonsGrabbed {
		return
	}
	mask := w.buttonMask
	for b := firstButton; b <= lastButton; b++ {
		c.changeButtonGrab(w.ID, b, mask, false)
	}
	c.changeButtonGrab(w.ID, firstButton, mask|key.ModMaskShift, false)
	w.buttonsGrabbed = false
	w.buttonMask = 0
}

// GrabFocusButtons grabs unmodified buttons 1-3 so a click on an unfocused
// window can focus it.
func (c *Controller) GrabFocusButtons(w *Window) {
	if w.focusClickGrab || w.OverrideRedirect || w.root {
		return
	}
	for b := firstButton; b <= lastButton; b++ {
		c.changeButtonGrab(w.ID, b, 0, true)
	}
	w.focusClickGrab = true
}

// UngrabFocusButtons releases GrabFocusButtons.
func (c *Controller) UngrabFocusButtons(w *Window) {
	if !w.focusClickGrab {
		return
	}
	for b := firstButton; b <= lastButton; b++ {
		c.changeButtonGrab(w.ID, b, 0, false)
	}
	w.focusClickGrab = false
}
