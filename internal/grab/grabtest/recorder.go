// Package grabtest provides a recording grab.Backend for tests.
package grabtest

import (
	"fmt"
	"sort"

	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
)

// KeyGrab is one passive key grab.
type KeyGrab struct {
	Window  grab.WindowID
	Keycode key.Keycode
	Mask    key.ModMask
}

// ButtonGrab is one passive button grab.
type ButtonGrab struct {
	Window grab.WindowID
	Button grab.Button
	Mask   key.ModMask
}

// Allow is one AllowEvents request.
type Allow struct {
	Mode grab.AllowMode
	Time key.Timestamp
}

// Recorder tracks live grabs the way a server would. Grabbing a key that is
// already grabbed fails, as does grabbing a key listed in Taken.
type Recorder struct {
	RootID grab.WindowID

	Keys    map[KeyGrab]bool
	Buttons map[ButtonGrab]bool
	Allows  []Allow

	// Taken holds key grabs owned by another client.
	Taken map[KeyGrab]bool

	KeyboardGrabbed grab.WindowID
	KeyboardErr     error
	AllowErr        error

	GrabCalls   int
	UngrabCalls int
}

// New creates a recorder whose root window is 1.
func New() *Recorder {
	return &Recorder{
		RootID:  1,
		Keys:    make(map[KeyGrab]bool),
		Buttons: make(map[ButtonGrab]bool),
		Taken:   make(map[KeyGrab]bool),
	}
}

// Root implements grab.Backend.
func (r *Recorder) Root() grab.WindowID {
	return r.RootID
}

// GrabKey implements grab.Backend.
func (r *Recorder) GrabKey(win grab.WindowID, code key.Keycode, mask key.ModMask) error {
	r.GrabCalls++
	g := KeyGrab{win, code, mask}
	if r.Taken[g] {
		return fmt.Errorf("%w: keycode %d mask %s", grab.ErrAlreadyGrabbed, code, mask)
	}
	if r.Keys[g] {
		return fmt.Errorf("%w: duplicate grab of keycode %d mask %s", grab.ErrGrabFailed, code, mask)
	}
	r.Keys[g] = true
	return nil
}

// UngrabKey implements grab.Backend.
func (r *Recorder) UngrabKey(win grab.WindowID, code key.Keycode, mask key.ModMask) error {
	r.UngrabCalls++
	delete(r.Keys, KeyGrab{win, code, mask})
	return nil
}

// GrabButton implements grab.Backend.
func (r *Recorder) GrabButton(win grab.WindowID, button grab.Button, mask key.ModMask) error {
	r.Buttons[ButtonGrab{win, button, mask}] = true
	return nil
}

// UngrabButton implements grab.Backend.
func (r *Recorder) UngrabButton(win grab.WindowID, button grab.Button, mask key.ModMask) error {
	delete(r.Buttons, ButtonGrab{win, button, mask})
	return nil
}

// GrabKeyboard implements grab.Backend.
func (r *Recorder) GrabKeyboard(win grab.WindowID, _ key.Timestamp) error {
	if r.KeyboardErr != nil {
		return r.KeyboardErr
	}
	r.KeyboardGrabbed = win
	return nil
}

// UngrabKeyboard implements grab.Backend.
func (r *Recorder) UngrabKeyboard(_ key.Timestamp) error {
	r.KeyboardGrabbed = 0
	return nil
}

// AllowEvents implements grab.Backend.
func (r *Recorder) AllowEvents(mode grab.AllowMode, t key.Timestamp) error {
	if r.AllowErr != nil {
		return r.AllowErr
	}
	r.Allows = append(r.Allows, Allow{mode, t})
	return nil
}

// KeysOn returns the live key grabs on win, sorted by keycode then mask.
func (r *Recorder) KeysOn(win grab.WindowID) []KeyGrab {
	var out []KeyGrab
	for g := range r.Keys {
		if g.Window == win {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Keycode != out[j].Keycode {
			return out[i].Keycode < out[j].Keycode
		}
		return out[i].Mask < out[j].Mask
	})
	return out
}

// Snapshot returns a copy of the live key grabs.
func (r *Recorder) Snapshot() map[KeyGrab]bool {
	out := make(map[KeyGrab]bool, len(r.Keys))
	for g := range r.Keys {
		out[g] = true
	}
	return out
}

// LastAllow returns the most recent AllowEvents mode, and false if none
// was issued.
func (r *Recorder) LastAllow() (grab.AllowMode, bool) {
	if len(r.Allows) == 0 {
		return 0, false
	}
	return r.Allows[len(r.Allows)-1].Mode, true
}

// ResetAllows forgets recorded AllowEvents calls.
func (r *Recorder) ResetAllows() {
	r.Allows = nil
}
