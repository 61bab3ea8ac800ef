package layout

import (
	"slices"

	"github.com/dshills/wmkeys/internal/input/key"
)

// Layout is one active layout slot.
type Layout struct {
	Keymap Keymap
	Index  int
	Levels int
}

// newLayout builds a slot, computing the largest level count over all keys.
func newLayout(km Keymap, index int) *Layout {
	l := &Layout{Keymap: km, Index: index}
	lo, hi := km.KeycodeRange()
	for code := lo; code <= hi; code++ {
		if n := km.NumLevels(code, index); n > l.Levels {
			l.Levels = n
		}
	}
	return l
}

// Table tracks the primary and optional secondary layout.
//
// A Table is not safe for concurrent use.
type Table struct {
	primary   *Layout
	secondary *Layout
	us        Keymap
}

// NewTable creates a table with no active layout.
func NewTable() *Table {
	return &Table{us: USKeymap()}
}

// SetActiveLayout replaces the primary layout with layout index of km and
// recomputes whether the US fallback is needed. An index outside the keymap
// wraps around; a nil keymap clears both slots.
func (t *Table) SetActiveLayout(km Keymap, index int) {
	t.primary = nil
	t.secondary = nil
	if km == nil {
		return
	}
	if n := km.NumLayouts(); n > 0 {
		index = ((index % n) + n) % n
	}

	t.primary = newLayout(km, index)
	if NeedsSecondaryLayout(t.primary) {
		t.secondary = newLayout(t.us, 0)
	}
}

// Primary returns the primary slot, or nil before the first layout is set.
func (t *Table) Primary() *Layout {
	return t.primary
}

// Secondary returns the US fallback slot, or nil when it is not needed.
func (t *Table) Secondary() *Layout {
	return t.secondary
}

// Ready reports whether a layout is active.
func (t *Table) Ready() bool {
	return t.primary != nil
}

// NeedsSecondaryLayout reports whether any of the 26 lowercase Latin letters
// is missing from level 0 of l.
func NeedsSecondaryLayout(l *Layout) bool {
	if l == nil || l.Keymap == nil {
		return false
	}
	var seen [26]bool
	missing := len(seen)

	lo, hi := l.Keymap.KeycodeRange()
	for code := lo; code <= hi && missing > 0; code++ {
		for _, sym := range l.Keymap.Syms(code, l.Index, 0) {
			if sym >= 'a' && sym <= 'z' && !seen[sym-'a'] {
				seen[sym-'a'] = true
				missing--
			}
		}
	}
	return missing > 0
}

// slots returns the active layouts, primary first.
func (t *Table) slots() []*Layout {
	switch {
	case t.primary == nil:
		return nil
	case t.secondary == nil:
		return []*Layout{t.primary}
	default:
		return []*Layout{t.primary, t.secondary}
	}
}

// KeycodesForKeysym returns the keycodes producing sym, in ascending order
// per slot and without duplicates.
//
// Within a slot, levels are searched from 0 upward and the search stops at
// the first level with any match. The result is empty when no layout is
// active.
func (t *Table) KeycodesForKeysym(sym key.Keysym) []key.Keycode {
	if sym == key.KeysymAboveTab {
		return []key.Keycode{key.KeycodeAboveTab}
	}

	var codes []key.Keycode
	for _, slot := range t.slots() {
		lo, hi := slot.Keymap.KeycodeRange()
		for level := 0; level < slot.Levels; level++ {
			found := false
			for code := lo; code <= hi; code++ {
				if !slices.Contains(slot.Keymap.Syms(code, slot.Index, level), sym) {
					continue
				}
				found = true
				if !slices.Contains(codes, code) {
					codes = append(codes, code)
				}
			}
			if found {
				break
			}
		}
	}
	return codes
}
