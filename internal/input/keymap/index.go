package keymap

import (
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/input/key"
)

// PackKey combines a keycode and a mask into one index key.
func PackKey(code key.Keycode, mask key.ModMask) uint32 {
	return (uint32(code)&0xffff)<<16 | uint32(mask)&0xffff
}

type indexEntry struct {
	binding *Binding
	primary bool
}

// Index maps packed (keycode, mask) keys to bindings.
//
// An Index is not safe for concurrent use.
type Index struct {
	entries map[uint32]indexEntry
	ignored key.ModMask
	logger  zerolog.Logger
}

// NewIndex creates an empty index.
func NewIndex(logger zerolog.Logger) *Index {
	return &Index{
		entries: make(map[uint32]indexEntry),
		logger:  logger.With().Str("component", "index").Logger(),
	}
}

// SetIgnoredMask sets the bits stripped from masks before lookup.
func (x *Index) SetIgnoredMask(mask key.ModMask) {
	x.ignored = mask
}

// IgnoredMask returns the bits stripped from masks before lookup.
func (x *Index) IgnoredMask() key.ModMask {
	return x.ignored
}

// Add inserts one entry per keycode of b's resolved combo. A binding with an
// empty resolved combo is skipped.
func (x *Index) Add(b *Binding) {
	for i, code := range b.Resolved.Keycodes {
		k := PackKey(code, b.Resolved.Mask)
		existing, ok := x.entries[k]
		if ok {
			switch {
			case i > 0:
				x.logger.Debug().
					Str("binding", b.Name).
					Str("kept", existing.binding.Name).
					Uint32("keycode", uint32(code)).
					Stringer("mask", b.Resolved.Mask).
					Msg("secondary keycode already bound")
				continue
			case existing.primary && existing.binding != b:
				x.logger.Warn().
					Str("binding", b.Name).
					Str("replaced", existing.binding.Name).
					Uint32("keycode", uint32(code)).
					Stringer("mask", b.Resolved.Mask).
					Msg("overriding keybinding")
			}
		}
		x.entries[k] = indexEntry{binding: b, primary: i == 0}
	}
}

// Remove drops every entry that points at b.
func (x *Index) Remove(b *Binding) {
	for k, e := range x.entries {
		if e.binding == b {
			delete(x.entries, k)
		}
	}
}

// Clear removes all entries.
func (x *Index) Clear() {
	clear(x.entries)
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Get returns the binding stored for an exact keycode and mask, without
// stripping ignored bits.
func (x *Index) Get(code key.Keycode, mask key.ModMask) *Binding {
	if e, ok := x.entries[PackKey(code, mask)]; ok {
		return e.binding
	}
	return nil
}

// Lookup strips the ignored bits from rc's mask and probes each keycode in
// turn. The first hit wins.
func (x *Index) Lookup(rc ResolvedCombo) *Binding {
	mask := rc.Mask &^ x.ignored
	for _, code := range rc.Keycodes {
		if b := x.Get(code, mask); b != nil {
			return b
		}
	}
	return nil
}

// LookupKey is Lookup for a single pressed keycode.
func (x *Index) LookupKey(code key.Keycode, mask key.ModMask) *Binding {
	return x.Lookup(ResolvedCombo{Keycodes: []key.Keycode{code}, Mask: mask})
}

// Bindings calls fn once for every distinct binding in the index.
func (x *Index) Bindings(fn func(*Binding)) {
	seen := make(map[*Binding]bool, len(x.entries))
	for _, e := range x.entries {
		if !seen[e.binding] {
			seen[e.binding] = true
			fn(e.binding)
		}
	}
}
