// Package layout answers which physical keycodes produce a keysym under the
// active keyboard layouts.
//
// A Table holds up to two layout slots. The primary slot tracks the system
// keymap. When the primary layout cannot type every Latin letter at its
// lowest shift level, a US layout is synthesized into the secondary slot so
// accelerators such as "<Control>c" stay bindable under Cyrillic, Greek or
// similar layouts.
package layout
