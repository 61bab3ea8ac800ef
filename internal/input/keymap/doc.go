// Package keymap resolves accelerators to physical keys and indexes the
// resulting bindings for constant-time lookup.
//
// # Key Concepts
//
// Binding: a named accelerator owned by a handler, with its flags and the
// ResolvedCombo computed for the current layouts.
//
// ResolvedCombo: the ordered, duplicate-free keycodes that produce a combo
// plus one physical modifier mask.
//
// Index: a map from packed (keycode, mask) keys to bindings. It is cleared
// and refilled on every reload; it is never patched incrementally.
//
// # Collision Precedence
//
// A keycode is "primary" for a binding when it comes first in the
// binding's ResolvedCombo. When two bindings land on the same packed key:
//
//  1. A primary keycode replaces a non-primary entry.
//  2. A non-primary keycode never replaces an existing entry.
//  3. Two primary keycodes are a configuration conflict: the later
//     binding wins and a warning is logged.
package keymap
