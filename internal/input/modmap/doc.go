// Package modmap maps abstract modifiers to the physical modifier bits of
// the active keymap and computes the ignored modifier mask.
//
// Shift, Control and Alt always live on the Shift, Control and Mod1 bits.
// Meta, Super, Hyper and ScrollLock move between Mod2 and Mod5 depending on
// the keyboard, so a Translator asks a Source which physical bits each one
// toggles whenever the keymap changes.
package modmap
