// Package dispatcher is the single entry point for raw key events.
//
// ProcessKeyEvent runs, in order and stopping at the first path that
// handles the event:
//
//  1. The overlay key, locate-pointer key and ISO next group checks,
//     unless the target holds an exclusive keyboard grab.
//  2. Unfreezing the keyboard.
//  3. The keyboard grab handler, when an exclusive grab is held.
//  4. A binding index lookup followed by the scope, callback, inhibition,
//     filter and autorepeat checks, then the handler itself.
//
// Release events only ever reach the special key machines.
package dispatcher
