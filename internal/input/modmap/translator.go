package modmap

import (
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/input/key"
)

// Translator holds the physical bits of the layout-dependent modifiers.
type Translator struct {
	scrollLock key.ModMask
	meta       key.ModMask
	hyper      key.ModMask
	super      key.ModMask
	ignored    key.ModMask

	logger zerolog.Logger
}

// NewTranslator creates a translator with no layout-dependent modifiers.
func NewTranslator(logger zerolog.Logger) *Translator {
	t := &Translator{logger: logger.With().Str("component", "modmap").Logger()}
	t.ignored = t.computeIgnored()
	return t
}

// Reload recomputes every layout-dependent mask from src.
func (t *Translator) Reload(src Source) {
	t.scrollLock = physicalBits(src, NameScrollLock)
	t.meta = physicalBits(src, NameMeta)
	t.hyper = physicalBits(src, NameHyper)
	t.super = physicalBits(src, NameSuper)
	t.ignored = t.computeIgnored()

	t.logger.Debug().
		Stringer("ignored", t.ignored).
		Stringer("scroll_lock", t.scrollLock).
		Stringer("hyper", t.hyper).
		Stringer("super", t.super).
		Stringer("meta", t.meta).
		Msg("reloaded modifier mapping")
}

// physicalBits activates only the named modifier and returns the physical
// bits it depresses, excluding the modifier's own bit. A missing modifier
// yields zero.
func physicalBits(src Source, name string) key.ModMask {
	if src == nil {
		return 0
	}
	idx, ok := src.ModIndex(name)
	if !ok {
		return 0
	}
	return (src.DepressedMask(idx) &^ IndexBit(idx)) & key.ModMaskCore
}

func (t *Translator) computeIgnored() key.ModMask {
	return t.scrollLock | key.ModMask2 | key.ModMaskLock
}

// IgnoredMask returns the bits that never take part in matching or grabbing.
func (t *Translator) IgnoredMask() key.ModMask {
	return t.ignored
}

// SuperMask returns the physical bits of Super.
func (t *Translator) SuperMask() key.ModMask { return t.super }

// HyperMask returns the physical bits of Hyper.
func (t *Translator) HyperMask() key.ModMask { return t.hyper }

// MetaMask returns the physical bits of Meta.
func (t *Translator) MetaMask() key.ModMask { return t.meta }

// Devirtualize converts an abstract modifier set into a physical mask.
func (t *Translator) Devirtualize(mods key.VirtualModifier) key.ModMask {
	var mask key.ModMask
	if mods.Has(key.VirtualShift) {
		mask |= key.ModMaskShift
	}
	if mods.Has(key.VirtualControl) {
		mask |= key.ModMaskControl
	}
	if mods.Has(key.VirtualAlt) {
		mask |= key.ModMask1
	}
	if mods.Has(key.VirtualMeta) {
		mask |= t.meta
	}
	if mods.Has(key.VirtualHyper) {
		mask |= t.hyper
	}
	if mods.Has(key.VirtualSuper) {
		mask |= t.super
	}
	if mods.Has(key.VirtualMod2) {
		mask |= key.ModMask2
	}
	if mods.Has(key.VirtualMod3) {
		mask |= key.ModMask3
	}
	if mods.Has(key.VirtualMod4) {
		mask |= key.ModMask4
	}
	if mods.Has(key.VirtualMod5) {
		mask |= key.ModMask5
	}
	return mask
}
