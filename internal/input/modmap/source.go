package modmap

import "github.com/dshills/wmkeys/internal/input/key"

// Virtual modifier names queried from a Source.
const (
	NameScrollLock = "ScrollLock"
	NameMeta       = "Meta"
	NameHyper      = "Hyper"
	NameSuper      = "Super"
	NameNumLock    = "NumLock"
)

// Source describes the modifier mapping of a keymap.
type Source interface {
	// ModIndex returns the modifier index for a virtual modifier name.
	ModIndex(name string) (int, bool)

	// DepressedMask returns the modifier mask produced by a keyboard state in
	// which only the modifier at idx is active. The result includes the bit
	// for idx itself.
	DepressedMask(idx int) key.ModMask
}

// StaticSource is a Source built from a fixed name-to-bits table. Virtual
// modifiers are numbered after the eight core modifiers.
type StaticSource struct {
	names []string
	masks []key.ModMask
}

// NewStaticSource creates a source mapping each name to the physical bits it
// toggles.
func NewStaticSource(mapping map[string]key.ModMask) *StaticSource {
	s := &StaticSource{}
	for _, name := range []string{NameScrollLock, NameMeta, NameHyper, NameSuper, NameNumLock} {
		if mask, ok := mapping[name]; ok {
			s.Add(name, mask)
		}
	}
	return s
}

// DefaultSource returns the mapping of a common PC keyboard: NumLock on
// Mod2, Alt and Meta on Mod1, Super and Hyper on Mod4.
func DefaultSource() *StaticSource {
	return NewStaticSource(map[string]key.ModMask{
		NameNumLock: key.ModMask2,
		NameMeta:    key.ModMask1,
		NameSuper:   key.ModMask4,
		NameHyper:   key.ModMask4,
	})
}

// Add registers or replaces a virtual modifier.
func (s *StaticSource) Add(name string, mask key.ModMask) {
	for i, n := range s.names {
		if n == name {
			s.masks[i] = mask
			return
		}
	}
	s.names = append(s.names, name)
	s.masks = append(s.masks, mask)
}

// ModIndex implements Source.
func (s *StaticSource) ModIndex(name string) (int, bool) {
	for i, n := range s.names {
		if n == name {
			return virtualBase + i, true
		}
	}
	return 0, false
}

// DepressedMask implements Source.
func (s *StaticSource) DepressedMask(idx int) key.ModMask {
	i := idx - virtualBase
	if i < 0 || i >= len(s.masks) {
		return 0
	}
	return IndexBit(idx) | s.masks[i]
}

// virtualBase is the first index used for virtual modifiers.
const virtualBase = 8

// IndexBit returns the mask bit for modifier index idx.
func IndexBit(idx int) key.ModMask {
	if idx < 0 || idx >= 32 {
		return 0
	}
	return key.ModMask(1) << uint(idx)
}
