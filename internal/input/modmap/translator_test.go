package modmap

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/dshills/wmkeys/internal/input/key"
)

func TestIgnoredMaskDefaults(t *testing.T) {
	tr := NewTranslator(zerolog.Nop())
	assert.Equal(t, key.ModMask2|key.ModMaskLock, tr.IgnoredMask())
}

func TestReloadIncludesScrollLock(t *testing.T) {
	tr := NewTranslator(zerolog.Nop())
	tr.Reload(NewStaticSource(map[string]key.ModMask{
		NameScrollLock: key.ModMask3,
		NameSuper:      key.ModMask4,
	}))

	assert.Equal(t, key.ModMask3|key.ModMask2|key.ModMaskLock, tr.IgnoredMask())
	assert.Equal(t, key.ModMask4, tr.SuperMask())
	assert.Equal(t, key.ModMaskNone, tr.HyperMask())
}

func TestDevirtualize(t *testing.T) {
	tr := NewTranslator(zerolog.Nop())
	tr.Reload(DefaultSource())

	tests := []struct {
		mods key.VirtualModifier
		want key.ModMask
	}{
		{key.VirtualNone, key.ModMaskNone},
		{key.VirtualControl | key.VirtualAlt, key.ModMaskControl | key.ModMask1},
		{key.VirtualShift, key.ModMaskShift},
		{key.VirtualSuper, key.ModMask4},
		{key.VirtualHyper | key.VirtualSuper, key.ModMask4},
		{key.VirtualMeta, key.ModMask1},
		{key.VirtualMod3 | key.VirtualMod5, key.ModMask3 | key.ModMask5},
		{key.VirtualMod2, key.ModMask2},
	}

	for _, tt := range tests {
		t.Run(tt.mods.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Devirtualize(tt.mods))
		})
	}
}

func TestDevirtualizeFollowsLayout(t *testing.T) {
	tr := NewTranslator(zerolog.Nop())
	tr.Reload(NewStaticSource(map[string]key.ModMask{NameSuper: key.ModMask4}))
	assert.Equal(t, key.ModMask4, tr.Devirtualize(key.VirtualSuper))

	tr.Reload(NewStaticSource(map[string]key.ModMask{}))
	assert.Equal(t, key.ModMaskNone, tr.Devirtualize(key.VirtualSuper))
}

func TestStaticSourceExcludesOwnBit(t *testing.T) {
	src := NewStaticSource(map[string]key.ModMask{NameMeta: key.ModMask1})
	idx, ok := src.ModIndex(NameMeta)
	assert.True(t, ok)
	assert.Equal(t, IndexBit(idx)|key.ModMask1, src.DepressedMask(idx))
	assert.Equal(t, key.ModMask1, physicalBits(src, NameMeta))

	_, ok = src.ModIndex(NameHyper)
	assert.False(t, ok)
	assert.Equal(t, key.ModMaskNone, physicalBits(nil, NameHyper))
}
