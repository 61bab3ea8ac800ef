package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
)

func TestKeymapFromMappingSingleGroup(t *testing.T) {
	// Keycodes 10..12, two keysyms per keycode.
	syms := []xproto.Keysym{
		'1', '!',
		'q', 0,
		0, 0,
	}
	km := keymapFromMapping(10, 12, 2, syms)

	assert.Equal(t, 1, km.NumLayouts())
	lo, hi := km.KeycodeRange()
	assert.Equal(t, key.Keycode(10), lo)
	assert.Equal(t, key.Keycode(12), hi)

	assert.Equal(t, []key.Keysym{'1'}, km.Syms(10, 0, 0))
	assert.Equal(t, []key.Keysym{'!'}, km.Syms(10, 0, 1))

	// A lone lowercase letter gains its uppercase level.
	assert.Equal(t, 2, km.NumLevels(11, 0))
	assert.Equal(t, []key.Keysym{'Q'}, km.Syms(11, 0, 1))

	assert.Equal(t, 0, km.NumLevels(12, 0))
}

func TestKeymapFromMappingTwoGroups(t *testing.T) {
	// US and Cyrillic on keycode 24, US only on 25.
	syms := []xproto.Keysym{
		'q', 'Q', 0x6ca, 0x6ea,
		'w', 'W', 0, 0,
	}
	km := keymapFromMapping(24, 25, 4, syms)

	require.Equal(t, 2, km.NumLayouts())
	assert.Equal(t, []key.Keysym{0x6ca}, km.Syms(24, 1, 0))
	assert.Equal(t, []key.Keysym{'w'}, km.Syms(25, 1, 0), "empty second group repeats the first")
}

func TestKeymapFromMappingThirdLevel(t *testing.T) {
	syms := []xproto.Keysym{'e', 'E', 0, 0, 0x20ac, 0}
	km := keymapFromMapping(26, 26, 6, syms)

	assert.Equal(t, 1, km.NumLayouts())
	assert.Equal(t, 3, km.NumLevels(26, 0))
	assert.Equal(t, []key.Keysym{0x20ac}, km.Syms(26, 0, 2))
}

func TestKeymapFromMappingShortReply(t *testing.T) {
	km := keymapFromMapping(8, 20, 2, []xproto.Keysym{'a', 'A'})
	assert.Equal(t, []key.Keysym{'a'}, km.Syms(8, 0, 0))
	assert.Equal(t, 0, km.NumLevels(9, 0))
}

func TestKeymapFeedsLayoutTable(t *testing.T) {
	syms := []xproto.Keysym{
		'a', 'A',
		0xff09, 0xfe20,
	}
	km := keymapFromMapping(38, 39, 2, syms)

	table := layout.NewTable()
	table.SetActiveLayout(km, 0)
	assert.Equal(t, []key.Keycode{38}, table.KeycodesForKeysym('a'))
	// The primary layout is searched before the US fallback.
	codes := table.KeycodesForKeysym(0xff09)
	require.NotEmpty(t, codes)
	assert.Equal(t, key.Keycode(39), codes[0])
}

func TestSourceFromModmap(t *testing.T) {
	km := layout.NewStaticKeymap(1)
	km.Set(77, 0, key.KeysymFromName("Num_Lock"))
	km.Set(133, 0, key.KeysymSuperL)
	km.Set(134, 0, key.KeysymSuperR)
	km.Set(207, 0, key.KeysymHyperL)
	km.Set(64, 0, 0xffe9, key.KeysymMetaL)

	// Two keycodes per modifier: Shift Lock Control Mod1 Mod2 Mod3 Mod4 Mod5.
	codes := []xproto.Keycode{
		50, 62,
		66, 0,
		37, 105,
		64, 0,
		77, 0,
		0, 0,
		133, 134,
		207, 0,
	}
	src := sourceFromModmap(2, codes, km)

	idx, ok := src.ModIndex(modmap.NameNumLock)
	require.True(t, ok)
	assert.Equal(t, key.ModMask2, src.DepressedMask(idx)&key.ModMaskCore)

	tr := modmap.NewTranslator(zerolog.Nop())
	tr.Reload(src)

	assert.Equal(t, key.ModMask4, tr.Devirtualize(key.VirtualSuper))
	assert.Equal(t, key.ModMask5, tr.Devirtualize(key.VirtualHyper))
	assert.Equal(t, key.ModMask1, tr.Devirtualize(key.VirtualMeta))
	assert.Equal(t, key.ModMask2|key.ModMaskLock, tr.IgnoredMask())
}

func TestSourceFromModmapIgnoresCoreModifiers(t *testing.T) {
	km := layout.NewStaticKeymap(1)
	km.Set(77, 0, key.KeysymFromName("Num_Lock"))

	// Num_Lock placed on Control is not treated as the NumLock modifier.
	codes := []xproto.Keycode{0, 0, 77, 0, 0, 0, 0, 0}
	src := sourceFromModmap(1, codes, km)

	_, ok := src.ModIndex(modmap.NameNumLock)
	assert.False(t, ok)
}
