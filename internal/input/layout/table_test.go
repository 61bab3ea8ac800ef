package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wmkeys/internal/input/key"
)

// latinKeymap returns a one-layout keymap holding every Latin letter on
// consecutive keycodes starting at 10, with 't' moved to 23.
func latinKeymap() *StaticKeymap {
	m := NewStaticKeymap(1)
	code := key.Keycode(30)
	for r := 'a'; r <= 'z'; r++ {
		if r == 't' {
			m.Set(23, 0, 't', 'T')
			continue
		}
		m.Set(code, 0, key.Keysym(r), key.Keysym(r-'a'+'A'))
		code++
	}
	return m
}

// cyrillicKeymap returns a keymap whose level 0 holds only Cyrillic letters.
func cyrillicKeymap() *StaticKeymap {
	m := NewStaticKeymap(1)
	m.Set(28, 0, key.KeysymFromRune('е'), key.KeysymFromRune('Е'))
	m.Set(24, 0, key.KeysymFromRune('й'), key.KeysymFromRune('Й'))
	m.Set(49, 0, '`', '~')
	return m
}

func TestKeycodesForKeysymNoLayout(t *testing.T) {
	tbl := NewTable()
	assert.False(t, tbl.Ready())
	assert.Empty(t, tbl.KeycodesForKeysym('t'))
}

func TestKeycodesForKeysymPrimary(t *testing.T) {
	tbl := NewTable()
	tbl.SetActiveLayout(latinKeymap(), 0)

	require.True(t, tbl.Ready())
	assert.Nil(t, tbl.Secondary())
	assert.Equal(t, 2, tbl.Primary().Levels)
	assert.Equal(t, []key.Keycode{23}, tbl.KeycodesForKeysym('t'))
	assert.Equal(t, []key.Keycode{23}, tbl.KeycodesForKeysym('T'))
}

func TestKeycodesForKeysymLevelShortCircuit(t *testing.T) {
	m := NewStaticKeymap(1)
	for r := 'a'; r <= 'z'; r++ {
		m.Set(key.Keycode(20+r-'a'), 0, key.Keysym(r))
	}
	// '1' at level 0 on 60, and at level 1 on 70; only level 0 counts.
	m.Set(60, 0, '1')
	m.Set(70, 0, 0xffbe, '1')

	tbl := NewTable()
	tbl.SetActiveLayout(m, 0)
	assert.Equal(t, []key.Keycode{60}, tbl.KeycodesForKeysym('1'))

	// Reached only at level 1.
	m.Set(80, 0, '2', '@')
	tbl.SetActiveLayout(m, 0)
	assert.Equal(t, []key.Keycode{80}, tbl.KeycodesForKeysym('@'))
}

func TestKeycodesForKeysymMultipleCodes(t *testing.T) {
	tbl := NewTable()
	tbl.SetActiveLayout(USKeymap(), 0)

	assert.Equal(t, []key.Keycode{50, 62}, append(
		tbl.KeycodesForKeysym(key.KeysymShiftL),
		tbl.KeycodesForKeysym(key.KeysymShiftR)...))
}

func TestSecondaryLayout(t *testing.T) {
	tbl := NewTable()
	tbl.SetActiveLayout(cyrillicKeymap(), 0)

	require.NotNil(t, tbl.Secondary())
	assert.True(t, NeedsSecondaryLayout(tbl.Primary()))

	// 't' only exists in the US fallback.
	assert.Equal(t, []key.Keycode{28}, tbl.KeycodesForKeysym('t'))
	// 'е' comes from the primary layout.
	assert.Equal(t, []key.Keycode{28}, tbl.KeycodesForKeysym(key.KeysymFromRune('е')))
	// grave is on 49 in both slots and is reported once.
	assert.Equal(t, []key.Keycode{49}, tbl.KeycodesForKeysym('`'))
}

func TestNeedsSecondaryLayout(t *testing.T) {
	assert.False(t, NeedsSecondaryLayout(newLayout(USKeymap(), 0)))
	assert.False(t, NeedsSecondaryLayout(newLayout(latinKeymap(), 0)))
	assert.True(t, NeedsSecondaryLayout(newLayout(cyrillicKeymap(), 0)))
	assert.False(t, NeedsSecondaryLayout(nil))
}

func TestAboveTab(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, []key.Keycode{49}, tbl.KeycodesForKeysym(key.KeysymAboveTab))
}

func TestSetActiveLayoutIndex(t *testing.T) {
	m := NewStaticKeymap(2)
	for r := 'a'; r <= 'z'; r++ {
		m.Set(key.Keycode(20+r-'a'), 0, key.Keysym(r))
		m.Set(key.Keycode(20+r-'a'), 1, key.Keysym(r))
	}
	m.Set(100, 1, 0xffbe, 0xffbf, 0xffc0)

	tbl := NewTable()
	tbl.SetActiveLayout(m, 3)
	assert.Equal(t, 1, tbl.Primary().Index)
	assert.Equal(t, 3, tbl.Primary().Levels)

	tbl.SetActiveLayout(nil, 0)
	assert.False(t, tbl.Ready())
}

func TestResolutionIsStable(t *testing.T) {
	tbl := NewTable()
	tbl.SetActiveLayout(cyrillicKeymap(), 0)
	first := tbl.KeycodesForKeysym('q')
	second := tbl.KeycodesForKeysym('q')
	assert.Equal(t, first, second)
}
