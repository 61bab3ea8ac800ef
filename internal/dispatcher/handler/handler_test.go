package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

func TestCallbackPrefersOverride(t *testing.T) {
	var got []string
	h := handler.New("test", handler.ActionNone, 0, func(*grab.Window, key.Event, *keymap.Binding, any) {
		got = append(got, "default")
	})
	require.True(t, h.Invoke(nil, key.Event{}, nil))

	h.SetCustom(func(_ *grab.Window, _ key.Event, _ *keymap.Binding, data any) {
		got = append(got, data.(string))
	}, "custom", nil)
	require.True(t, h.Invoke(nil, key.Event{}, nil))

	assert.Equal(t, []string{"default", "custom"}, got)
}

func TestPlaceholderHasNoCallback(t *testing.T) {
	b, ok := handler.LookupBuiltin(handler.NameOverlayKey)
	require.True(t, ok)
	h := handler.FromBuiltin(b, nil)
	assert.False(t, h.HasCallback())
	assert.False(t, h.Invoke(nil, key.Event{}, nil))
	assert.True(t, h.Flags.Has(keymap.FlagNoAutoGrab))
}

func TestInvokePassesWindowOnlyWhenPerWindow(t *testing.T) {
	w := grab.NewWindow(7)
	var seen *grab.Window
	fn := func(win *grab.Window, _ key.Event, _ *keymap.Binding, _ any) { seen = win }

	handler.New("global", handler.ActionShowDesktop, 0, fn).Invoke(w, key.Event{}, nil)
	assert.Nil(t, seen)

	handler.New("close", handler.ActionClose, keymap.FlagPerWindow, fn).Invoke(w, key.Event{}, nil)
	assert.Same(t, w, seen)
}

func TestSetCustomDestroysPreviousData(t *testing.T) {
	var destroyed []any
	destroy := func(d any) { destroyed = append(destroyed, d) }

	h := handler.New("test", handler.ActionNone, 0, nil)
	h.SetCustom(nil, 1, destroy)
	h.SetCustom(nil, 2, destroy)
	h.Close()

	assert.Equal(t, []any{1, 2}, destroyed)
}

func TestBuiltinTable(t *testing.T) {
	b, ok := handler.LookupBuiltin("switch-windows-backward")
	require.True(t, ok)
	assert.True(t, b.Flags.Has(keymap.FlagReverses|keymap.FlagIsReversed|keymap.FlagBuiltin))

	b, ok = handler.LookupBuiltin("close")
	require.True(t, ok)
	assert.True(t, b.Flags.Has(keymap.FlagPerWindow))

	b, ok = handler.LookupBuiltin("switch-to-workspace-12")
	require.True(t, ok)
	assert.Equal(t, handler.ActionWorkspace12, b.Action)

	_, ok = handler.LookupBuiltin("nope")
	assert.False(t, ok)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "none", handler.ActionNone.String())
	assert.Equal(t, "move-to-workspace-3", handler.ActionMoveToWorkspace3.String())
	assert.Equal(t, "external-grab-2", (handler.ActionLast + 2).String())
	assert.True(t, (handler.ActionLast + 1).IsExternal())
	assert.False(t, handler.ActionClose.IsExternal())
}
