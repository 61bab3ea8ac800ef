package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/grab/grabtest"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
	"github.com/dshills/wmkeys/internal/input/layout"
)

const (
	usT      key.Keycode = 28
	usA      key.Keycode = 38
	usSuperL key.Keycode = 133
	root     grab.WindowID = 1
)

// testKeymap puts t on keycode 23 and every other Latin letter elsewhere,
// so no fallback layout is needed.
func testKeymap() *layout.StaticKeymap {
	km := layout.NewStaticKeymap(1)
	for r := 'a'; r <= 'z'; r++ {
		code := key.Keycode(40 + r - 'a')
		if r == 't' {
			code = 23
		}
		km.Set(code, 0, key.KeysymFromRune(r), key.KeysymFromRune(r-'a'+'A'))
	}
	return km
}

type recorder struct {
	calls   map[string]int
	windows map[string]*grab.Window
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[string]int), windows: make(map[string]*grab.Window)}
}

func (r *recorder) fn(name string) handler.Func {
	return func(win *grab.Window, _ key.Event, _ *keymap.Binding, _ any) {
		r.calls[name]++
		r.windows[name] = win
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *grabtest.Recorder) {
	t.Helper()
	rec := grabtest.New()
	e := New(rec, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
	e.SetSpecialPrefs(SpecialPrefs{})
	e.Reload(nil, 0, nil)
	return e, rec
}

func TestConcreteScenario(t *testing.T) {
	e, rec := newTestEngine(t)
	e.Reload(testKeymap(), 0, nil)
	calls := newRecorder()
	require.NoError(t, e.AddKeybinding("test", []string{"<Control><Alt>t"}, 0, calls.fn("test"), nil, nil))

	b := e.Binding("test")
	require.NotNil(t, b)
	assert.Equal(t, []key.Keycode{23}, b.Resolved.Keycodes)
	assert.Equal(t, key.ModMaskControl|key.ModMask1, b.Resolved.Mask)
	assert.Nil(t, e.Layouts().Secondary())

	handled := e.ProcessKeyEvent(root, key.NewPress(23, key.ModMaskControl|key.ModMask1|key.ModMaskLock, 10))
	assert.True(t, handled)
	assert.Equal(t, 1, calls.calls["test"])

	// One grab per ignored-modifier variant.
	assert.Len(t, rec.KeysOn(root), 4)
}

func TestSetPreferencesUsesBuiltins(t *testing.T) {
	calls := newRecorder()
	e, rec := newTestEngine(t, WithBuiltinHandler(func(_ *grab.Window, _ key.Event, b *keymap.Binding, _ any) {
		calls.calls[b.Name]++
	}))

	e.SetPreferences([]Pref{
		{Name: "show-desktop", Accelerators: []string{"<Super>d"}},
		{Name: "no-such-action", Accelerators: []string{"<Super>x"}},
		{Name: "switch-to-workspace-1", Accelerators: []string{"<Bogus>1", "disabled"}},
	})

	require.Len(t, e.Bindings(), 1)
	assert.Equal(t, handler.ActionShowDesktop, e.ActionFor(40, key.ModMask4|key.ModMask2))
	assert.NotEmpty(t, rec.KeysOn(root))

	assert.True(t, e.ProcessKeyEvent(root, key.NewPress(40, key.ModMask4, 1)))
	assert.Equal(t, 1, calls.calls["show-desktop"])
}

func TestReversibleBindings(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SetPreferences([]Pref{
		{Name: "switch-windows", Accelerators: []string{"<Alt>Tab", "Tab", "<Shift>Tab"}},
	})

	bindings := e.Bindings()
	require.Len(t, bindings, 2, "bare and Shift-only accelerators are rejected")
	assert.Equal(t, key.ModMask1, bindings[0].Resolved.Mask)
	assert.Equal(t, key.ModMask1|key.ModMaskShift, bindings[1].Resolved.Mask)
	assert.False(t, bindings[0].IsReversed())
	assert.True(t, bindings[1].IsReversed())
	assert.Equal(t, handler.ActionSwitchWindows, e.ActionFor(23, key.ModMask1|key.ModMaskShift))
}

func TestRebuildRegrabs(t *testing.T) {
	e, rec := newTestEngine(t)
	calls := newRecorder()
	require.NoError(t, e.AddKeybinding("run", []string{"<Alt>F2"}, 0, calls.fn("run"), nil, nil))
	before := rec.Snapshot()

	e.Rebuild()
	assert.Equal(t, before, rec.Snapshot())

	require.NoError(t, e.RemoveKeybinding("run"))
	assert.Empty(t, rec.KeysOn(root))
	assert.ErrorIs(t, e.RemoveKeybinding("run"), ErrUnknownHandler)
	assert.ErrorIs(t, e.RemoveKeybinding("show-desktop"), ErrNotRemovable)
}

func TestRebuildDuringExclusiveGrab(t *testing.T) {
	e, rec := newTestEngine(t)
	e.Reload(testKeymap(), 0, nil)
	calls := newRecorder()
	require.NoError(t, e.AddKeybinding("old", []string{"<Control>t"}, 0, calls.fn("old"), nil, nil))
	require.True(t, e.GrabAllKeys(0, 1))

	require.NoError(t, e.RemoveKeybinding("old"))
	require.NoError(t, e.AddKeybinding("new", []string{"<Control>a"}, 0, calls.fn("new"), nil, nil))
	e.UngrabAllKeys(0, 2)

	assert.False(t, rec.Keys[grabtest.KeyGrab{Window: root, Keycode: 23, Mask: key.ModMaskControl}])
	assert.True(t, rec.Keys[grabtest.KeyGrab{Window: root, Keycode: 40, Mask: key.ModMaskControl}])
}

func TestReloadWhileDispatchingIsDeferred(t *testing.T) {
	e, _ := newTestEngine(t)
	calls := newRecorder()

	var pendingInside bool
	require.NoError(t, e.AddKeybinding("reload", []string{"<Super>r"}, 0, func(*grab.Window, key.Event, *keymap.Binding, any) {
		e.SetPreferences(append(e.Preferences(), Pref{Name: "other", Accelerators: []string{"<Super>o"}}))
		pendingInside = e.Pending()
	}, nil, nil))
	require.NoError(t, e.AddKeybinding("other", nil, 0, calls.fn("other"), nil, nil))

	codeR := e.Binding("reload").Resolved.Keycodes[0]
	assert.True(t, e.ProcessKeyEvent(root, key.NewPress(codeR, key.ModMask4, 1)))
	assert.True(t, pendingInside)
	assert.True(t, e.Pending())
	assert.Nil(t, e.Binding("other"))

	e.RunDeferred()
	assert.False(t, e.Pending())
	require.NotNil(t, e.Binding("other"))
}

func TestPerWindowBindings(t *testing.T) {
	e, rec := newTestEngine(t)
	calls := newRecorder()
	e.SetPreferences([]Pref{{Name: "close", Accelerators: []string{"<Alt>F4"}}})
	require.NoError(t, e.SetCustomHandler("close", calls.fn("close"), nil, nil))

	w := grab.NewWindow(100)
	e.Manage(w)
	assert.Empty(t, rec.KeysOn(root))
	assert.Len(t, rec.KeysOn(100), 4)

	require.NoError(t, e.SetWindowFrame(100, 200))
	assert.Empty(t, rec.KeysOn(100))
	assert.Len(t, rec.KeysOn(200), 4)
	assert.Same(t, w, e.Window(200))

	f4 := e.Binding("close").Resolved.Keycodes[0]
	assert.False(t, e.ProcessKeyEvent(root, key.NewPress(f4, key.ModMask1, 1)))
	assert.True(t, e.ProcessKeyEvent(200, key.NewPress(f4, key.ModMask1, 2)))
	assert.Equal(t, 1, calls.calls["close"])
	assert.Same(t, w, calls.windows["close"])

	e.Unmanage(100)
	assert.Empty(t, rec.KeysOn(200))
	assert.Nil(t, e.Window(200))
	assert.ErrorIs(t, e.SetWindowFrame(100, 0), ErrUnknownWindow)
}

func TestWindowButtons(t *testing.T) {
	e, rec := newTestEngine(t)
	e.SetSpecialPrefs(SpecialPrefs{MouseButtonModifier: "<Super>"})

	w := grab.NewWindow(100)
	e.Manage(w)
	assert.True(t, rec.Buttons[grabtest.ButtonGrab{Window: 100, Button: 1, Mask: key.ModMask4}])
	assert.True(t, rec.Buttons[grabtest.ButtonGrab{Window: 100, Button: 1, Mask: key.ModMask4 | key.ModMaskShift}])
	assert.True(t, w.HasFocusClickGrab())

	e.SetFocusWindow(100)
	assert.False(t, w.HasFocusClickGrab())
	assert.Same(t, w, e.FocusWindow())
}

func TestExternalGrabs(t *testing.T) {
	type activation struct {
		action handler.Action
		time   key.Timestamp
	}
	var got []activation
	e, rec := newTestEngine(t, WithAcceleratorListener(func(a handler.Action, _ key.DeviceID, ts key.Timestamp) {
		got = append(got, activation{a, ts})
	}))
	e.SetPreferences([]Pref{{Name: "show-desktop", Accelerators: []string{"<Super>d"}}})

	assert.Equal(t, handler.ActionNone, e.GrabAccelerator("<Super>d", 0), "already bound")
	assert.Equal(t, handler.ActionNone, e.GrabAccelerator("<Super", 0), "parse error")
	assert.Equal(t, handler.ActionNone, e.GrabAccelerator("", 0), "no key")

	action := e.GrabAccelerator("<Control><Alt>a", 0)
	require.NotEqual(t, handler.ActionNone, action)
	assert.Greater(t, action, handler.ActionLast)
	assert.Equal(t, "external-grab-1", action.String())
	assert.Len(t, rec.KeysOn(root), 8)

	assert.Equal(t, action, e.ActionFor(usA, key.ModMaskControl|key.ModMask1))
	assert.True(t, e.ProcessKeyEvent(root, key.NewPress(usA, key.ModMaskControl|key.ModMask1, 42)))
	assert.Equal(t, []activation{{action, 42}}, got)

	// External grabs survive a rebuild.
	e.Rebuild()
	assert.Equal(t, action, e.ActionFor(usA, key.ModMaskControl|key.ModMask1))

	assert.True(t, e.UngrabAccelerator(action))
	assert.False(t, e.UngrabAccelerator(action))
	assert.Equal(t, handler.ActionNone, e.ActionFor(usA, key.ModMaskControl|key.ModMask1))
	assert.Len(t, rec.KeysOn(root), 4)
}

func TestInvokeByCode(t *testing.T) {
	e, _ := newTestEngine(t)
	calls := newRecorder()
	require.NoError(t, e.AddKeybinding("run", []string{"<Alt>t"}, 0, calls.fn("run"), nil, nil))

	assert.True(t, e.InvokeByCode(usT, key.ModMask1|key.ModMaskLock))
	assert.False(t, e.InvokeByCode(usT, key.ModMaskControl))
	assert.Equal(t, 1, calls.calls["run"])
}

func TestOverlayKey(t *testing.T) {
	e, rec := newTestEngine(t)
	calls := newRecorder()
	e.SetSpecialPrefs(DefaultSpecialPrefs())
	require.NoError(t, e.SetCustomHandler(handler.NameOverlayKey, calls.fn("overlay"), nil, nil))
	require.NoError(t, e.AddKeybinding("run", []string{"<Super>t"}, 0, calls.fn("run"), nil, nil))

	assert.True(t, e.IsOverlayKey(usSuperL, key.ModMask2))
	assert.False(t, e.IsOverlayKey(usSuperL, key.ModMaskControl))
	assert.Contains(t, rec.KeysOn(root), grabtest.KeyGrab{Window: root, Keycode: usSuperL, Mask: 0})

	e.ProcessKeyEvent(root, key.NewPress(usSuperL, 0, 1))
	e.ProcessKeyEvent(root, key.NewRelease(usSuperL, key.ModMask4, 2))
	assert.Equal(t, 1, calls.calls["overlay"])
	assert.Zero(t, calls.calls["run"])

	e.ProcessKeyEvent(root, key.NewPress(usSuperL, 0, 3))
	e.ProcessKeyEvent(root, key.NewPress(usT, key.ModMask4, 4))
	e.ProcessKeyEvent(root, key.NewRelease(usT, key.ModMask4, 5))
	e.ProcessKeyEvent(root, key.NewRelease(usSuperL, key.ModMask4, 6))
	assert.Equal(t, 1, calls.calls["overlay"])
	assert.Equal(t, 1, calls.calls["run"])

	e.ProcessKeyEvent(root, key.NewPress(usSuperL, 0, 7))
	e.ProcessPointerEvent()
	e.ProcessKeyEvent(root, key.NewRelease(usSuperL, key.ModMask4, 8))
	assert.Equal(t, 1, calls.calls["overlay"])
}

func TestDisabledKeybindings(t *testing.T) {
	e, rec := newTestEngine(t)
	calls := newRecorder()
	require.NoError(t, e.AddKeybinding("run", []string{"<Alt>t"}, 0, calls.fn("run"), nil, nil))
	e.SetKeybindingsDisabled(true)
	rec.ResetAllows()

	assert.False(t, e.ProcessKeyEvent(root, key.NewPress(usT, key.ModMask1, 1)))
	mode, ok := rec.LastAllow()
	require.True(t, ok)
	assert.Equal(t, grab.AllowReplay, mode)
	assert.Zero(t, calls.calls["run"])
}

func TestShutdown(t *testing.T) {
	e, rec := newTestEngine(t)
	destroyed := 0
	require.NoError(t, e.AddKeybinding("run", []string{"<Alt>t"}, 0, func(*grab.Window, key.Event, *keymap.Binding, any) {}, "data", func(any) { destroyed++ }))
	e.Manage(grab.NewWindow(100))

	e.Shutdown()
	assert.Empty(t, rec.Keys)
	assert.Empty(t, rec.Buttons)
	assert.Equal(t, 1, destroyed)
	assert.False(t, e.ProcessKeyEvent(root, key.NewPress(usT, key.ModMask1, 1)))
	assert.ErrorIs(t, e.AddKeybinding("x", nil, 0, nil, nil, nil), ErrClosed)
}

func TestSessionID(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Len(t, e.SessionID(), 36)

	e2 := New(grabtest.New(), WithSessionID("fixed"))
	assert.Equal(t, "fixed", e2.SessionID())
}
