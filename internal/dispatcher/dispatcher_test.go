package dispatcher_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wmkeys/internal/dispatcher"
	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/grab/grabtest"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
	"github.com/dshills/wmkeys/internal/input/special"
)

const (
	codeT      key.Keycode = 28
	codeA      key.Keycode = 38
	codeSuperL key.Keycode = 133

	ignored = key.ModMask2 | key.ModMaskLock
)

type fixture struct {
	rec      *grabtest.Recorder
	ctrl     *grab.Controller
	index    *keymap.Index
	registry *dispatcher.Registry
	d        *dispatcher.Dispatcher
	calls    map[string]int
	windows  map[string]*grab.Window
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rec:      grabtest.New(),
		index:    keymap.NewIndex(zerolog.Nop()),
		registry: dispatcher.NewRegistry(),
		calls:    make(map[string]int),
		windows:  make(map[string]*grab.Window),
	}
	f.ctrl = grab.NewController(f.rec, zerolog.Nop())
	f.ctrl.SetIgnoredMask(ignored)
	f.index.SetIgnoredMask(ignored)
	f.d = dispatcher.New(dispatcher.Options{
		Config:     dispatcher.DefaultConfig().WithMetrics(),
		Index:      f.index,
		Handlers:   f.registry,
		Controller: f.ctrl,
		Logger:     zerolog.Nop(),
	})
	return f
}

// bind registers a handler named name and indexes it on code+mask.
func (f *fixture) bind(t *testing.T, name string, code key.Keycode, mask key.ModMask, flags keymap.Flags) *keymap.Binding {
	t.Helper()
	h := handler.New(name, handler.ActionNone, flags, func(win *grab.Window, _ key.Event, _ *keymap.Binding, _ any) {
		f.calls[name]++
		f.windows[name] = win
	})
	require.NoError(t, f.registry.Register(h))
	b := keymap.NewBinding(name, key.Combo{Keycode: code}, name, flags)
	b.Resolved = keymap.ResolvedCombo{Keycodes: []key.Keycode{code}, Mask: mask}
	f.index.Add(b)
	return b
}

func (f *fixture) withOverlay(t *testing.T) *int {
	t.Helper()
	activations := 0
	b := keymap.NewBinding(handler.NameOverlayKey, key.Combo{Keysym: key.KeysymSuperL}, handler.NameOverlayKey, keymap.FlagNoAutoGrab)
	b.Resolved = keymap.ResolvedCombo{Keycodes: []key.Keycode{codeSuperL}}
	m := special.New(b, special.Config{
		Allower: f.ctrl,
		Global:  f.d.ProcessGlobal,
		Trigger: func(key.Event) { activations++ },
		Logger:  zerolog.Nop(),
	})
	m.SetIgnoredMask(ignored)
	f.d.SetSpecialMachines(m, nil)
	return &activations
}

func TestDispatchRunsHandler(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "test", codeT, key.ModMaskControl|key.ModMask1, 0)

	handled := f.d.ProcessKeyEvent(nil, key.NewPress(codeT, key.ModMaskControl|key.ModMask1|key.ModMaskLock, 1))

	assert.True(t, handled)
	assert.Equal(t, 1, f.calls["test"])
	mode, ok := f.rec.LastAllow()
	require.True(t, ok)
	assert.Equal(t, grab.AllowAsync, mode)
	assert.Equal(t, uint64(1), f.d.Metrics().Count(dispatcher.OutcomeHandled))
}

func TestIgnoredModifiersDoNotMatter(t *testing.T) {
	tests := []struct {
		name  string
		state key.ModMask
	}{
		{"plain", key.ModMask1},
		{"caps lock", key.ModMask1 | key.ModMaskLock},
		{"num lock", key.ModMask1 | key.ModMask2},
		{"both", key.ModMask1 | key.ModMask2 | key.ModMaskLock},
		{"button bits", key.ModMask1 | 0x100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bind(t, "run", codeA, key.ModMask1, 0)
			assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeA, tt.state, 1)))
			assert.Equal(t, 1, f.calls["run"])
		})
	}
}

func TestReleaseNeverDispatches(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "test", codeT, key.ModMaskControl, 0)

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewRelease(codeT, key.ModMaskControl, 1)))
	assert.Zero(t, f.calls["test"])
}

func TestUnboundKeyNotHandled(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, 0, 1)))
	assert.Equal(t, uint64(1), f.d.Metrics().Count(dispatcher.OutcomeNotFound))
}

func TestAutorepeat(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "once", codeT, key.ModMaskControl, keymap.FlagIgnoreAutorepeat)
	f.bind(t, "repeat", codeA, key.ModMaskControl, 0)

	for i := 0; i < 5; i++ {
		ev := key.NewPress(codeT, key.ModMaskControl, key.Timestamp(i))
		ev.Repeat = i > 0
		assert.True(t, f.d.ProcessKeyEvent(nil, ev), "repeat events are swallowed")

		ev = key.NewPress(codeA, key.ModMaskControl, key.Timestamp(i))
		ev.Repeat = i > 0
		f.d.ProcessKeyEvent(nil, ev)
	}

	assert.Equal(t, 1, f.calls["once"])
	assert.Equal(t, 5, f.calls["repeat"])
	assert.Equal(t, uint64(4), f.d.Metrics().Count(dispatcher.OutcomeSwallowed))
}

func TestPerWindowBinding(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "close", codeT, key.ModMask1, keymap.FlagPerWindow)
	f.bind(t, "global", codeA, key.ModMask1, 0)
	win := grab.NewWindow(100)

	t.Run("no window", func(t *testing.T) {
		assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, key.ModMask1, 1)))
		assert.Zero(t, f.calls["close"])
	})

	t.Run("with window", func(t *testing.T) {
		assert.True(t, f.d.ProcessKeyEvent(win, key.NewPress(codeT, key.ModMask1, 2)))
		assert.Equal(t, 1, f.calls["close"])
		assert.Same(t, win, f.windows["close"])
	})

	t.Run("global handler gets no window", func(t *testing.T) {
		assert.True(t, f.d.ProcessKeyEvent(win, key.NewPress(codeA, key.ModMask1, 3)))
		assert.Nil(t, f.windows["global"])
	})
}

type inhibitor bool

func (i inhibitor) ShortcutsInhibited(*grab.Window) bool { return bool(i) }

func TestInhibitedShortcuts(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "maskable", codeT, key.ModMask1, 0)
	f.bind(t, "nonmaskable", codeA, key.ModMask1, keymap.FlagNonMaskable)
	f.d.SetInhibitor(inhibitor(true))
	win := grab.NewWindow(100)

	assert.False(t, f.d.ProcessKeyEvent(win, key.NewPress(codeT, key.ModMask1, 1)))
	assert.True(t, f.d.ProcessKeyEvent(win, key.NewPress(codeA, key.ModMask1, 2)))
	assert.Zero(t, f.calls["maskable"])
	assert.Equal(t, 1, f.calls["nonmaskable"])

	// Without a window no inhibition applies.
	assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, key.ModMask1, 3)))
	assert.Equal(t, 1, f.calls["maskable"])
}

func TestFilterRejects(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "test", codeT, key.ModMask1, 0)
	f.d.SetFilter(func(b *keymap.Binding) bool { return b.Name == "test" })

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, key.ModMask1, 1)))
	assert.Zero(t, f.calls["test"])
	assert.Equal(t, uint64(1), f.d.Metrics().Count(dispatcher.OutcomeFiltered))
}

func TestHandlerWithoutCallback(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.registry.Register(handler.New("empty", handler.ActionNone, 0, nil)))
	b := keymap.NewBinding("empty", key.Combo{Keycode: codeT}, "empty", 0)
	b.Resolved = keymap.ResolvedCombo{Keycodes: []key.Keycode{codeT}}
	f.index.Add(b)

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, 0, 1)))
}

func TestDisabledReplays(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "test", codeT, key.ModMask1, 0)
	f.d.SetDisabled(true)

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, key.ModMask1, 7)))
	assert.Zero(t, f.calls["test"])
	require.Len(t, f.rec.Allows, 1)
	assert.Equal(t, grabtest.Allow{Mode: grab.AllowReplay, Time: 7}, f.rec.Allows[0])
}

func TestPanicRecovered(t *testing.T) {
	f := newFixture(t)
	h := handler.New("boom", handler.ActionNone, 0, func(*grab.Window, key.Event, *keymap.Binding, any) {
		panic("boom")
	})
	require.NoError(t, f.registry.Register(h))
	b := keymap.NewBinding("boom", key.Combo{Keycode: codeT}, "boom", 0)
	b.Resolved = keymap.ResolvedCombo{Keycodes: []key.Keycode{codeT}}
	f.index.Add(b)

	assert.NotPanics(t, func() {
		assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, 0, 1)))
	})
	assert.Equal(t, uint64(1), f.d.Metrics().TotalPanics())
}

func TestOverlayAloneActivates(t *testing.T) {
	f := newFixture(t)
	activations := f.withOverlay(t)
	f.bind(t, "test", codeT, key.ModMask4, 0)

	assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeSuperL, 0, 1)))
	assert.True(t, f.d.ProcessKeyEvent(nil, key.NewRelease(codeSuperL, key.ModMask4, 2)))

	assert.Equal(t, 1, *activations)
	assert.Zero(t, f.calls["test"])
	assert.Equal(t, []grabtest.Allow{
		{Mode: grab.AllowSync, Time: 1},
		{Mode: grab.AllowAsync, Time: 2},
	}, f.rec.Allows)
}

func TestOverlayWithKeyDispatchesOnce(t *testing.T) {
	f := newFixture(t)
	activations := f.withOverlay(t)
	f.bind(t, "test", codeT, key.ModMask4, 0)

	f.d.ProcessKeyEvent(nil, key.NewPress(codeSuperL, 0, 1))
	assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, key.ModMask4, 2)))
	f.d.ProcessKeyEvent(nil, key.NewRelease(codeT, key.ModMask4, 3))
	f.d.ProcessKeyEvent(nil, key.NewRelease(codeSuperL, key.ModMask4, 4))

	assert.Equal(t, 0, *activations)
	assert.Equal(t, 1, f.calls["test"])
	assert.False(t, f.d.Dispatching())
	assert.Equal(t, []grabtest.Allow{
		{Mode: grab.AllowSync, Time: 1},
		{Mode: grab.AllowAsync, Time: 2},
		{Mode: grab.AllowAsync, Time: 3},
		{Mode: grab.AllowAsync, Time: 4},
	}, f.rec.Allows)
}

func TestOverlayPressWithModifiersIgnored(t *testing.T) {
	f := newFixture(t)
	activations := f.withOverlay(t)

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeSuperL, key.ModMaskControl, 1)))
	assert.Equal(t, special.Idle, f.d.Overlay().State())
	assert.Zero(t, *activations)
}

func TestPointerEventResetsSpecialKeys(t *testing.T) {
	f := newFixture(t)
	activations := f.withOverlay(t)

	f.d.ProcessKeyEvent(nil, key.NewPress(codeSuperL, 0, 1))
	f.d.ResetSpecialKeys()
	f.d.ProcessKeyEvent(nil, key.NewRelease(codeSuperL, key.ModMask4, 2))

	assert.Zero(t, *activations)
}

func TestLocatePointerContinuesToClients(t *testing.T) {
	f := newFixture(t)
	triggered := 0
	b := keymap.NewBinding(handler.NameLocatePointerKey, key.Combo{Keysym: key.KeysymControlL}, handler.NameLocatePointerKey, keymap.FlagNoAutoGrab)
	b.Resolved = keymap.ResolvedCombo{Keycodes: []key.Keycode{37}}
	m := special.New(b, special.Config{
		Allower: f.ctrl,
		Trigger: func(key.Event) { triggered++ },
		Logger:  zerolog.Nop(),
	})
	f.d.SetSpecialMachines(nil, m)

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(37, 0, 1)))
	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewRelease(37, key.ModMaskControl, 2)))
	assert.Equal(t, 1, triggered)
	assert.Equal(t, []grabtest.Allow{
		{Mode: grab.AllowSync, Time: 1},
		{Mode: grab.AllowAsync, Time: 2},
	}, f.rec.Allows)
}

type switcher struct{ locks int }

func (s *switcher) LockNextGroup(key.Timestamp) { s.locks++ }

func TestISONextGroup(t *testing.T) {
	f := newFixture(t)
	sw := &switcher{}
	// grp:alt_shift_toggle on a US layout: Alt_L with Shift.
	combos := []keymap.ResolvedCombo{{Keycodes: []key.Keycode{64}, Mask: key.ModMaskShift}}
	f.d.SetISONextGroup(nil, combos, sw)

	assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(64, key.ModMaskShift|key.ModMask2, 1)))
	assert.Equal(t, []grabtest.Allow{{Mode: grab.AllowAsync, Time: 1}}, f.rec.Allows,
		"the toggle press thaws the keyboard")

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewRelease(64, key.ModMaskShift|key.ModMask1, 2)))
	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(64, 0, 3)))
	assert.Equal(t, 1, sw.locks)
	assert.Len(t, f.rec.Allows, 3)
}

func TestFilteredISONextGroupFallsThrough(t *testing.T) {
	f := newFixture(t)
	sw := &switcher{}
	b := keymap.NewBinding(handler.NameISONextGroup, key.Combo{}, handler.NameISONextGroup, keymap.FlagNoAutoGrab)
	combos := []keymap.ResolvedCombo{{Keycodes: []key.Keycode{64}, Mask: key.ModMaskShift}}
	f.d.SetISONextGroup(b, combos, sw)
	f.d.SetFilter(func(*keymap.Binding) bool { return true })

	assert.False(t, f.d.ProcessKeyEvent(nil, key.NewPress(64, key.ModMaskShift, 1)))
	assert.Zero(t, sw.locks)
	assert.Equal(t, []grabtest.Allow{{Mode: grab.AllowAsync, Time: 1}}, f.rec.Allows)
}

type kbdGrab struct {
	active   bool
	keys     int
	cont     bool
	ended    bool
	lastWin  *grab.Window
	lastTime key.Timestamp
}

func (g *kbdGrab) Active() bool { return g.active }

func (g *kbdGrab) ProcessGrabKey(w *grab.Window, _ key.Event) bool {
	g.keys++
	g.lastWin = w
	return g.cont
}

func (g *kbdGrab) EndGrab(t key.Timestamp) {
	g.ended = true
	g.lastTime = t
}

func TestAllKeysGrabbedRoutesToGrabOp(t *testing.T) {
	f := newFixture(t)
	activations := f.withOverlay(t)
	f.bind(t, "test", codeT, 0, 0)
	require.True(t, f.ctrl.GrabAllKeys(f.ctrl.Root(), 1))

	t.Run("no active grab op", func(t *testing.T) {
		assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, 0, 2)))
		assert.Zero(t, f.calls["test"])
	})

	t.Run("grab op continues", func(t *testing.T) {
		g := &kbdGrab{active: true, cont: true}
		f.d.SetKeyboardGrab(g)
		assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeSuperL, 0, 3)))
		assert.Equal(t, 1, g.keys)
		assert.False(t, g.ended)
		assert.Zero(t, *activations, "special keys are skipped during a grab")
	})

	t.Run("grab op ends", func(t *testing.T) {
		g := &kbdGrab{active: true}
		f.d.SetKeyboardGrab(g)
		assert.True(t, f.d.ProcessKeyEvent(nil, key.NewPress(codeT, 0, 4)))
		assert.True(t, g.ended)
		assert.Equal(t, key.Timestamp(4), g.lastTime)
	})
}
