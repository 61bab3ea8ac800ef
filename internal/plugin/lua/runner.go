package lua

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Runner compiles binding scripts into handler callbacks.
type Runner struct {
	state  *State
	logger zerolog.Logger

	mu      sync.Mutex
	scripts map[string]*lua.LFunction
	runs    map[string]int
}

// NewRunner creates a runner with its own sandboxed state.
func NewRunner(logger zerolog.Logger, opts ...StateOption) (*Runner, error) {
	state, err := NewState(opts...)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		state:   state,
		logger:  logger.With().Str("component", "lua").Logger(),
		scripts: make(map[string]*lua.LFunction),
		runs:    make(map[string]int),
	}
	state.RegisterFunc("log", r.luaLog)
	return r, nil
}

// Compile loads src for the binding name and returns a callback running it.
// Recompiling a name replaces the previous script.
func (r *Runner) Compile(name, src string) (handler.Func, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptyScript
	}
	fn, err := r.state.Compile(name, src)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.scripts[name] = fn
	r.mu.Unlock()

	return func(win *grab.Window, ev key.Event, b *keymap.Binding, _ any) {
		if err := r.Run(name, win, ev, b); err != nil {
			r.logger.Warn().Err(err).Str("binding", name).Msg("script failed")
		}
	}, nil
}

// Run executes the script compiled for name against ev.
func (r *Runner) Run(name string, win *grab.Window, ev key.Event, b *keymap.Binding) error {
	r.mu.Lock()
	fn, ok := r.scripts[name]
	if ok {
		r.runs[name]++
	}
	r.mu.Unlock()
	if !ok {
		return ErrUnknownScript
	}

	r.logger.Debug().Str("binding", name).Uint32("keycode", uint32(ev.Keycode)).Msg("running script")

	return r.state.Run(fn, func(L *lua.LState) map[string]lua.LValue {
		return map[string]lua.LValue{
			"event": eventTable(L, name, win, ev, b),
		}
	})
}

// Runs reports how many times the script for name has been started.
func (r *Runner) Runs(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[name]
}

// Forget drops the compiled script for name.
func (r *Runner) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scripts, name)
	delete(r.runs, name)
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	r.mu.Lock()
	r.scripts = make(map[string]*lua.LFunction)
	r.mu.Unlock()
	return r.state.Close()
}

// luaLog implements log(msg [, level]).
func (r *Runner) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	level := zerolog.InfoLevel
	if L.GetTop() >= 2 {
		if l, err := zerolog.ParseLevel(L.CheckString(2)); err == nil && l != zerolog.NoLevel {
			level = l
		}
	}
	r.logger.WithLevel(level).Str("source", "script").Msg(msg)
	return 0
}

func eventTable(L *lua.LState, name string, win *grab.Window, ev key.Event, b *keymap.Binding) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "binding", lua.LString(name))
	L.SetField(t, "type", lua.LString(ev.Type.String()))
	L.SetField(t, "keycode", lua.LNumber(ev.Keycode))
	L.SetField(t, "state", lua.LNumber(ev.State))
	L.SetField(t, "time", lua.LNumber(ev.Time))
	L.SetField(t, "repeat", lua.LBool(ev.Repeat))
	if b != nil {
		L.SetField(t, "accelerator", lua.LString(b.Combo.String()))
	}
	if win != nil {
		L.SetField(t, "window", lua.LNumber(win.ID))
	}
	return readOnly(L, t)
}
