package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single script run.
const DefaultExecutionTimeout = 2 * time.Second

// State wraps gopher-lua with the sandbox and per-run deadlines.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes every
// entry point so a State may be shared by the dispatch loop and tests.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the deadline for each run. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	installSandbox(L)

	state.L = L
	return state, nil
}

// Compile loads src as a chunk without running it.
func (s *State) Compile(name, src string) (*lua.LFunction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return fn, nil
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// GlobalsFunc builds the globals visible to one run.
type GlobalsFunc func(L *lua.LState) map[string]lua.LValue

// Run calls fn with the globals built by env set for the duration of the
// call. env may be nil.
func (s *State) Run(fn *lua.LFunction, env GlobalsFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	var globals map[string]lua.LValue
	if env != nil {
		globals = env(s.L)
	}
	for name, v := range globals {
		s.L.SetGlobal(name, v)
	}
	defer func() {
		for name := range globals {
			s.L.SetGlobal(name, lua.LNil)
		}
	}()

	return s.run(func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
}

// run executes fn under the deadline with panic recovery. Callers hold mu.
func (s *State) run(fn func() error) (err error) {
	var ctx context.Context
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = fn()
	if err != nil && ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
