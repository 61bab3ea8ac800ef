package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

func noop(*grab.Window, key.Event, *keymap.Binding, any) {}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(handler.New("a", handler.ActionShowDesktop, 0, noop)))
	assert.ErrorIs(t, r.Register(handler.New("a", handler.ActionNone, 0, noop)), ErrDuplicateHandler)
	assert.ErrorIs(t, r.Register(nil), ErrInvalidHandler)
	assert.ErrorIs(t, r.Register(&handler.Handler{}), ErrInvalidHandler)

	assert.True(t, r.Has("a"))
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, "a", r.ByAction(handler.ActionShowDesktop).Name)
	assert.Nil(t, r.ByAction(handler.ActionRaise))
}

func TestRegistryUnregisterDestroysData(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(handler.New("a", handler.ActionNone, 0, noop)))

	destroyed := 0
	require.NoError(t, r.SetCustom("a", noop, "data", func(any) { destroyed++ }))
	assert.ErrorIs(t, r.SetCustom("missing", noop, nil, nil), ErrNoHandler)

	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	assert.Equal(t, 1, destroyed)
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(handler.New(name, handler.ActionNone, 0, noop)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.List())

	r.Clear()
	assert.Zero(t, r.Count())
}

func TestMetricsTopBindings(t *testing.T) {
	m := NewMetrics()
	m.RecordDispatch("a", 1, OutcomeHandled)
	m.RecordDispatch("b", 1, OutcomeHandled)
	m.RecordDispatch("b", 3, OutcomeHandled)
	m.RecordDispatch("", 1, OutcomeNotFound)

	top := m.TopBindings(5)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Name)
	assert.Equal(t, uint64(2), top[0].DispatchCount)
	assert.Equal(t, uint64(4), m.TotalDispatches())
	assert.EqualValues(t, 2, m.BindingStats("b").AverageDuration())

	m.Reset()
	assert.Zero(t, m.TotalDispatches())
	assert.Nil(t, m.BindingStats("b"))
}
