package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InsertKeepsOrder(t *testing.T) {
	r := NewRegistry()
	a, b, c := &fakeWindow{w: 1}, &fakeWindow{w: 2}, &fakeWindow{w: 3}

	r.Insert(3, a)
	r.Insert(1, b)
	r.Insert(2, c)

	assert.Equal(t, []uint32{3, 1, 2}, r.IDs())
	assert.Equal(t, []Window{a, b, c}, r.Windows())
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_ReplaceKeepsPosition(t *testing.T) {
	r := NewRegistry()
	a, b, c := &fakeWindow{w: 1}, &fakeWindow{w: 2}, &fakeWindow{w: 3}
	r.Insert(1, a)
	r.Insert(2, b)

	require.True(t, r.Replace(1, c))
	assert.Equal(t, []Window{c, b}, r.Windows())

	// Insert of an existing ID behaves like Replace.
	r.Insert(2, a)
	assert.Equal(t, []uint32{1, 2}, r.IDs())
	assert.Equal(t, []Window{c, a}, r.Windows())

	assert.False(t, r.Replace(9, a))
	assert.False(t, r.Has(9))
}

func TestRegistry_RemoveStopsTimer(t *testing.T) {
	r := NewRegistry()
	w := &fakeWindow{}
	tm := &fakeTimer{}
	r.Insert(1, w)
	require.NoError(t, r.SetTimer(1, tm))

	got, ok := r.Remove(1)
	require.True(t, ok)
	assert.Same(t, w, got)
	assert.True(t, tm.stopped)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.TimerCount())

	_, ok = r.Remove(1)
	assert.False(t, ok)
}

func TestRegistry_TimersNeedWindows(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.SetTimer(1, &fakeTimer{}), ErrUnknownID)
	assert.Equal(t, 0, r.TimerCount())
}

func TestRegistry_SetTimerReplacesPrevious(t *testing.T) {
	r := NewRegistry()
	r.Insert(1, &fakeWindow{})
	first, second := &fakeTimer{}, &fakeTimer{}

	require.NoError(t, r.SetTimer(1, first))
	require.NoError(t, r.SetTimer(1, second))

	assert.True(t, first.stopped)
	assert.False(t, second.stopped)
	cur, ok := r.Timer(1)
	require.True(t, ok)
	assert.Same(t, second, cur)
	assert.Equal(t, 1, r.TimerCount())
}

func TestRegistry_RemoveTimer(t *testing.T) {
	r := NewRegistry()
	r.Insert(1, &fakeWindow{})
	tm := &fakeTimer{}
	require.NoError(t, r.SetTimer(1, tm))

	assert.True(t, r.RemoveTimer(1))
	assert.True(t, tm.stopped)
	assert.False(t, r.RemoveTimer(1))
	assert.True(t, r.Has(1))
}

func TestRegistry_IDsIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Insert(1, &fakeWindow{})
	ids := r.IDs()
	ids[0] = 99
	assert.Equal(t, []uint32{1}, r.IDs())
}
