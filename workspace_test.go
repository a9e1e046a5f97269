package vizitka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vizitka/card"
	"github.com/eringen/vizitka/slogan"
)

func mustCreate(t *testing.T, w *Workspaces) *Workspace {
	t.Helper()
	ws, err := w.Create()
	require.NoError(t, err)
	return ws
}

func TestWorkspacesCreateAndGet(t *testing.T) {
	w := NewWorkspaces(time.Hour, 0, slogan.LastResolved)
	defer w.Close()

	ws := mustCreate(t, w)
	require.NotEmpty(t, ws.ID)
	assert.Equal(t, card.Default(), ws.Card.Current())
	assert.Empty(t, ws.Slogan.Text())

	got, ok := w.Get(ws.ID)
	require.True(t, ok)
	assert.Same(t, ws, got)

	_, ok = w.Get("missing")
	assert.False(t, ok)

	other := mustCreate(t, w)
	assert.NotEqual(t, ws.ID, other.ID)
	assert.Equal(t, 2, w.Len())
}

func TestWorkspacesAreIsolated(t *testing.T) {
	w := NewWorkspaces(time.Hour, 0, slogan.LastResolved)
	defer w.Close()

	a, b := mustCreate(t, w), mustCreate(t, w)
	_, err := a.Card.Update(func(d card.Data) (card.Data, error) {
		return card.Edit(d, card.FieldCompany, "Acme")
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", a.Card.Current().Company)
	assert.Equal(t, card.Default().Company, b.Card.Current().Company)
}

func TestWorkspacesEvictIdle(t *testing.T) {
	w := NewWorkspaces(time.Hour, 0, slogan.LastResolved)
	defer w.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	stale := mustCreate(t, w)
	now = now.Add(50 * time.Minute)
	fresh := mustCreate(t, w)
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, w.Evict())
	_, ok := w.Get(stale.ID)
	assert.False(t, ok)
	_, ok = w.Get(fresh.ID)
	assert.True(t, ok)

	// Get refreshed fresh, so it survives another 50 minutes.
	now = now.Add(50 * time.Minute)
	assert.Equal(t, 0, w.Evict())
}

func TestWorkspacesCreateRespectsLimit(t *testing.T) {
	w := NewWorkspaces(time.Hour, 2, slogan.LastResolved)
	defer w.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	first := mustCreate(t, w)
	mustCreate(t, w)

	_, err := w.Create()
	assert.ErrorIs(t, err, ErrTooManyWorkspaces)
	assert.Equal(t, 2, w.Len())

	now = now.Add(30 * time.Minute)
	w.Get(first.ID)
	now = now.Add(20 * time.Minute)
	_, err = w.Create()
	assert.ErrorIs(t, err, ErrTooManyWorkspaces, "nothing idle for an hour yet")

	// The second workspace has now been idle past the ttl and makes room.
	now = now.Add(15 * time.Minute)
	third, err := w.Create()
	require.NoError(t, err)
	assert.Equal(t, 2, w.Len())
	_, ok := w.Get(first.ID)
	assert.True(t, ok, "the recently used workspace is kept")
	_, ok = w.Get(third.ID)
	assert.True(t, ok)
}
