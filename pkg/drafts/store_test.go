package drafts

import (
	"testing"

	"github.com/alecap92/fcrm-automations/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndGet(t *testing.T) {
	store := NewStore(t.TempDir())

	draft := &Draft{
		Name:        "Welcome Sequence",
		Description: "Greets new contacts",
		Nodes: []models.Node{
			{ID: "t1", Type: "trigger.manual", Data: map[string]any{"armed": true}},
		},
		Edges: []models.Edge{
			{ID: "e1", Source: "t1", Target: "a1"},
		},
	}

	require.NoError(t, store.Save(draft))
	assert.False(t, draft.SavedAt.IsZero())

	loaded, err := store.Get("Welcome Sequence")
	require.NoError(t, err)

	assert.Equal(t, "Welcome Sequence", loaded.Name)
	require.Len(t, loaded.Nodes, 1)

	// Edges survive locally even though the backend never stores them.
	require.Len(t, loaded.Edges, 1)
	assert.Equal(t, "t1", loaded.Edges[0].Source)
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Get("nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStore_SaveRequiresName(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.Error(t, store.Save(&Draft{}))
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(&Draft{Name: "first"}))
	require.NoError(t, store.Save(&Draft{Name: "second"}))

	drafts, err := store.List()
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.False(t, drafts[0].SavedAt.Before(drafts[1].SavedAt))
}

func TestStore_ListEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	drafts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(&Draft{Name: "gone soon"}))
	require.NoError(t, store.Delete("gone soon"))

	_, err := store.Get("gone soon")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	// Deleting a missing draft is a no-op.
	assert.NoError(t, store.Delete("never existed"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "welcome-sequence", slug("Welcome Sequence"))
	assert.Equal(t, "invoice-follow-up-2", slug("Invoice Follow-up #2"))
}
