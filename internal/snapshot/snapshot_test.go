package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recipedex/recipedex/internal/recipe"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSlotRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	_, ok, err := s.LoadSlot("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SaveSlot(SlotSettings, `{"owner":"alice"}`))
	body, ok, err := s.LoadSlot(SlotSettings)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"owner":"alice"}`, body)
}

func TestSlotOverwriteWholesale(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.SaveSlot("x", "first"))
	require.NoError(t, s.SaveSlot("x", "second"))

	body, ok, err := s.LoadSlot("x")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", body)
}

func TestCollectionRoundTripPreservesSeparators(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	col := recipe.Collection{
		Version: "1",
		Recipes: []recipe.Recipe{
			{ID: "a", Name: "Layered Dip", Ingredients: []string{"beans", "", "cheese"}, Steps: []string{}, Tags: []string{}},
		},
	}
	require.NoError(t, s.SaveCollection(col))

	got, ok, err := s.LoadCollection()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, col, got)
}

func TestLoadCollectionCorruptBodyFallsThrough(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.SaveSlot(SlotCollection, "{corrupt"))

	_, ok, err := s.LoadCollection()
	require.NoError(t, err)
	require.False(t, ok)
}
