package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crate/pkg/types"
)

func TestFavoritesAdd(t *testing.T) {
	ctx := context.Background()
	d := setupDeps(t)
	f := NewFavorites(d)
	red := types.Context{ArtistName: "Taylor Swift"}

	id, err := f.Add(ctx, 1, types.ItemAlbum, "Red", red)
	require.NoError(t, err)
	again, err := f.Add(ctx, 1, types.ItemAlbum, "Red", red)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.EqualValues(t, 1, countRows(t, d, "favorites"))

	ok, err := f.IsFavorite(ctx, 1, types.ItemAlbum, "Red", red)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.IsFavorite(ctx, 2, types.ItemAlbum, "Red", red)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoritesLookupsNeverCreate(t *testing.T) {
	ctx := context.Background()
	d := setupDeps(t)
	f := NewFavorites(d)

	ok, err := f.IsFavorite(ctx, 1, types.ItemGenre, "Jazz", types.Context{})
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := f.Remove(ctx, 1, types.ItemGenre, "Jazz", types.Context{})
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Zero(t, countRows(t, d, "items"))
}

func TestFavoritesRemove(t *testing.T) {
	ctx := context.Background()
	d := setupDeps(t)
	f := NewFavorites(d)

	_, err := f.Add(ctx, 1, types.ItemArtist, "Björk", types.Context{})
	require.NoError(t, err)

	removed, err := f.Remove(ctx, 1, types.ItemArtist, "Björk", types.Context{})
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.Remove(ctx, 1, types.ItemArtist, "Björk", types.Context{})
	require.NoError(t, err)
	assert.False(t, removed)

	assert.EqualValues(t, 1, countRows(t, d, "items"), "removing a favorite keeps the item")
}

func TestFavoritesListByUser(t *testing.T) {
	ctx := context.Background()
	d := setupDeps(t)
	f := NewFavorites(d)

	venue, err := f.Add(ctx, 7, types.ItemVenue, "The Forum", types.Context{Location: "Inglewood"})
	require.NoError(t, err)
	track, err := f.Add(ctx, 7, types.ItemTrack, "Closer", types.Context{ArtistName: "X"})
	require.NoError(t, err)
	_, err = f.Add(ctx, 8, types.ItemGenre, "Jazz", types.Context{})
	require.NoError(t, err)

	favs, err := f.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, track, favs[0].ItemID, "newest first")
	assert.Equal(t, types.ItemTrack, favs[0].Kind)
	assert.Equal(t, venue, favs[1].ItemID)
	assert.Equal(t, types.ItemVenue, favs[1].Kind)
	assert.True(t, favs[0].CreatedAt.After(favs[1].CreatedAt))

	none, err := f.ListByUser(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFavoritesRejectBadInput(t *testing.T) {
	ctx := context.Background()
	d := setupDeps(t)
	f := NewFavorites(d)

	_, err := f.Add(ctx, 0, types.ItemGenre, "Jazz", types.Context{})
	assert.ErrorIs(t, err, types.ErrInvalidUser)

	_, err = f.Add(ctx, 1, types.ItemAlbum, "Red", types.Context{})
	assert.ErrorIs(t, err, types.ErrInvalidContext)

	_, err = f.IsFavorite(ctx, 1, types.ItemTrack, "Closer", types.Context{})
	assert.ErrorIs(t, err, types.ErrInvalidContext)

	assert.Zero(t, countRows(t, d, "items"))
	assert.Zero(t, countRows(t, d, "favorites"))
}
