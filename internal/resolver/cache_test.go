package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crate/pkg/types"
)

func TestCacheKey(t *testing.T) {
	album := cacheKey(types.ItemAlbum, "Red", types.Context{ArtistName: "Taylor Swift"})
	assert.NotEqual(t, album, cacheKey(types.ItemAlbum, "Red", types.Context{ArtistName: "Unknown Artist"}))
	assert.NotEqual(t, album, cacheKey(types.ItemTrack, "Red", types.Context{ArtistName: "Taylor Swift"}))

	// Album is not part of a track's identity; location only matters for venues.
	assert.Equal(t,
		cacheKey(types.ItemTrack, "Closer", types.Context{ArtistName: "X"}),
		cacheKey(types.ItemTrack, "Closer", types.Context{ArtistName: "X", AlbumName: "Y"}))
	assert.Equal(t,
		cacheKey(types.ItemGenre, "Jazz", types.Context{}),
		cacheKey(types.ItemGenre, "Jazz", types.Context{Location: "Paris"}))
	assert.NotEqual(t,
		cacheKey(types.ItemVenue, "The Forum", types.Context{Location: "Inglewood"}),
		cacheKey(types.ItemVenue, "The Forum", types.Context{Location: "London"}))
}

func TestDisabledCacheIsNil(t *testing.T) {
	var ic *identityCache = newIdentityCache(0)
	assert.Nil(t, ic)

	ic.put("k", 1)
	_, ok := ic.get("k")
	assert.False(t, ok)
	assert.Zero(t, ic.len())
	assert.NotPanics(t, ic.purge)
}

func TestCacheAnswersRepeatedResolutions(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())
	r, _ := setupResolver(t, WithMetrics(m), WithCache(time.Minute))
	c := types.Context{ArtistName: "Taylor Swift"}

	id, err := r.ResolveOrCreate(ctx, types.ItemAlbum, "Red", c)
	require.NoError(t, err)
	assert.Equal(t, 1, r.cache.len())

	again, err := r.ResolveOrCreate(ctx, types.ItemAlbum, "Red", c)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	found, ok, err := r.FindExisting(ctx, types.ItemAlbum, "Red", c)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, found)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("album", opResolve)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("album", opFind)))

	r.Purge()
	assert.Zero(t, r.cache.len())
}

func TestCacheSkipsMisses(t *testing.T) {
	ctx := context.Background()
	r, _ := setupResolver(t, WithCache(time.Minute))

	_, found, err := r.FindExisting(ctx, types.ItemGenre, "Jazz", types.Context{})
	require.NoError(t, err)
	require.False(t, found)
	assert.Zero(t, r.cache.len(), "negative answers are never cached")

	id, err := r.ResolveOrCreate(ctx, types.ItemGenre, "Jazz", types.Context{})
	require.NoError(t, err)
	got, found, err := r.FindExisting(ctx, types.ItemGenre, "Jazz", types.Context{})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, got)
}

func TestCacheDoesNotSkipTrackAlbumLinks(t *testing.T) {
	ctx := context.Background()
	r, s := setupResolver(t, WithCache(time.Minute))

	id, err := r.ResolveOrCreate(ctx, types.ItemTrack, "Closer", types.Context{ArtistName: "X"})
	require.NoError(t, err)
	linked, err := r.ResolveOrCreate(ctx, types.ItemTrack, "Closer", types.Context{ArtistName: "X", AlbumName: "Y"})
	require.NoError(t, err)
	assert.Equal(t, id, linked)

	n, err := s.Q().Count(ctx, "track_albums")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
