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

func TestMetricsRecordOutcomes(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())
	r, _ := setupResolver(t, WithMetrics(m))
	c := types.Context{ArtistName: "Taylor Swift"}

	_, found, err := r.FindExisting(ctx, types.ItemAlbum, "Red", c)
	require.NoError(t, err)
	require.False(t, found)

	_, err = r.ResolveOrCreate(ctx, types.ItemAlbum, "Red", c)
	require.NoError(t, err)
	_, err = r.ResolveOrCreate(ctx, types.ItemAlbum, "Red", c)
	require.NoError(t, err)
	_, err = r.ResolveOrCreate(ctx, types.ItemAlbum, "Red", types.Context{})
	require.Error(t, err)
	_, err = r.ResolveOrCreate(ctx, "playlist", "Mix", types.Context{})
	require.Error(t, err)

	count := func(kind, op, outcome string) float64 {
		return testutil.ToFloat64(m.Resolutions.WithLabelValues(kind, op, outcome))
	}
	assert.Equal(t, 1.0, count("album", opFind, outcomeNotFound))
	assert.Equal(t, 1.0, count("album", opResolve, outcomeCreated))
	assert.Equal(t, 1.0, count("album", opResolve, outcomeExisting))
	assert.Equal(t, 1.0, count("album", opResolve, outcomeInvalid))
	assert.Equal(t, 1.0, count("unknown", opResolve, outcomeInvalid))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Links), "one album_artists link")
	assert.Equal(t, 3, testutil.CollectAndCount(m.Duration), "album find, album resolve, unknown resolve")
}

func TestMetricsRecordErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())
	r, s := setupResolver(t, WithMetrics(m))
	require.NoError(t, s.Close())

	_, err := r.ResolveOrCreate(ctx, types.ItemGenre, "Jazz", types.Context{})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("genre", opResolve, outcomeError)))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(types.ItemArtist, opResolve, outcomeCreated, time.Time{})
		m.cacheHit(types.ItemArtist, opFind)
		m.linksAdded(3)
	})
}
