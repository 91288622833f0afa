package resolver

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/crate/pkg/types"
)

func TestConcurrentResolutionCreatesOnce(t *testing.T) {
	const workers = 16

	tests := []struct {
		name string
		kind types.ItemType
		item string
		ctx  types.Context
		want map[string]int64
	}{
		{
			name: "album",
			kind: types.ItemAlbum, item: "Red", ctx: types.Context{ArtistName: "Taylor Swift"},
			want: map[string]int64{"items": 2, "artists": 1, "albums": 1, "album_artists": 1},
		},
		{
			name: "track with album",
			kind: types.ItemTrack, item: "Closer", ctx: types.Context{ArtistName: "X", AlbumName: "Y"},
			want: map[string]int64{"items": 3, "tracks": 1, "albums": 1, "track_albums": 1, "track_artists": 1},
		},
		{
			name: "venue",
			kind: types.ItemVenue, item: "The Forum", ctx: types.Context{Location: "Inglewood"},
			want: map[string]int64{"items": 1, "venues": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, s := setupResolver(t)
			g, ctx := errgroup.WithContext(context.Background())

			var (
				mu  sync.Mutex
				ids = map[int64]int{}
			)
			for i := 0; i < workers; i++ {
				g.Go(func() error {
					id, err := r.ResolveOrCreate(ctx, tt.kind, tt.item, tt.ctx)
					if err != nil {
						return fmt.Errorf("worker %d: %w", i, err)
					}
					mu.Lock()
					ids[id]++
					mu.Unlock()
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Len(t, ids, 1, "every caller must see the same item")
			got := counts(t, s)
			for table, n := range tt.want {
				assert.Equal(t, n, got[table], table)
			}
			assertBackRefs(t, s)
		})
	}
}

func TestConcurrentMixedResolutions(t *testing.T) {
	r, s := setupResolver(t)
	g, ctx := errgroup.WithContext(context.Background())

	// Albums and tracks by the same artist race to create that artist.
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := r.ResolveOrCreate(ctx, types.ItemAlbum, fmt.Sprintf("Album %d", i%4), types.Context{ArtistName: "Shared"})
			return err
		})
		g.Go(func() error {
			_, err := r.ResolveOrCreate(ctx, types.ItemTrack, fmt.Sprintf("Track %d", i%4), types.Context{ArtistName: "Shared"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got := counts(t, s)
	assert.EqualValues(t, 1, got["artists"])
	assert.EqualValues(t, 4, got["albums"])
	assert.EqualValues(t, 4, got["tracks"])
	assert.EqualValues(t, 9, got["items"])
	assertBackRefs(t, s)
}
