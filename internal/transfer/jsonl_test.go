package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crate/internal/resolver"
	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

func setupCatalog(t *testing.T) (*store.Store, *resolver.Resolver) {
	t.Helper()
	s, err := store.Open(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, resolver.New(s)
}

func seed(t *testing.T, r *resolver.Resolver) {
	t.Helper()
	ctx := context.Background()
	for _, d := range []types.Descriptor{
		{Kind: types.ItemAlbum, Name: "Red", Context: types.Context{ArtistName: "Taylor Swift"}},
		{Kind: types.ItemAlbum, Name: "Red", Context: types.Context{ArtistName: "Unknown Artist"}},
		{Kind: types.ItemTrack, Name: "Closer", Context: types.Context{ArtistName: "X", AlbumName: "Single"}},
		{Kind: types.ItemTrack, Name: "Closer", Context: types.Context{ArtistName: "X", AlbumName: "LP"}},
		{Kind: types.ItemTrack, Name: "Intro", Context: types.Context{ArtistName: "X"}},
		{Kind: types.ItemVenue, Name: "The Forum", Context: types.Context{Location: "Inglewood"}},
		{Kind: types.ItemVenue, Name: "Roundhouse"},
		{Kind: types.ItemGenre, Name: "Jazz"},
	} {
		_, err := r.ResolveOrCreate(ctx, d.Kind, d.Name, d.Context)
		require.NoError(t, err)
	}
}

func tableCounts(t *testing.T, s *store.Store) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for _, table := range []string{
		"items", "artists", "albums", "tracks", "venues", "genres",
		"album_artists", "track_artists", "track_albums",
	} {
		n, err := s.Q().Count(context.Background(), table)
		require.NoError(t, err)
		out[table] = n
	}
	return out
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, srcResolver := setupCatalog(t)
	seed(t, srcResolver)

	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	n, err := Export(ctx, src.Q(), path)
	require.NoError(t, err)
	assert.Equal(t, 13, n, "one line per item, tracks once per album link")

	dst, dstResolver := setupCatalog(t)
	rep, err := Import(ctx, dstResolver, path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Report{Lines: n, Resolved: n}, rep)
	assert.Equal(t, tableCounts(t, src), tableCounts(t, dst))

	// Importing again changes nothing.
	_, err = Import(ctx, dstResolver, path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, tableCounts(t, src), tableCounts(t, dst))
}

func TestExportOrdersParentsFirst(t *testing.T) {
	ctx := context.Background()
	s, r := setupCatalog(t)
	seed(t, r)

	var buf bytes.Buffer
	_, err := Write(ctx, s.Q(), &buf)
	require.NoError(t, err)

	var kinds []types.ItemType
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var d types.Descriptor
		require.NoError(t, json.Unmarshal([]byte(line), &d))
		assert.NotZero(t, d.ItemID)
		kinds = append(kinds, d.Kind)
	}
	firstTrack := -1
	lastAlbum := -1
	for i, k := range kinds {
		if k == types.ItemTrack && firstTrack < 0 {
			firstTrack = i
		}
		if k == types.ItemAlbum {
			lastAlbum = i
		}
	}
	assert.Less(t, lastAlbum, firstTrack)
}

func TestReadSkipsBadLines(t *testing.T) {
	ctx := context.Background()
	s, r := setupCatalog(t)

	input := strings.Join([]string{
		`{"type":"genre","name":"Jazz"}`,
		``,
		`{not json`,
		`{"type":"album","name":"Red"}`,
		`{"type":"playlist","name":"Mix"}`,
		`{"type":"track","name":"Closer","artistName":"X","albumName":"Y"}`,
	}, "\n")

	rep, err := Read(ctx, r, strings.NewReader(input), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Report{Lines: 5, Resolved: 2, Skipped: 3}, rep)

	n, err := s.Q().Count(ctx, "items")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n, "genre, artist, track, album")
}

func TestReadStopsOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	s, r := setupCatalog(t)
	require.NoError(t, s.Close())

	_, err := Read(ctx, r, strings.NewReader(`{"type":"genre","name":"Jazz"}`), zerolog.Nop())
	assert.ErrorIs(t, err, types.ErrStore)
}

func TestExportLeavesNoTempFileOnFailure(t *testing.T) {
	ctx := context.Background()
	s, r := setupCatalog(t)
	seed(t, r)
	q := s.Q()
	require.NoError(t, s.Close())

	dir := t.TempDir()
	_, err := Export(ctx, q, filepath.Join(dir, "catalog.jsonl"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
