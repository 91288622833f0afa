package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// link inserts a pair into a link table unless it is already there and
// reports whether a row was added. Link rows are never updated or deleted.
func (q *Queries) link(ctx context.Context, table, leftCol, rightCol string, left, right int64) (bool, error) {
	n, err := q.exec(ctx, "link "+table,
		q.sb.Insert(table).Columns(leftCol, rightCol).Values(left, right).
			Suffix("ON CONFLICT DO NOTHING"))
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// LinkAlbumArtist ensures the album is linked to the artist.
func (q *Queries) LinkAlbumArtist(ctx context.Context, albumID, artistID int64) (bool, error) {
	return q.link(ctx, "album_artists", "album_id", "artist_id", albumID, artistID)
}

// LinkTrackArtist ensures the track is linked to the artist.
func (q *Queries) LinkTrackArtist(ctx context.Context, trackID, artistID int64) (bool, error) {
	return q.link(ctx, "track_artists", "track_id", "artist_id", trackID, artistID)
}

// LinkTrackAlbum ensures the track is linked to the album. A track may be
// linked to any number of albums; the link is additive.
func (q *Queries) LinkTrackAlbum(ctx context.Context, trackID, albumID int64) (bool, error) {
	return q.link(ctx, "track_albums", "track_id", "album_id", trackID, albumID)
}

// AlbumArtistIDs returns the artists linked to an album, ascending.
func (q *Queries) AlbumArtistIDs(ctx context.Context, albumID int64) ([]int64, error) {
	return q.int64s(ctx, "album artists",
		q.sb.Select("artist_id").From("album_artists").
			Where(sq.Eq{"album_id": albumID}).OrderBy("artist_id"))
}

// TrackArtistIDs returns the artists linked to a track, ascending.
func (q *Queries) TrackArtistIDs(ctx context.Context, trackID int64) ([]int64, error) {
	return q.int64s(ctx, "track artists",
		q.sb.Select("artist_id").From("track_artists").
			Where(sq.Eq{"track_id": trackID}).OrderBy("artist_id"))
}

// TrackAlbumIDs returns the albums linked to a track, ascending.
func (q *Queries) TrackAlbumIDs(ctx context.Context, trackID int64) ([]int64, error) {
	return q.int64s(ctx, "track albums",
		q.sb.Select("album_id").From("track_albums").
			Where(sq.Eq{"track_id": trackID}).OrderBy("album_id"))
}
