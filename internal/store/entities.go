package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// errUnboundRow reports a concrete row whose owning item was never set. The
// creation protocol makes this state invisible outside its transaction, so
// seeing it means the database was modified out of band.
var errUnboundRow = errors.New("concrete row has no owning item")

// concreteTables maps each item kind to its table.
var concreteTables = map[types.ItemType]string{
	types.ItemArtist: "artists",
	types.ItemAlbum:  "albums",
	types.ItemTrack:  "tracks",
	types.ItemVenue:  "venues",
	types.ItemGenre:  "genres",
}

func tableFor(kind types.ItemType) (string, error) {
	t, ok := concreteTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownItemType, kind)
	}
	return t, nil
}

// Claim is the outcome of inserting a concrete row keyed by its natural key.
// Created is true when this unit of work inserted the row; ItemID is then
// zero until the caller inserts and binds the item. Otherwise the row already
// existed and ItemID is its owning item.
type Claim struct {
	ConcreteID int64
	ItemID     int64
	Created    bool
}

// claim inserts a row and, on a natural key conflict, returns the existing
// row instead. It relies on INSERT ... ON CONFLICT DO NOTHING RETURNING, which
// both sqlite and postgres support; a concurrent inserter of the same key
// either blocks (postgres) or is serialized by the write lock (sqlite), so
// the follow-up read sees the committed winner.
func (q *Queries) claim(ctx context.Context, table string, ins sq.InsertBuilder, conflict string, key sq.Eq) (Claim, error) {
	op := "claim " + table

	var c Claim
	found, err := q.scanOne(ctx, op, ins.Suffix("ON CONFLICT ("+conflict+") DO NOTHING RETURNING id"), &c.ConcreteID)
	if err != nil {
		return Claim{}, err
	}
	if found {
		c.Created = true
		return c, nil
	}

	var itemID sql.NullInt64
	found, err = q.scanOne(ctx, op, q.sb.Select("id", "item_id").From(table).Where(key), &c.ConcreteID, &itemID)
	if err != nil {
		return Claim{}, err
	}
	if !found {
		return Claim{}, types.NewStoreError(op, fmt.Errorf("conflicting row in %s not visible", table))
	}
	if !itemID.Valid {
		return Claim{}, types.NewStoreError(op, fmt.Errorf("%s %d: %w", table, c.ConcreteID, errUnboundRow))
	}
	c.ItemID = itemID.Int64
	return c, nil
}

// ClaimArtist inserts an artist named name unless one exists.
func (q *Queries) ClaimArtist(ctx context.Context, name string) (Claim, error) {
	return q.claim(ctx, "artists",
		q.sb.Insert("artists").Columns("name").Values(name),
		"name", sq.Eq{"name": name})
}

// ClaimAlbum inserts an album under artistID unless the (name, artist) pair exists.
func (q *Queries) ClaimAlbum(ctx context.Context, name string, artistID int64) (Claim, error) {
	return q.claim(ctx, "albums",
		q.sb.Insert("albums").Columns("name", "artist_id").Values(name, artistID),
		"name, artist_id", sq.Eq{"name": name, "artist_id": artistID})
}

// ClaimTrack inserts a track under artistID unless the (title, artist) pair exists.
func (q *Queries) ClaimTrack(ctx context.Context, title string, artistID int64) (Claim, error) {
	return q.claim(ctx, "tracks",
		q.sb.Insert("tracks").Columns("title", "artist_id").Values(title, artistID),
		"title, artist_id", sq.Eq{"title": title, "artist_id": artistID})
}

// ClaimVenue inserts a venue unless the (name, location) pair exists.
func (q *Queries) ClaimVenue(ctx context.Context, name, location string) (Claim, error) {
	return q.claim(ctx, "venues",
		q.sb.Insert("venues").Columns("name", "location").Values(name, location),
		"name, location", sq.Eq{"name": name, "location": location})
}

// ClaimGenre inserts a genre named name unless one exists.
func (q *Queries) ClaimGenre(ctx context.Context, name string) (Claim, error) {
	return q.claim(ctx, "genres",
		q.sb.Insert("genres").Columns("name").Values(name),
		"name", sq.Eq{"name": name})
}

// InsertItem creates the item row for an already inserted concrete row.
func (q *Queries) InsertItem(ctx context.Context, ref types.ItemRef) (int64, error) {
	if _, err := tableFor(ref.Kind); err != nil {
		return 0, types.NewStoreError("insert item", err)
	}
	var id int64
	found, err := q.scanOne(ctx, "insert item",
		q.sb.Insert("items").Columns("item_type", "back_ref").
			Values(string(ref.Kind), ref.ConcreteID).
			Suffix("RETURNING id"),
		&id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, types.NewStoreError("insert item", errors.New("no id returned"))
	}
	return id, nil
}

// BindItem back-fills the owning item of the concrete row ref points at.
// The row must not be bound yet.
func (q *Queries) BindItem(ctx context.Context, ref types.ItemRef, itemID int64) error {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return types.NewStoreError("bind item", err)
	}
	n, err := q.exec(ctx, "bind "+table,
		q.sb.Update(table).Set("item_id", itemID).
			Where(sq.Eq{"id": ref.ConcreteID}).
			Where(sq.Eq{"item_id": nil}))
	if err != nil {
		return err
	}
	if n != 1 {
		return types.NewStoreError("bind "+table, fmt.Errorf("%s %d already bound or missing", table, ref.ConcreteID))
	}
	return nil
}

// GetItem reads an item by id.
func (q *Queries) GetItem(ctx context.Context, id int64) (types.Item, bool, error) {
	var (
		it   types.Item
		kind string
	)
	found, err := q.scanOne(ctx, "get item",
		q.sb.Select("id", "item_type", "back_ref").From("items").Where(sq.Eq{"id": id}),
		&it.ID, &kind, &it.Ref.ConcreteID)
	if err != nil || !found {
		return types.Item{}, found, err
	}
	it.Ref.Kind = types.ItemType(kind)
	return it, true, nil
}

// OwningItem returns the item_id stored on the concrete row ref points at.
func (q *Queries) OwningItem(ctx context.Context, ref types.ItemRef) (int64, bool, error) {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return 0, false, types.NewStoreError("owning item", err)
	}
	var itemID sql.NullInt64
	found, err := q.scanOne(ctx, "owning item "+table,
		q.sb.Select("item_id").From(table).Where(sq.Eq{"id": ref.ConcreteID}),
		&itemID)
	if err != nil || !found || !itemID.Valid {
		return 0, false, err
	}
	return itemID.Int64, true, nil
}

// bound restricts reads to rows whose creation committed.
var bound = sq.NotEq{"item_id": nil}

// FindArtist looks an artist up by exact name.
func (q *Queries) FindArtist(ctx context.Context, name string) (types.Artist, bool, error) {
	var a types.Artist
	found, err := q.scanOne(ctx, "find artist",
		q.sb.Select("id", "name", "item_id").From("artists").
			Where(sq.Eq{"name": name}).Where(bound),
		&a.ID, &a.Name, &a.ItemID)
	return a, found, err
}

// FindAlbumByArtist looks an album up by exact name among the albums linked
// to artistID through album_artists.
func (q *Queries) FindAlbumByArtist(ctx context.Context, name string, artistID int64) (types.Album, bool, error) {
	var a types.Album
	found, err := q.scanOne(ctx, "find album",
		q.sb.Select("al.id", "al.name", "al.artist_id", "al.item_id").
			From("albums al").
			Join("album_artists aa ON aa.album_id = al.id").
			Where(sq.Eq{"al.name": name, "aa.artist_id": artistID}).
			Where(sq.NotEq{"al.item_id": nil}).
			OrderBy("al.id").Limit(1),
		&a.ID, &a.Name, &a.ArtistID, &a.ItemID)
	return a, found, err
}

// FindTrackByArtist looks a track up by exact title among the tracks linked
// to artistID through track_artists.
func (q *Queries) FindTrackByArtist(ctx context.Context, title string, artistID int64) (types.Track, bool, error) {
	var t types.Track
	found, err := q.scanOne(ctx, "find track",
		q.sb.Select("t.id", "t.title", "t.artist_id", "t.item_id").
			From("tracks t").
			Join("track_artists ta ON ta.track_id = t.id").
			Where(sq.Eq{"t.title": title, "ta.artist_id": artistID}).
			Where(sq.NotEq{"t.item_id": nil}).
			OrderBy("t.id").Limit(1),
		&t.ID, &t.Title, &t.ArtistID, &t.ItemID)
	return t, found, err
}

// FindVenue looks a venue up by exact name. A non-empty location restricts
// the match to that location; an empty one matches any location.
func (q *Queries) FindVenue(ctx context.Context, name, location string) (types.Venue, bool, error) {
	b := q.sb.Select("id", "name", "location", "item_id").From("venues").
		Where(sq.Eq{"name": name}).Where(bound)
	if location != "" {
		b = b.Where(sq.Eq{"location": location})
	}
	var v types.Venue
	found, err := q.scanOne(ctx, "find venue", b.OrderBy("id").Limit(1),
		&v.ID, &v.Name, &v.Location, &v.ItemID)
	return v, found, err
}

// FindGenre looks a genre up by exact name.
func (q *Queries) FindGenre(ctx context.Context, name string) (types.Genre, bool, error) {
	var g types.Genre
	found, err := q.scanOne(ctx, "find genre",
		q.sb.Select("id", "name", "item_id").From("genres").
			Where(sq.Eq{"name": name}).Where(bound),
		&g.ID, &g.Name, &g.ItemID)
	return g, found, err
}

// Items lists every item, ascending by id.
func (q *Queries) Items(ctx context.Context) ([]types.Item, error) {
	out := []types.Item{}
	err := q.query(ctx, "items",
		q.sb.Select("id", "item_type", "back_ref").From("items").OrderBy("id"),
		func(rows *sql.Rows) error {
			var (
				it   types.Item
				kind string
			)
			if err := rows.Scan(&it.ID, &kind, &it.Ref.ConcreteID); err != nil {
				return err
			}
			it.Ref.Kind = types.ItemType(kind)
			out = append(out, it)
			return nil
		})
	return out, err
}
