package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// firstAlbum selects the lowest linked album name of track t, or ''.
const firstAlbum = `COALESCE((SELECT al.name FROM track_albums ta JOIN albums al ON al.id = ta.album_id
    WHERE ta.track_id = t.id ORDER BY ta.album_id LIMIT 1), '')`

// Describe returns the name and context that resolve to item id.
func (q *Queries) Describe(ctx context.Context, id int64) (types.Descriptor, bool, error) {
	it, found, err := q.GetItem(ctx, id)
	if err != nil || !found {
		return types.Descriptor{}, found, err
	}

	d := types.Descriptor{ItemID: it.ID, Kind: it.Ref.Kind}
	var b sq.SelectBuilder
	var dest []any
	switch it.Ref.Kind {
	case types.ItemArtist:
		b = q.sb.Select("name").From("artists").Where(sq.Eq{"id": it.Ref.ConcreteID})
		dest = []any{&d.Name}
	case types.ItemAlbum:
		b = q.sb.Select("al.name", "ar.name").From("albums al").
			Join("artists ar ON ar.id = al.artist_id").
			Where(sq.Eq{"al.id": it.Ref.ConcreteID})
		dest = []any{&d.Name, &d.ArtistName}
	case types.ItemTrack:
		b = q.sb.Select("t.title", "ar.name", firstAlbum).From("tracks t").
			Join("artists ar ON ar.id = t.artist_id").
			Where(sq.Eq{"t.id": it.Ref.ConcreteID})
		dest = []any{&d.Name, &d.ArtistName, &d.AlbumName}
	case types.ItemVenue:
		b = q.sb.Select("name", "location").From("venues").Where(sq.Eq{"id": it.Ref.ConcreteID})
		dest = []any{&d.Name, &d.Location}
	case types.ItemGenre:
		b = q.sb.Select("name").From("genres").Where(sq.Eq{"id": it.Ref.ConcreteID})
		dest = []any{&d.Name}
	default:
		return types.Descriptor{}, false, types.NewStoreError("describe",
			fmt.Errorf("item %d: %w: %q", id, types.ErrUnknownItemType, it.Ref.Kind))
	}

	found, err = q.scanOne(ctx, "describe "+string(it.Ref.Kind), b, dest...)
	if err != nil {
		return types.Descriptor{}, false, err
	}
	if !found {
		return types.Descriptor{}, false, types.NewStoreError("describe",
			fmt.Errorf("item %d points at missing %s", id, it.Ref))
	}
	return d, true, nil
}

// DescribeAll streams a descriptor for every bound item, grouped by kind in
// dependency order (artists before albums before tracks). A track linked to
// several albums yields one descriptor per album so that replaying the
// stream recreates every link.
func (q *Queries) DescribeAll(ctx context.Context, fn func(types.Descriptor) error) error {
	type pass struct {
		kind types.ItemType
		b    sq.SelectBuilder
		scan func(*sql.Rows, *types.Descriptor) error
	}
	passes := []pass{
		{
			kind: types.ItemArtist,
			b:    q.sb.Select("item_id", "name").From("artists").Where(bound).OrderBy("item_id"),
			scan: func(r *sql.Rows, d *types.Descriptor) error { return r.Scan(&d.ItemID, &d.Name) },
		},
		{
			kind: types.ItemGenre,
			b:    q.sb.Select("item_id", "name").From("genres").Where(bound).OrderBy("item_id"),
			scan: func(r *sql.Rows, d *types.Descriptor) error { return r.Scan(&d.ItemID, &d.Name) },
		},
		{
			kind: types.ItemVenue,
			b:    q.sb.Select("item_id", "name", "location").From("venues").Where(bound).OrderBy("item_id"),
			scan: func(r *sql.Rows, d *types.Descriptor) error { return r.Scan(&d.ItemID, &d.Name, &d.Location) },
		},
		{
			kind: types.ItemAlbum,
			b: q.sb.Select("al.item_id", "al.name", "ar.name").From("albums al").
				Join("artists ar ON ar.id = al.artist_id").
				Where(sq.NotEq{"al.item_id": nil}).OrderBy("al.item_id"),
			scan: func(r *sql.Rows, d *types.Descriptor) error { return r.Scan(&d.ItemID, &d.Name, &d.ArtistName) },
		},
		{
			kind: types.ItemTrack,
			b: q.sb.Select("t.item_id", "t.title", "ar.name", "COALESCE(al.name, '')").From("tracks t").
				Join("artists ar ON ar.id = t.artist_id").
				LeftJoin("track_albums ta ON ta.track_id = t.id").
				LeftJoin("albums al ON al.id = ta.album_id").
				Where(sq.NotEq{"t.item_id": nil}).OrderBy("t.item_id", "ta.album_id"),
			scan: func(r *sql.Rows, d *types.Descriptor) error {
				return r.Scan(&d.ItemID, &d.Name, &d.ArtistName, &d.AlbumName)
			},
		},
	}

	for _, p := range passes {
		var pending []types.Descriptor
		err := q.query(ctx, "describe "+string(p.kind)+"s", p.b, func(rows *sql.Rows) error {
			d := types.Descriptor{Kind: p.kind}
			if err := p.scan(rows, &d); err != nil {
				return err
			}
			pending = append(pending, d)
			return nil
		})
		if err != nil {
			return err
		}
		for _, d := range pending {
			if err := fn(d); err != nil {
				return err
			}
		}
	}
	return nil
}
