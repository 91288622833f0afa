package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// AddFavorite records (user, item) unless present and reports whether it
// was added.
func (q *Queries) AddFavorite(ctx context.Context, userID, itemID int64) (bool, error) {
	n, err := q.exec(ctx, "add favorite",
		q.sb.Insert("favorites").Columns("user_id", "item_id", "created_at").
			Values(userID, itemID, q.timestamp()).
			Suffix("ON CONFLICT (user_id, item_id) DO NOTHING"))
	return n == 1, err
}

// RemoveFavorite deletes (user, item) and reports whether a row was removed.
func (q *Queries) RemoveFavorite(ctx context.Context, userID, itemID int64) (bool, error) {
	n, err := q.exec(ctx, "remove favorite",
		q.sb.Delete("favorites").Where(sq.Eq{"user_id": userID, "item_id": itemID}))
	return n > 0, err
}

// IsFavorite reports whether (user, item) is recorded.
func (q *Queries) IsFavorite(ctx context.Context, userID, itemID int64) (bool, error) {
	var one int
	return q.scanOne(ctx, "is favorite",
		q.sb.Select("1").From("favorites").Where(sq.Eq{"user_id": userID, "item_id": itemID}),
		&one)
}

// FavoritesByUser lists a user's favorites, newest first.
func (q *Queries) FavoritesByUser(ctx context.Context, userID int64) ([]types.Favorite, error) {
	out := []types.Favorite{}
	err := q.query(ctx, "favorites by user",
		q.sb.Select("f.user_id", "f.item_id", "i.item_type", "f.created_at").
			From("favorites f").
			Join("items i ON i.id = f.item_id").
			Where(sq.Eq{"f.user_id": userID}).
			OrderBy("f.created_at DESC", "f.item_id DESC"),
		func(rows *sql.Rows) error {
			var (
				f         types.Favorite
				kind      string
				createdAt string
			)
			if err := rows.Scan(&f.UserID, &f.ItemID, &kind, &createdAt); err != nil {
				return err
			}
			f.Kind = types.ItemType(kind)
			t, err := parseTimestamp(createdAt)
			if err != nil {
				return err
			}
			f.CreatedAt = t
			out = append(out, f)
			return nil
		})
	return out, err
}
