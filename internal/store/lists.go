package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// CreateList inserts l. l.ID must already be assigned; CreatedAt is set here.
func (q *Queries) CreateList(ctx context.Context, l *types.List) error {
	created := q.timestamp()
	var kind any
	if l.Kind != nil {
		kind = string(*l.Kind)
	}
	if _, err := q.exec(ctx, "create list",
		q.sb.Insert("lists").Columns("id", "user_id", "name", "item_type", "created_at").
			Values(l.ID, l.UserID, l.Name, kind, created)); err != nil {
		return err
	}
	t, err := parseTimestamp(created)
	if err != nil {
		return types.NewStoreError("create list", err)
	}
	l.CreatedAt = t
	return nil
}

// GetList reads a list and its item ids in the order they were added.
func (q *Queries) GetList(ctx context.Context, id string) (types.List, bool, error) {
	var (
		l         types.List
		kind      sql.NullString
		createdAt string
	)
	found, err := q.scanOne(ctx, "get list",
		q.sb.Select("id", "user_id", "name", "item_type", "created_at").From("lists").Where(sq.Eq{"id": id}),
		&l.ID, &l.UserID, &l.Name, &kind, &createdAt)
	if err != nil || !found {
		return types.List{}, found, err
	}
	if err := finishList(&l, kind, createdAt); err != nil {
		return types.List{}, false, types.NewStoreError("get list", err)
	}
	if l.ItemIDs, err = q.listItemIDs(ctx, l.ID); err != nil {
		return types.List{}, false, err
	}
	return l, true, nil
}

// ListsByUser returns a user's lists, optionally only those of one kind,
// oldest first.
func (q *Queries) ListsByUser(ctx context.Context, userID int64, kind *types.ItemType) ([]types.List, error) {
	b := q.sb.Select("id", "user_id", "name", "item_type", "created_at").From("lists").
		Where(sq.Eq{"user_id": userID}).OrderBy("created_at", "id")
	if kind != nil {
		b = b.Where(sq.Eq{"item_type": string(*kind)})
	}

	out := []types.List{}
	err := q.query(ctx, "lists by user", b, func(rows *sql.Rows) error {
		var (
			l         types.List
			k         sql.NullString
			createdAt string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &k, &createdAt); err != nil {
			return err
		}
		if err := finishList(&l, k, createdAt); err != nil {
			return err
		}
		out = append(out, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ItemIDs, err = q.listItemIDs(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RenameList sets a list's name and reports whether the list exists.
func (q *Queries) RenameList(ctx context.Context, id, name string) (bool, error) {
	n, err := q.exec(ctx, "rename list",
		q.sb.Update("lists").Set("name", name).Where(sq.Eq{"id": id}))
	return n == 1, err
}

// DeleteList removes a list; its items go with it through the cascade.
func (q *Queries) DeleteList(ctx context.Context, id string) (bool, error) {
	n, err := q.exec(ctx, "delete list", q.sb.Delete("lists").Where(sq.Eq{"id": id}))
	return n == 1, err
}

// AddListItem appends item to list unless present and reports whether it was added.
func (q *Queries) AddListItem(ctx context.Context, listID string, itemID int64) (bool, error) {
	n, err := q.exec(ctx, "add list item",
		q.sb.Insert("list_items").Columns("list_id", "item_id", "added_at").
			Values(listID, itemID, q.timestamp()).
			Suffix("ON CONFLICT (list_id, item_id) DO NOTHING"))
	return n == 1, err
}

// RemoveListItem removes item from list and reports whether it was there.
func (q *Queries) RemoveListItem(ctx context.Context, listID string, itemID int64) (bool, error) {
	n, err := q.exec(ctx, "remove list item",
		q.sb.Delete("list_items").Where(sq.Eq{"list_id": listID, "item_id": itemID}))
	return n > 0, err
}

func (q *Queries) listItemIDs(ctx context.Context, listID string) ([]int64, error) {
	return q.int64s(ctx, "list items",
		q.sb.Select("item_id").From("list_items").
			Where(sq.Eq{"list_id": listID}).OrderBy("added_at", "item_id"))
}

func finishList(l *types.List, kind sql.NullString, createdAt string) error {
	if kind.Valid {
		k := types.ItemType(kind.String)
		l.Kind = &k
	}
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return err
	}
	l.CreatedAt = t
	return nil
}
