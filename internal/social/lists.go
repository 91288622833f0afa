package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// ErrEmptyListName is returned when creating or renaming a list without a
// name. It matches types.ErrInvalidName.
var ErrEmptyListName = fmt.Errorf("list %w", types.ErrInvalidName)

// Lists manages user-owned custom lists.
type Lists struct {
	Deps
}

// NewLists returns the lists service.
func NewLists(d Deps) *Lists {
	return &Lists{Deps: d}
}

// Create makes an empty list. A non-nil kind restricts the list to items
// of that kind.
func (l *Lists) Create(ctx context.Context, userID int64, name string, kind *types.ItemType) (types.List, error) {
	if err := checkUser(userID); err != nil {
		return types.List{}, err
	}
	if name == "" {
		return types.List{}, ErrEmptyListName
	}
	if kind != nil && !kind.Valid() {
		return types.List{}, fmt.Errorf("%w: %q", types.ErrUnknownItemType, *kind)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return types.List{}, fmt.Errorf("generating list id: %w", err)
	}
	list := types.List{ID: id.String(), UserID: userID, Name: name, Kind: kind, ItemIDs: []int64{}}
	if err := l.Store.Q().CreateList(ctx, &list); err != nil {
		return types.List{}, fmt.Errorf("creating list: %w", err)
	}
	return list, nil
}

// Get returns a list owned by userID with its item ids in the order they
// were added.
func (l *Lists) Get(ctx context.Context, userID int64, listID string) (types.List, error) {
	if err := checkUser(userID); err != nil {
		return types.List{}, err
	}
	return owned(ctx, l.Store.Q(), userID, listID)
}

// Rename changes the name of a list owned by userID.
func (l *Lists) Rename(ctx context.Context, userID int64, listID, name string) (types.List, error) {
	if err := checkUser(userID); err != nil {
		return types.List{}, err
	}
	if name == "" {
		return types.List{}, ErrEmptyListName
	}
	var list types.List
	err := l.Store.InTx(ctx, func(q *store.Queries) error {
		var err error
		if list, err = owned(ctx, q, userID, listID); err != nil {
			return err
		}
		if _, err := q.RenameList(ctx, listID, name); err != nil {
			return err
		}
		list.Name = name
		return nil
	})
	if err != nil {
		return types.List{}, err
	}
	return list, nil
}

// Delete removes a list owned by userID together with its entries. The
// items themselves stay.
func (l *Lists) Delete(ctx context.Context, userID int64, listID string) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	err := l.Store.InTx(ctx, func(q *store.Queries) error {
		if _, err := owned(ctx, q, userID, listID); err != nil {
			return err
		}
		_, err := q.DeleteList(ctx, listID)
		return err
	})
	if err != nil {
		return err
	}
	l.Logger.Debug().Int64("user_id", userID).Str("list_id", listID).Msg("list deleted")
	return nil
}

// ByUser returns the user's lists, optionally only those of one kind.
func (l *Lists) ByUser(ctx context.Context, userID int64, kind *types.ItemType) ([]types.List, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	return l.Store.Q().ListsByUser(ctx, userID, kind)
}

// AddItem appends an existing item to a list owned by userID. Adding an
// item twice is a no-op.
func (l *Lists) AddItem(ctx context.Context, userID int64, listID string, itemID int64) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	return l.Store.InTx(ctx, func(q *store.Queries) error {
		list, err := owned(ctx, q, userID, listID)
		if err != nil {
			return err
		}
		it, err := requireItem(ctx, q, itemID)
		if err != nil {
			return err
		}
		if list.Kind != nil && *list.Kind != it.Ref.Kind {
			return fmt.Errorf("%w: list %s holds %ss, item %d is a %s",
				types.ErrInvalidContext, listID, *list.Kind, itemID, it.Ref.Kind)
		}
		_, err = q.AddListItem(ctx, listID, itemID)
		return err
	})
}

// AddByName resolves the item, creating it when unknown, and adds it to
// the list. It returns the item id.
func (l *Lists) AddByName(ctx context.Context, userID int64, listID string, kind types.ItemType, name string, c types.Context) (int64, error) {
	if err := checkUser(userID); err != nil {
		return 0, err
	}
	// Check the list before resolving so a bad request creates nothing.
	list, err := owned(ctx, l.Store.Q(), userID, listID)
	if err != nil {
		return 0, err
	}
	if list.Kind != nil && *list.Kind != kind {
		return 0, fmt.Errorf("%w: list %s holds %ss, not %ss", types.ErrInvalidContext, listID, *list.Kind, kind)
	}
	itemID, err := l.Resolver.ResolveOrCreate(ctx, kind, name, c)
	if err != nil {
		return 0, err
	}
	return itemID, l.AddItem(ctx, userID, listID, itemID)
}

// RemoveItem removes an item from a list owned by userID. Removing an item
// that is not in the list is a no-op.
func (l *Lists) RemoveItem(ctx context.Context, userID int64, listID string, itemID int64) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	return l.Store.InTx(ctx, func(q *store.Queries) error {
		if _, err := owned(ctx, q, userID, listID); err != nil {
			return err
		}
		_, err := q.RemoveListItem(ctx, listID, itemID)
		return err
	})
}

// owned reads a list and checks that userID owns it.
func owned(ctx context.Context, q *store.Queries, userID int64, listID string) (types.List, error) {
	list, found, err := q.GetList(ctx, listID)
	if err != nil {
		return types.List{}, err
	}
	if !found {
		return types.List{}, fmt.Errorf("list %s: %w", listID, types.ErrNotFound)
	}
	if list.UserID != userID {
		return types.List{}, fmt.Errorf("list %s: %w", listID, types.ErrForbidden)
	}
	return list, nil
}
