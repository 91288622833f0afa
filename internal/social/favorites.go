package social

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// Favorites records which items a user has marked as favorite.
type Favorites struct {
	Deps
}

// NewFavorites returns the favorites service.
func NewFavorites(d Deps) *Favorites {
	return &Favorites{Deps: d}
}

// Add resolves the item, creating it when unknown, and marks it as a
// favorite of userID. Adding twice is a no-op. It returns the item id.
func (f *Favorites) Add(ctx context.Context, userID int64, kind types.ItemType, name string, c types.Context) (int64, error) {
	if err := checkUser(userID); err != nil {
		return 0, err
	}
	itemID, err := f.Resolver.ResolveOrCreate(ctx, kind, name, c)
	if err != nil {
		return 0, err
	}
	added, err := f.Store.Q().AddFavorite(ctx, userID, itemID)
	if err != nil {
		return 0, fmt.Errorf("adding favorite: %w", err)
	}
	if added {
		f.Logger.Debug().Int64("user_id", userID).Int64("item_id", itemID).Msg("favorite added")
	}
	return itemID, nil
}

// Remove unmarks the item. An unknown item or a missing favorite is a
// no-op; removed reports whether a favorite was deleted.
func (f *Favorites) Remove(ctx context.Context, userID int64, kind types.ItemType, name string, c types.Context) (removed bool, err error) {
	if err := checkUser(userID); err != nil {
		return false, err
	}
	itemID, found, err := f.Finder.FindExisting(ctx, kind, name, c)
	if err != nil || !found {
		return false, err
	}
	removed, err = f.Store.Q().RemoveFavorite(ctx, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("removing favorite: %w", err)
	}
	return removed, nil
}

// IsFavorite reports whether userID has marked the item. It never creates
// the item.
func (f *Favorites) IsFavorite(ctx context.Context, userID int64, kind types.ItemType, name string, c types.Context) (bool, error) {
	if err := checkUser(userID); err != nil {
		return false, err
	}
	itemID, found, err := f.Finder.FindExisting(ctx, kind, name, c)
	if err != nil || !found {
		return false, err
	}
	return f.Store.Q().IsFavorite(ctx, userID, itemID)
}

// ListByUser returns the user's favorites, newest first.
func (f *Favorites) ListByUser(ctx context.Context, userID int64) ([]types.Favorite, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	return f.Store.Q().FavoritesByUser(ctx, userID)
}
