// Package social implements the features that hang user activity off
// canonical items: favorites, reviews, custom lists and article tags.
//
// Consumers reach the catalog only through ItemResolver and ItemFinder.
// Writes resolve (and possibly create) the item first; removals and reads
// by name use the finder, so asking about an unknown name never creates it.
package social

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// ItemResolver finds or creates an item.
type ItemResolver interface {
	ResolveOrCreate(ctx context.Context, kind types.ItemType, name string, c types.Context) (int64, error)
}

// ItemFinder finds an item without writing.
type ItemFinder interface {
	FindExisting(ctx context.Context, kind types.ItemType, name string, c types.Context) (int64, bool, error)
}

// Deps are the collaborators every service shares.
type Deps struct {
	Store    *store.Store
	Resolver ItemResolver
	Finder   ItemFinder
	Logger   zerolog.Logger
}

func checkUser(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: %d", types.ErrInvalidUser, userID)
	}
	return nil
}

func checkID(what string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s %d: %w", what, id, types.ErrInvalidID)
	}
	return nil
}

// requireItem fails with ErrNotFound unless item id exists.
func requireItem(ctx context.Context, q *store.Queries, id int64) (types.Item, error) {
	it, found, err := q.GetItem(ctx, id)
	if err != nil {
		return types.Item{}, err
	}
	if !found {
		return types.Item{}, fmt.Errorf("item %d: %w", id, types.ErrNotFound)
	}
	return it, nil
}
