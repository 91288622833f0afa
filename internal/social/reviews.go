package social

import (
	"context"
	"fmt"
	"math"

	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// DefaultPageSize applies when ByItem is called without a limit.
const DefaultPageSize = 20

// RateInput names the item being rated and carries the review.
type RateInput struct {
	UserID   int64
	Kind     types.ItemType
	Name     string
	Context  types.Context
	Score    float64
	Title    string
	Body     string
	Verified bool
}

// ReviewPage is one page of reviews. Next is the cursor for the following
// page, or zero when this page is the last.
type ReviewPage struct {
	Reviews []types.Review
	Next    int64
}

// Reviews stores user ratings of items.
type Reviews struct {
	Deps
}

// NewReviews returns the reviews service.
func NewReviews(d Deps) *Reviews {
	return &Reviews{Deps: d}
}

// Rate resolves the item and records the user's review of it. Rating the
// same item again replaces score, title and body; whether the review is
// verified is decided by the first rating.
func (r *Reviews) Rate(ctx context.Context, in RateInput) (types.Review, error) {
	if err := checkUser(in.UserID); err != nil {
		return types.Review{}, err
	}
	if math.IsNaN(in.Score) || in.Score < types.MinScore || in.Score > types.MaxScore {
		return types.Review{}, fmt.Errorf("%w: %g not in [%g, %g]",
			types.ErrInvalidScore, in.Score, types.MinScore, types.MaxScore)
	}

	itemID, err := r.Resolver.ResolveOrCreate(ctx, in.Kind, in.Name, in.Context)
	if err != nil {
		return types.Review{}, err
	}
	rev, err := r.Store.Q().UpsertReview(ctx, types.Review{
		UserID:   in.UserID,
		ItemID:   itemID,
		Score:    in.Score,
		Title:    in.Title,
		Body:     in.Body,
		Verified: in.Verified,
	})
	if err != nil {
		return types.Review{}, fmt.Errorf("saving review: %w", err)
	}
	r.Logger.Debug().Int64("user_id", in.UserID).Int64("item_id", itemID).Float64("score", rev.Score).Msg("review saved")
	return rev, nil
}

// Stats returns the verified and unverified averages and counts of an item.
func (r *Reviews) Stats(ctx context.Context, itemID int64) (types.ReviewStats, error) {
	if err := checkID("item", itemID); err != nil {
		return types.ReviewStats{}, err
	}
	return r.Store.Q().ReviewStats(ctx, itemID)
}

// StatsFor looks the item up by name. An unknown item has empty stats and
// is not created.
func (r *Reviews) StatsFor(ctx context.Context, kind types.ItemType, name string, c types.Context) (types.ReviewStats, error) {
	itemID, found, err := r.Finder.FindExisting(ctx, kind, name, c)
	if err != nil {
		return types.ReviewStats{}, err
	}
	if !found {
		return types.ReviewStats{}, nil
	}
	return r.Stats(ctx, itemID)
}

// ByItem pages the reviews of one verified group of an item, newest first.
// cursor is zero for the first page and the previous page's Next after.
func (r *Reviews) ByItem(ctx context.Context, itemID int64, verified bool, limit int, cursor int64) (ReviewPage, error) {
	if err := checkID("item", itemID); err != nil {
		return ReviewPage{}, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	revs, err := r.Store.Q().ReviewsByItem(ctx, itemID, verified, limit, cursor)
	if err != nil {
		return ReviewPage{}, err
	}
	page := ReviewPage{Reviews: revs}
	if len(revs) == limit {
		page.Next = revs[len(revs)-1].ID
	}
	return page, nil
}

// Mine returns the review userID left on an item, if any.
func (r *Reviews) Mine(ctx context.Context, userID, itemID int64) (types.Review, bool, error) {
	if err := checkUser(userID); err != nil {
		return types.Review{}, false, err
	}
	if err := checkID("item", itemID); err != nil {
		return types.Review{}, false, err
	}
	return r.Store.Q().GetReview(ctx, userID, itemID)
}

// Remove deletes a review written by userID. Reviews of other users are
// ErrForbidden.
func (r *Reviews) Remove(ctx context.Context, userID, reviewID int64) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	if err := checkID("review", reviewID); err != nil {
		return err
	}
	err := r.Store.InTx(ctx, func(q *store.Queries) error {
		rev, found, err := q.GetReviewByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("review %d: %w", reviewID, types.ErrNotFound)
		}
		if rev.UserID != userID {
			return fmt.Errorf("review %d: %w", reviewID, types.ErrForbidden)
		}
		_, err = q.DeleteReview(ctx, reviewID)
		return err
	})
	if err != nil {
		return err
	}
	r.Logger.Debug().Int64("user_id", userID).Int64("review_id", reviewID).Msg("review removed")
	return nil
}
