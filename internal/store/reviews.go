package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

const reviewColumns = "id, user_id, item_id, score, title, body, verified, created_at, updated_at"

// UpsertReview inserts r or, when the user already reviewed the item,
// overwrites score, title and body. Verified and created_at keep their
// first values. It returns the stored review.
func (q *Queries) UpsertReview(ctx context.Context, r types.Review) (types.Review, error) {
	now := q.timestamp()
	b := q.sb.Insert("reviews").
		Columns("user_id", "item_id", "score", "title", "body", "verified", "created_at", "updated_at").
		Values(r.UserID, r.ItemID, r.Score, r.Title, r.Body, boolInt(r.Verified), now, now).
		Suffix(`ON CONFLICT (user_id, item_id) DO UPDATE SET
    score = excluded.score, title = excluded.title, body = excluded.body, updated_at = excluded.updated_at
RETURNING ` + reviewColumns)

	var out types.Review
	row := newReviewScanner(&out)
	found, err := q.scanOne(ctx, "upsert review", b, row.dest()...)
	if err != nil {
		return types.Review{}, err
	}
	if !found {
		return types.Review{}, types.NewStoreError("upsert review", sql.ErrNoRows)
	}
	if err := row.finish(); err != nil {
		return types.Review{}, types.NewStoreError("upsert review", err)
	}
	return out, nil
}

// GetReview reads the review a user left on an item.
func (q *Queries) GetReview(ctx context.Context, userID, itemID int64) (types.Review, bool, error) {
	var out types.Review
	row := newReviewScanner(&out)
	found, err := q.scanOne(ctx, "get review",
		q.sb.Select(reviewColumns).From("reviews").Where(sq.Eq{"user_id": userID, "item_id": itemID}),
		row.dest()...)
	if err != nil || !found {
		return types.Review{}, found, err
	}
	if err := row.finish(); err != nil {
		return types.Review{}, false, types.NewStoreError("get review", err)
	}
	return out, true, nil
}

// GetReviewByID reads one review.
func (q *Queries) GetReviewByID(ctx context.Context, id int64) (types.Review, bool, error) {
	var out types.Review
	row := newReviewScanner(&out)
	found, err := q.scanOne(ctx, "get review by id",
		q.sb.Select(reviewColumns).From("reviews").Where(sq.Eq{"id": id}),
		row.dest()...)
	if err != nil || !found {
		return types.Review{}, found, err
	}
	if err := row.finish(); err != nil {
		return types.Review{}, false, types.NewStoreError("get review by id", err)
	}
	return out, true, nil
}

// DeleteReview removes a review and reports whether it existed.
func (q *Queries) DeleteReview(ctx context.Context, id int64) (bool, error) {
	n, err := q.exec(ctx, "delete review", q.sb.Delete("reviews").Where(sq.Eq{"id": id}))
	return n == 1, err
}

// ReviewStats aggregates an item's reviews by verified flag.
func (q *Queries) ReviewStats(ctx context.Context, itemID int64) (types.ReviewStats, error) {
	stats := types.ReviewStats{ItemID: itemID}
	err := q.query(ctx, "review stats",
		q.sb.Select("verified", "AVG(CAST(score AS DOUBLE PRECISION))", "COUNT(*)").
			From("reviews").Where(sq.Eq{"item_id": itemID}).GroupBy("verified"),
		func(rows *sql.Rows) error {
			var (
				verified int
				avg      float64
				count    int
			)
			if err := rows.Scan(&verified, &avg, &count); err != nil {
				return err
			}
			if verified == 1 {
				stats.Verified, stats.VerifiedCount = &avg, count
			} else {
				stats.Unverified, stats.UnverifiedCount = &avg, count
			}
			return nil
		})
	return stats, err
}

// ReviewsByItem pages an item's reviews of one verified group, newest first.
// before is the id of the last review of the previous page, or 0.
func (q *Queries) ReviewsByItem(ctx context.Context, itemID int64, verified bool, limit int, before int64) ([]types.Review, error) {
	b := q.sb.Select(reviewColumns).From("reviews").
		Where(sq.Eq{"item_id": itemID, "verified": boolInt(verified)}).
		OrderBy("id DESC")
	if before > 0 {
		b = b.Where(sq.Lt{"id": before})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	out := []types.Review{}
	err := q.query(ctx, "reviews by item", b, func(rows *sql.Rows) error {
		var r types.Review
		s := newReviewScanner(&r)
		if err := rows.Scan(s.dest()...); err != nil {
			return err
		}
		if err := s.finish(); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// reviewScanner adapts reviewColumns to a types.Review.
type reviewScanner struct {
	r         *types.Review
	verified  int
	createdAt string
	updatedAt string
}

func newReviewScanner(r *types.Review) *reviewScanner {
	return &reviewScanner{r: r}
}

func (s *reviewScanner) dest() []any {
	return []any{&s.r.ID, &s.r.UserID, &s.r.ItemID, &s.r.Score, &s.r.Title, &s.r.Body,
		&s.verified, &s.createdAt, &s.updatedAt}
}

func (s *reviewScanner) finish() error {
	s.r.Verified = s.verified == 1
	var err error
	if s.r.CreatedAt, err = parseTimestamp(s.createdAt); err != nil {
		return err
	}
	s.r.UpdatedAt, err = parseTimestamp(s.updatedAt)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
