package types

import "time"

// Favorite marks an item as a favorite of a user. At most one per (user, item).
type Favorite struct {
	UserID    int64
	ItemID    int64
	Kind      ItemType
	CreatedAt time.Time
}

// Score bounds for reviews, both inclusive. Fractional scores are allowed.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Review is a user's rating of an item. At most one per (user, item);
// rating again updates score, title and body. Verified is fixed at creation.
type Review struct {
	ID        int64
	UserID    int64
	ItemID    int64
	Score     float64
	Title     string
	Body      string
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewStats aggregates the reviews of one item. Averages are nil when no
// review of that group exists.
type ReviewStats struct {
	ItemID          int64
	Verified        *float64
	Unverified      *float64
	VerifiedCount   int
	UnverifiedCount int
}

// List is a user-owned custom list of items. When Kind is set, every item in
// the list must be of that kind.
type List struct {
	ID        string // UUID v7
	UserID    int64
	Name      string
	Kind      *ItemType
	CreatedAt time.Time
	ItemIDs   []int64
}

// ArticleTag associates an article with an item.
type ArticleTag struct {
	ArticleID int64
	ItemID    int64
	Kind      ItemType
}
