package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// AddArticleTag tags an article with an item unless already tagged.
func (q *Queries) AddArticleTag(ctx context.Context, articleID, itemID int64) (bool, error) {
	n, err := q.exec(ctx, "add article tag",
		q.sb.Insert("article_tags").Columns("article_id", "item_id", "created_at").
			Values(articleID, itemID, q.timestamp()).
			Suffix("ON CONFLICT (article_id, item_id) DO NOTHING"))
	return n == 1, err
}

// RemoveArticleTag removes a tag and reports whether it existed.
func (q *Queries) RemoveArticleTag(ctx context.Context, articleID, itemID int64) (bool, error) {
	n, err := q.exec(ctx, "remove article tag",
		q.sb.Delete("article_tags").Where(sq.Eq{"article_id": articleID, "item_id": itemID}))
	return n > 0, err
}

// ArticleTags lists the items an article is tagged with, in tagging order.
func (q *Queries) ArticleTags(ctx context.Context, articleID int64) ([]types.ArticleTag, error) {
	out := []types.ArticleTag{}
	err := q.query(ctx, "article tags",
		q.sb.Select("t.article_id", "t.item_id", "i.item_type").
			From("article_tags t").
			Join("items i ON i.id = t.item_id").
			Where(sq.Eq{"t.article_id": articleID}).
			OrderBy("t.created_at", "t.item_id"),
		func(rows *sql.Rows) error {
			var (
				tag  types.ArticleTag
				kind string
			)
			if err := rows.Scan(&tag.ArticleID, &tag.ItemID, &kind); err != nil {
				return err
			}
			tag.Kind = types.ItemType(kind)
			out = append(out, tag)
			return nil
		})
	return out, err
}

// ArticlesTagged returns the ids of articles tagged with item, ascending.
func (q *Queries) ArticlesTagged(ctx context.Context, itemID int64) ([]int64, error) {
	return q.int64s(ctx, "articles tagged",
		q.sb.Select("article_id").From("article_tags").
			Where(sq.Eq{"item_id": itemID}).OrderBy("article_id"))
}
