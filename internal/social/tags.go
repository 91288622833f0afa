package social

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// ArticleTags links editorial articles to the items they mention.
type ArticleTags struct {
	Deps
}

// NewArticleTags returns the article tags service.
func NewArticleTags(d Deps) *ArticleTags {
	return &ArticleTags{Deps: d}
}

// Tag resolves the item, creating it when unknown, and tags the article
// with it. It returns the item id.
func (a *ArticleTags) Tag(ctx context.Context, articleID int64, kind types.ItemType, name string, c types.Context) (int64, error) {
	if err := checkID("article", articleID); err != nil {
		return 0, err
	}
	itemID, err := a.Resolver.ResolveOrCreate(ctx, kind, name, c)
	if err != nil {
		return 0, err
	}
	if _, err := a.Store.Q().AddArticleTag(ctx, articleID, itemID); err != nil {
		return 0, fmt.Errorf("tagging article: %w", err)
	}
	return itemID, nil
}

// Untag removes a tag. An unknown item or missing tag is a no-op.
func (a *ArticleTags) Untag(ctx context.Context, articleID int64, kind types.ItemType, name string, c types.Context) (bool, error) {
	if err := checkID("article", articleID); err != nil {
		return false, err
	}
	itemID, found, err := a.Finder.FindExisting(ctx, kind, name, c)
	if err != nil || !found {
		return false, err
	}
	return a.Store.Q().RemoveArticleTag(ctx, articleID, itemID)
}

// TagsOf lists the items an article is tagged with.
func (a *ArticleTags) TagsOf(ctx context.Context, articleID int64) ([]types.ArticleTag, error) {
	if err := checkID("article", articleID); err != nil {
		return nil, err
	}
	return a.Store.Q().ArticleTags(ctx, articleID)
}

// ArticlesFor lists the articles tagged with an item.
func (a *ArticleTags) ArticlesFor(ctx context.Context, itemID int64) ([]int64, error) {
	if err := checkID("item", itemID); err != nil {
		return nil, err
	}
	return a.Store.Q().ArticlesTagged(ctx, itemID)
}
