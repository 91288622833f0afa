// Package crate is the public entry point of the catalog. Open wires the
// store, the item resolver and the social services for one configuration.
//
// Example:
//
//	cat, err := crate.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".crate",
//	})
//	if err != nil {
//	    return err
//	}
//	defer cat.Close()
//
//	id, err := cat.ResolveOrCreate(ctx, types.ItemAlbum, "Red",
//	    types.Context{ArtistName: "Taylor Swift"})
package crate

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/crate/internal/logging"
	"github.com/mesh-intelligence/crate/internal/resolver"
	"github.com/mesh-intelligence/crate/internal/social"
	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/internal/transfer"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// Request and result types of the catalog services.
type (
	RateInput    = social.RateInput
	ReviewPage   = social.ReviewPage
	ImportReport = transfer.Report
)

// Catalog is an open catalog. It is safe for concurrent use.
type Catalog struct {
	store    *store.Store
	resolver *resolver.Resolver
	log      zerolog.Logger

	Favorites *social.Favorites
	Reviews   *social.Reviews
	Lists     *social.Lists
	Tags      *social.ArticleTags
}

var (
	_ types.Resolver = (*Catalog)(nil)
	_ types.Finder   = (*Catalog)(nil)
)

type options struct {
	log zerolog.Logger
	reg prometheus.Registerer
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRegisterer registers the resolver metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// Open connects to the store described by cfg, applies the schema and
// returns a ready catalog.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (*Catalog, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := store.Open(ctx, cfg, store.WithLogger(logging.Component(o.log, "store")))
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	ropts := []resolver.Option{
		resolver.WithLogger(logging.Component(o.log, "resolver")),
		resolver.WithCache(cfg.CacheTTL),
	}
	if o.reg != nil {
		ropts = append(ropts, resolver.WithMetrics(resolver.NewMetrics(o.reg)))
	}
	r := resolver.New(s, ropts...)

	deps := social.Deps{
		Store:    s,
		Resolver: r,
		Finder:   r,
		Logger:   logging.Component(o.log, "social"),
	}
	return &Catalog{
		store:     s,
		resolver:  r,
		log:       o.log,
		Favorites: social.NewFavorites(deps),
		Reviews:   social.NewReviews(deps),
		Lists:     social.NewLists(deps),
		Tags:      social.NewArticleTags(deps),
	}, nil
}

// ResolveOrCreate returns the canonical item id for name, creating the
// item when it does not exist yet.
func (c *Catalog) ResolveOrCreate(ctx context.Context, kind types.ItemType, name string, cx types.Context) (int64, error) {
	return c.resolver.ResolveOrCreate(ctx, kind, name, cx)
}

// FindExisting returns the canonical item id for name without writing.
func (c *Catalog) FindExisting(ctx context.Context, kind types.ItemType, name string, cx types.Context) (int64, bool, error) {
	return c.resolver.FindExisting(ctx, kind, name, cx)
}

// Describe returns the name and context of an item. It fails with
// ErrNotFound when no such item exists.
func (c *Catalog) Describe(ctx context.Context, itemID int64) (types.Descriptor, error) {
	d, found, err := c.store.Q().Describe(ctx, itemID)
	if err != nil {
		return types.Descriptor{}, err
	}
	if !found {
		return types.Descriptor{}, fmt.Errorf("item %d: %w", itemID, types.ErrNotFound)
	}
	return d, nil
}

// Export writes every item to path as JSONL and returns the line count.
func (c *Catalog) Export(ctx context.Context, path string) (int, error) {
	return transfer.Export(ctx, c.store.Q(), path)
}

// Import replays a JSONL export into the catalog.
func (c *Catalog) Import(ctx context.Context, path string) (ImportReport, error) {
	rep, err := transfer.Import(ctx, c.resolver, path, logging.Component(c.log, "transfer"))
	if err != nil {
		return rep, err
	}
	c.log.Info().Int("resolved", rep.Resolved).Int("skipped", rep.Skipped).Str("path", path).Msg("import finished")
	return rep, nil
}

// Purge drops the in-process identity cache.
func (c *Catalog) Purge() { c.resolver.Purge() }

// Backend returns the name of the store backend.
func (c *Catalog) Backend() string { return c.store.Backend() }

// Ping checks that the store is reachable.
func (c *Catalog) Ping(ctx context.Context) error { return c.store.Ping(ctx) }

// Close releases the store. Further calls fail with ErrCatalogClosed or a
// store error. Close is idempotent.
func (c *Catalog) Close() error { return c.store.Close() }
