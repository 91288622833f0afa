// Package resolver gives every artist, album, track, venue and genre one
// canonical item id. ResolveOrCreate finds or creates the item for a name
// plus disambiguating context; FindExisting applies the same rules without
// writing.
//
// Creation is one transaction: the concrete row is claimed by its natural
// key with an insert-on-conflict, the item row is inserted pointing at it,
// and the concrete row is bound back to the item. Concurrent resolutions of
// the same new name therefore create it once; the others read the winner.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

var (
	_ types.Resolver = (*Resolver)(nil)
	_ types.Finder   = (*Resolver)(nil)
)

// Resolver implements types.Resolver and types.Finder over a store.
// It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	store   *store.Store
	log     zerolog.Logger
	metrics *Metrics
	cache   *identityCache
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// WithMetrics records resolutions on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithCache enables the process-wide identity cache for ttl. Zero disables it.
func WithCache(ttl time.Duration) Option {
	return func(r *Resolver) { r.cache = newIdentityCache(ttl) }
}

// New returns a Resolver backed by s.
func New(s *store.Store, opts ...Option) *Resolver {
	r := &Resolver{store: s, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// validate rejects a request before any store access.
func validate(kind types.ItemType, name string, c types.Context) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", types.ErrUnknownItemType, kind)
	}
	if name == "" {
		return fmt.Errorf("%s: %w", kind, types.ErrInvalidName)
	}
	return c.Require(kind)
}

// metricKind keeps caller-supplied garbage out of metric labels.
func metricKind(kind types.ItemType) types.ItemType {
	if kind.Valid() {
		return kind
	}
	return "unknown"
}

// ResolveOrCreate returns the item id for name under context c, creating
// the item, its concrete row and any missing links when absent. It fails
// with ErrInvalidContext (or ErrInvalidName, ErrUnknownItemType) before any
// write, and with an ErrStore error when persistence fails; in that case
// nothing was written and the call may be retried.
func (r *Resolver) ResolveOrCreate(ctx context.Context, kind types.ItemType, name string, c types.Context) (int64, error) {
	start := time.Now()
	if err := validate(kind, name, c); err != nil {
		r.metrics.observe(metricKind(kind), opResolve, outcomeInvalid, start)
		return 0, err
	}

	// A track resolution that names an album may still owe a link.
	key := cacheKey(kind, name, c)
	cacheable := !(kind == types.ItemTrack && c.AlbumName != "")
	if cacheable {
		if id, ok := r.cache.get(key); ok {
			r.metrics.cacheHit(kind, opResolve)
			r.metrics.observe(kind, opResolve, outcomeExisting, start)
			return id, nil
		}
	}

	var (
		result entity
		u      *unit
	)
	err := r.store.InTx(ctx, func(q *store.Queries) error {
		u = &unit{lookup: lookup{ctx: ctx, q: q}}
		var err error
		result, err = u.resolve(kind, name, c)
		return err
	})
	if err != nil {
		r.metrics.observe(kind, opResolve, outcomeError, start)
		r.log.Error().Err(err).Str("type", string(kind)).Str("name", name).Msg("resolution failed")
		return 0, fmt.Errorf("resolve %s %q: %w", kind, name, asStoreError(err))
	}

	outcome := outcomeExisting
	for _, ref := range u.created {
		r.log.Debug().Str("type", string(ref.Kind)).Int64("concrete_id", ref.ConcreteID).
			Str("name", name).Msg("item created")
		if ref == (types.ItemRef{Kind: kind, ConcreteID: result.concreteID}) {
			outcome = outcomeCreated
		}
	}
	r.metrics.linksAdded(u.links)
	r.metrics.observe(kind, opResolve, outcome, start)

	if cacheable {
		r.cache.put(key, result.itemID)
	}
	return result.itemID, nil
}

// FindExisting returns the item id for name under context c without
// writing. found is false, with a nil error, when no such item exists yet.
// Missing required context is still ErrInvalidContext.
func (r *Resolver) FindExisting(ctx context.Context, kind types.ItemType, name string, c types.Context) (int64, bool, error) {
	start := time.Now()
	if err := validate(kind, name, c); err != nil {
		r.metrics.observe(metricKind(kind), opFind, outcomeInvalid, start)
		return 0, false, err
	}

	key := cacheKey(kind, name, c)
	if id, ok := r.cache.get(key); ok {
		r.metrics.cacheHit(kind, opFind)
		r.metrics.observe(kind, opFind, outcomeExisting, start)
		return id, true, nil
	}

	e, found, err := lookup{ctx: ctx, q: r.store.Q()}.find(kind, name, c)
	if err != nil {
		r.metrics.observe(kind, opFind, outcomeError, start)
		r.log.Error().Err(err).Str("type", string(kind)).Str("name", name).Msg("lookup failed")
		return 0, false, fmt.Errorf("find %s %q: %w", kind, name, asStoreError(err))
	}
	if !found {
		r.metrics.observe(kind, opFind, outcomeNotFound, start)
		return 0, false, nil
	}
	r.metrics.observe(kind, opFind, outcomeExisting, start)
	r.cache.put(key, e.itemID)
	return e.itemID, true, nil
}

// Purge drops every cached identity. Call it after modifying the catalog
// tables outside this package.
func (r *Resolver) Purge() {
	r.cache.purge()
}

// asStoreError makes sure a failure inside the unit of work surfaces as an
// ErrStore error while keeping its cause reachable.
func asStoreError(err error) error {
	if errors.Is(err, types.ErrStore) {
		return err
	}
	return types.NewStoreError("unit of work", err)
}
