// Package store persists items, concrete entities, link rows and the social
// join tables over database/sql. It holds no business rules beyond what the
// schema enforces; find-or-create logic lives in the resolver, which drives
// the primitives here inside a single unit of work.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// sqlOpen is swapped in tests.
var sqlOpen = sql.Open

// Store owns the database handle and hands out Queries bound either to the
// pool or to a transaction.
type Store struct {
	mu      sync.RWMutex
	closed  bool
	db      *sql.DB
	dialect dialect
	builder sq.StatementBuilderType
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for schema and transaction events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the time source for created_at and updated_at columns.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open validates cfg, connects to the configured backend and applies the
// schema. The schema is idempotent so reopening an existing database keeps
// its rows.
func Open(ctx context.Context, cfg types.Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := dialectFor(cfg.Backend)
	if err != nil {
		return nil, err
	}
	dsn, err := d.dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlOpen(d.driver, dsn)
	if err != nil {
		return nil, types.NewStoreError("open "+d.name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, types.NewStoreError("ping "+d.name, err)
	}

	s := &Store{
		db:      db,
		dialect: d,
		builder: sq.StatementBuilder.PlaceholderFormat(d.placeholder),
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug().Str("backend", d.name).Msg("store opened")
	return s, nil
}

// migrate applies every table and index statement.
func (s *Store) migrate(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := s.db.ExecContext(ctx, s.dialect.render(ddl)); err != nil {
			return types.NewStoreError("apply schema", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return types.NewStoreError("apply indexes", err)
		}
	}
	return nil
}

// Backend returns the configured backend name.
func (s *Store) Backend() string { return s.dialect.name }

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Q returns Queries that run each statement on its own against the pool.
func (s *Store) Q() *Queries {
	return s.queries(s.db)
}

func (s *Store) queries(q querier) *Queries {
	return &Queries{q: q, sb: s.builder, now: s.now}
}

// InTx runs fn inside one transaction. Any error from fn, or a panic, rolls
// the transaction back; nothing fn wrote survives. Errors returned by fn are
// passed through unchanged; begin and commit failures become StoreErrors.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.ErrCatalogClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.NewStoreError("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.Warn().Err(rbErr).Msg("rollback failed")
			}
		}
	}()

	if err = fn(s.queries(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return types.NewStoreError("commit", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return types.NewStoreError("ping", err)
	}
	return nil
}

// String describes the store for logs.
func (s *Store) String() string {
	return fmt.Sprintf("store(%s)", s.dialect.name)
}
