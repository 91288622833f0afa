package social

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crate/internal/resolver"
	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// tickingClock returns a clock that advances one second per call so rows
// written in sequence get distinct timestamps.
func tickingClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// setupDeps opens a sqlite store in a temp dir and wires a resolver to it.
func setupDeps(t *testing.T) Deps {
	t.Helper()
	s, err := store.Open(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}, store.WithClock(tickingClock()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	r := resolver.New(s)
	return Deps{Store: s, Resolver: r, Finder: r}
}

func countRows(t *testing.T, d Deps, table string) int64 {
	t.Helper()
	n, err := d.Store.Q().Count(context.Background(), table)
	require.NoError(t, err)
	return n
}
