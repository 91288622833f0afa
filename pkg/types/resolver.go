package types

import "context"

// Resolver finds or creates the canonical item for a name. It either returns
// a fully linked item id or an error; it never leaves a partial item behind.
type Resolver interface {
	ResolveOrCreate(ctx context.Context, kind ItemType, name string, c Context) (int64, error)
}

// Finder looks up the canonical item for a name without ever writing.
// Absence is reported as found=false with a nil error.
type Finder interface {
	FindExisting(ctx context.Context, kind ItemType, name string, c Context) (id int64, found bool, err error)
}
