package resolver

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mesh-intelligence/crate/pkg/types"
)

// identityCache remembers item ids that are known to exist. It only holds
// positive results: items and links are never deleted by this package and
// lookups order by id, so a remembered answer stays correct until the
// database is changed out of band, which is what Purge is for.
type identityCache struct {
	c *gocache.Cache
}

// newIdentityCache returns nil for a non-positive ttl, which disables caching.
// No janitor goroutine is started; expired entries are dropped on read and
// by Purge.
func newIdentityCache(ttl time.Duration) *identityCache {
	if ttl <= 0 {
		return nil
	}
	return &identityCache{c: gocache.New(ttl, 0)}
}

// cacheKey covers exactly the fields lookups disambiguate on. AlbumName is
// not part of a track's identity.
func cacheKey(kind types.ItemType, name string, c types.Context) string {
	parts := []string{string(kind), name}
	switch kind {
	case types.ItemAlbum, types.ItemTrack:
		parts = append(parts, c.ArtistName)
	case types.ItemVenue:
		parts = append(parts, c.Location)
	}
	return strings.Join(parts, "\x00")
}

func (ic *identityCache) get(key string) (int64, bool) {
	if ic == nil {
		return 0, false
	}
	v, ok := ic.c.Get(key)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

func (ic *identityCache) put(key string, itemID int64) {
	if ic == nil {
		return
	}
	ic.c.SetDefault(key, itemID)
}

func (ic *identityCache) purge() {
	if ic == nil {
		return
	}
	ic.c.Flush()
}

func (ic *identityCache) len() int {
	if ic == nil {
		return 0
	}
	return ic.c.ItemCount()
}
