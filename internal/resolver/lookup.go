package resolver

import (
	"context"

	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// entity is the pair of keys a resolution step yields: the concrete row id
// (needed to link children) and its owning item id.
type entity struct {
	concreteID int64
	itemID     int64
}

// lookup applies the disambiguation rules without writing. The resolver runs
// it inside its transaction before creating anything; the finder runs it on
// its own. Both therefore agree on what "already exists" means.
type lookup struct {
	ctx context.Context
	q   *store.Queries
}

func (l lookup) artist(name string) (entity, bool, error) {
	a, found, err := l.q.FindArtist(l.ctx, name)
	return entity{a.ID, a.ItemID}, found, err
}

func (l lookup) albumOf(name string, artistID int64) (entity, bool, error) {
	a, found, err := l.q.FindAlbumByArtist(l.ctx, name, artistID)
	return entity{a.ID, a.ItemID}, found, err
}

func (l lookup) trackOf(title string, artistID int64) (entity, bool, error) {
	t, found, err := l.q.FindTrackByArtist(l.ctx, title, artistID)
	return entity{t.ID, t.ItemID}, found, err
}

func (l lookup) venue(name, location string) (entity, bool, error) {
	v, found, err := l.q.FindVenue(l.ctx, name, location)
	return entity{v.ID, v.ItemID}, found, err
}

func (l lookup) genre(name string) (entity, bool, error) {
	g, found, err := l.q.FindGenre(l.ctx, name)
	return entity{g.ID, g.ItemID}, found, err
}

// find resolves kind/name/c to an existing item. Album and track lookups
// first find the context artist; an unknown artist means the child cannot
// exist either.
func (l lookup) find(kind types.ItemType, name string, c types.Context) (entity, bool, error) {
	switch kind {
	case types.ItemArtist:
		return l.artist(name)
	case types.ItemAlbum, types.ItemTrack:
		artist, found, err := l.artist(c.ArtistName)
		if err != nil || !found {
			return entity{}, false, err
		}
		if kind == types.ItemAlbum {
			return l.albumOf(name, artist.concreteID)
		}
		return l.trackOf(name, artist.concreteID)
	case types.ItemVenue:
		return l.venue(name, c.Location)
	case types.ItemGenre:
		return l.genre(name)
	}
	return entity{}, false, nil
}
