package resolver

import (
	"github.com/mesh-intelligence/crate/internal/store"
	"github.com/mesh-intelligence/crate/pkg/types"
)

// unit is one find-or-create unit of work. It runs inside a single store
// transaction; every method either completes its rows or returns an error
// that rolls the whole transaction back.
type unit struct {
	lookup
	created []types.ItemRef
	links   int
}

// adopt finishes a claim. A claim this unit won gets its item inserted with
// back_ref already set and the concrete row bound to it; a lost claim
// already carries the winner's item.
func (u *unit) adopt(kind types.ItemType, c store.Claim) (entity, error) {
	if !c.Created {
		return entity{c.ConcreteID, c.ItemID}, nil
	}
	ref := types.ItemRef{Kind: kind, ConcreteID: c.ConcreteID}
	itemID, err := u.q.InsertItem(u.ctx, ref)
	if err != nil {
		return entity{}, err
	}
	if err := u.q.BindItem(u.ctx, ref, itemID); err != nil {
		return entity{}, err
	}
	u.created = append(u.created, ref)
	return entity{c.ConcreteID, itemID}, nil
}

func (u *unit) countLink(added bool, err error) error {
	if added {
		u.links++
	}
	return err
}

func (u *unit) artist(name string) (entity, error) {
	e, found, err := u.lookup.artist(name)
	if err != nil || found {
		return e, err
	}
	c, err := u.q.ClaimArtist(u.ctx, name)
	if err != nil {
		return entity{}, err
	}
	return u.adopt(types.ItemArtist, c)
}

// album resolves an album under an already resolved artist and makes sure
// the album_artists link exists.
func (u *unit) album(name string, artistID int64) (entity, error) {
	e, found, err := u.lookup.albumOf(name, artistID)
	if err != nil || found {
		return e, err
	}
	c, err := u.q.ClaimAlbum(u.ctx, name, artistID)
	if err != nil {
		return entity{}, err
	}
	if e, err = u.adopt(types.ItemAlbum, c); err != nil {
		return entity{}, err
	}
	return e, u.countLink(u.q.LinkAlbumArtist(u.ctx, e.concreteID, artistID))
}

// track resolves a track under an already resolved artist. With an album
// name it also resolves that album under the same artist and adds a
// track_albums link; earlier album links are kept.
func (u *unit) track(title string, artistID int64, albumName string) (entity, error) {
	e, found, err := u.lookup.trackOf(title, artistID)
	if err != nil {
		return entity{}, err
	}
	if !found {
		c, err := u.q.ClaimTrack(u.ctx, title, artistID)
		if err != nil {
			return entity{}, err
		}
		if e, err = u.adopt(types.ItemTrack, c); err != nil {
			return entity{}, err
		}
		if err := u.countLink(u.q.LinkTrackArtist(u.ctx, e.concreteID, artistID)); err != nil {
			return entity{}, err
		}
	}

	if albumName == "" {
		return e, nil
	}
	album, err := u.album(albumName, artistID)
	if err != nil {
		return entity{}, err
	}
	return e, u.countLink(u.q.LinkTrackAlbum(u.ctx, e.concreteID, album.concreteID))
}

func (u *unit) venue(name, location string) (entity, error) {
	e, found, err := u.lookup.venue(name, location)
	if err != nil || found {
		return e, err
	}
	c, err := u.q.ClaimVenue(u.ctx, name, location)
	if err != nil {
		return entity{}, err
	}
	return u.adopt(types.ItemVenue, c)
}

func (u *unit) genre(name string) (entity, error) {
	e, found, err := u.lookup.genre(name)
	if err != nil || found {
		return e, err
	}
	c, err := u.q.ClaimGenre(u.ctx, name)
	if err != nil {
		return entity{}, err
	}
	return u.adopt(types.ItemGenre, c)
}

// resolve dispatches on kind. Context has been validated by the caller.
func (u *unit) resolve(kind types.ItemType, name string, c types.Context) (entity, error) {
	switch kind {
	case types.ItemArtist:
		return u.artist(name)
	case types.ItemAlbum:
		artist, err := u.artist(c.ArtistName)
		if err != nil {
			return entity{}, err
		}
		return u.album(name, artist.concreteID)
	case types.ItemTrack:
		artist, err := u.artist(c.ArtistName)
		if err != nil {
			return entity{}, err
		}
		return u.track(name, artist.concreteID, c.AlbumName)
	case types.ItemVenue:
		return u.venue(name, c.Location)
	default:
		return u.genre(name)
	}
}
