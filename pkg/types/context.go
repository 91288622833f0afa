package types

import "fmt"

// Context carries the disambiguating information a caller supplies alongside
// a name. Which fields matter depends on the item kind:
//
//	artist  -
//	album   ArtistName (required)
//	track   ArtistName (required), AlbumName (optional)
//	venue   Location (optional)
//	genre   -
//
// Fields are compared verbatim; callers normalize case and whitespace.
type Context struct {
	ArtistName string `json:"artistName,omitempty" yaml:"artist_name,omitempty"`
	AlbumName  string `json:"albumName,omitempty" yaml:"album_name,omitempty"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Require checks that c carries the context kind needs. It returns
// ErrInvalidContext when a required field is missing and ErrUnknownItemType
// for an unrecognized kind.
func (c Context) Require(kind ItemType) error {
	switch kind {
	case ItemAlbum, ItemTrack:
		if c.ArtistName == "" {
			return fmt.Errorf("%w: %s requires an artist name", ErrInvalidContext, kind)
		}
		return nil
	case ItemArtist, ItemVenue, ItemGenre:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownItemType, kind)
	}
}
