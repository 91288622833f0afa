package types

// Artist is a concrete artist row. ItemID points back at the owning Item.
type Artist struct {
	ID     int64
	Name   string
	ItemID int64
}

// Album is a concrete album row. ArtistID is the artist the album was first
// created under; it scopes the album's natural key (name, artist).
type Album struct {
	ID       int64
	Name     string
	ArtistID int64
	ItemID   int64
}

// Track is a concrete track row. ArtistID scopes the natural key (title, artist).
type Track struct {
	ID       int64
	Title    string
	ArtistID int64
	ItemID   int64
}

// Venue is a concrete venue row. Location is never NULL; an unknown location
// is stored as the empty string.
type Venue struct {
	ID       int64
	Name     string
	Location string
	ItemID   int64
}

// Genre is a concrete genre row.
type Genre struct {
	ID     int64
	Name   string
	ItemID int64
}

// Link rows. They are created lazily, at most once per pair, and never deleted.
type (
	AlbumArtist struct {
		AlbumID  int64
		ArtistID int64
	}
	TrackArtist struct {
		TrackID  int64
		ArtistID int64
	}
	TrackAlbum struct {
		TrackID int64
		AlbumID int64
	}
)
