package store

// Schema DDL. Templates use {{id}} for surrogate keys and {{int}} for
// integer references; see dialect.render.
//
// Natural keys carry UNIQUE constraints so that find-or-create can be an
// insert-on-conflict instead of a read followed by a write. An item row is
// only ever inserted with back_ref set, after its concrete row exists; the
// concrete row's item_id stays NULL until the same transaction back-fills it.
const (
	createItems = `CREATE TABLE IF NOT EXISTS items (
    id {{id}},
    item_type TEXT NOT NULL CHECK (item_type IN ('artist', 'album', 'track', 'venue', 'genre')),
    back_ref {{int}} NOT NULL,
    UNIQUE (item_type, back_ref)
)`

	createArtists = `CREATE TABLE IF NOT EXISTS artists (
    id {{id}},
    name TEXT NOT NULL UNIQUE,
    item_id {{int}} UNIQUE REFERENCES items(id)
)`

	createAlbums = `CREATE TABLE IF NOT EXISTS albums (
    id {{id}},
    name TEXT NOT NULL,
    artist_id {{int}} NOT NULL REFERENCES artists(id),
    item_id {{int}} UNIQUE REFERENCES items(id),
    UNIQUE (name, artist_id)
)`

	createTracks = `CREATE TABLE IF NOT EXISTS tracks (
    id {{id}},
    title TEXT NOT NULL,
    artist_id {{int}} NOT NULL REFERENCES artists(id),
    item_id {{int}} UNIQUE REFERENCES items(id),
    UNIQUE (title, artist_id)
)`

	createVenues = `CREATE TABLE IF NOT EXISTS venues (
    id {{id}},
    name TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    item_id {{int}} UNIQUE REFERENCES items(id),
    UNIQUE (name, location)
)`

	createGenres = `CREATE TABLE IF NOT EXISTS genres (
    id {{id}},
    name TEXT NOT NULL UNIQUE,
    item_id {{int}} UNIQUE REFERENCES items(id)
)`

	createAlbumArtists = `CREATE TABLE IF NOT EXISTS album_artists (
    album_id {{int}} NOT NULL REFERENCES albums(id),
    artist_id {{int}} NOT NULL REFERENCES artists(id),
    PRIMARY KEY (album_id, artist_id)
)`

	createTrackArtists = `CREATE TABLE IF NOT EXISTS track_artists (
    track_id {{int}} NOT NULL REFERENCES tracks(id),
    artist_id {{int}} NOT NULL REFERENCES artists(id),
    PRIMARY KEY (track_id, artist_id)
)`

	createTrackAlbums = `CREATE TABLE IF NOT EXISTS track_albums (
    track_id {{int}} NOT NULL REFERENCES tracks(id),
    album_id {{int}} NOT NULL REFERENCES albums(id),
    PRIMARY KEY (track_id, album_id)
)`

	createFavorites = `CREATE TABLE IF NOT EXISTS favorites (
    user_id {{int}} NOT NULL,
    item_id {{int}} NOT NULL REFERENCES items(id),
    created_at TEXT NOT NULL,
    PRIMARY KEY (user_id, item_id)
)`

	createReviews = `CREATE TABLE IF NOT EXISTS reviews (
    id {{id}},
    user_id {{int}} NOT NULL,
    item_id {{int}} NOT NULL REFERENCES items(id),
    score DOUBLE PRECISION NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    verified INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (user_id, item_id)
)`

	createLists = `CREATE TABLE IF NOT EXISTS lists (
    id TEXT PRIMARY KEY,
    user_id {{int}} NOT NULL,
    name TEXT NOT NULL,
    item_type TEXT,
    created_at TEXT NOT NULL
)`

	createListItems = `CREATE TABLE IF NOT EXISTS list_items (
    list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
    item_id {{int}} NOT NULL REFERENCES items(id),
    added_at TEXT NOT NULL,
    PRIMARY KEY (list_id, item_id)
)`

	createArticleTags = `CREATE TABLE IF NOT EXISTS article_tags (
    article_id {{int}} NOT NULL,
    item_id {{int}} NOT NULL REFERENCES items(id),
    created_at TEXT NOT NULL,
    PRIMARY KEY (article_id, item_id)
)`
)

// Index DDL for the lookup paths the resolver and social queries use.
const (
	idxAlbumArtistsArtist = `CREATE INDEX IF NOT EXISTS idx_album_artists_artist ON album_artists(artist_id)`
	idxTrackArtistsArtist = `CREATE INDEX IF NOT EXISTS idx_track_artists_artist ON track_artists(artist_id)`
	idxTrackAlbumsAlbum   = `CREATE INDEX IF NOT EXISTS idx_track_albums_album ON track_albums(album_id)`
	idxFavoritesItem      = `CREATE INDEX IF NOT EXISTS idx_favorites_item ON favorites(item_id)`
	idxReviewsItem        = `CREATE INDEX IF NOT EXISTS idx_reviews_item ON reviews(item_id, verified, created_at)`
	idxListsUser          = `CREATE INDEX IF NOT EXISTS idx_lists_user ON lists(user_id)`
	idxArticleTagsItem    = `CREATE INDEX IF NOT EXISTS idx_article_tags_item ON article_tags(item_id)`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createItems,
	createArtists,
	createAlbums,
	createTracks,
	createVenues,
	createGenres,
	createAlbumArtists,
	createTrackArtists,
	createTrackAlbums,
	createFavorites,
	createReviews,
	createLists,
	createListItems,
	createArticleTags,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxAlbumArtistsArtist,
	idxTrackArtistsArtist,
	idxTrackAlbumsAlbum,
	idxFavoritesItem,
	idxReviewsItem,
	idxListsUser,
	idxArticleTagsItem,
}
