package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		in      string
		want    ItemType
		wantErr bool
	}{
		{in: "artist", want: ItemArtist},
		{in: "Album", want: ItemAlbum},
		{in: "  TRACK ", want: ItemTrack},
		{in: "venue", want: ItemVenue},
		{in: "genre", want: ItemGenre},
		{in: "playlist", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseItemType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownItemType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemTypesReturnsCopy(t *testing.T) {
	kinds := ItemTypes()
	require.Len(t, kinds, 5)
	kinds[0] = "mutated"
	assert.Equal(t, ItemArtist, ItemTypes()[0])
}

func TestItemRef(t *testing.T) {
	ref := ItemRef{Kind: ItemAlbum, ConcreteID: 7}
	assert.Equal(t, "album/7", ref.String())
}

func TestContextRequire(t *testing.T) {
	tests := []struct {
		name    string
		kind    ItemType
		ctx     Context
		wantErr error
	}{
		{name: "artist needs nothing", kind: ItemArtist},
		{name: "genre needs nothing", kind: ItemGenre},
		{name: "venue location is optional", kind: ItemVenue},
		{name: "album without artist", kind: ItemAlbum, wantErr: ErrInvalidContext},
		{name: "album with artist", kind: ItemAlbum, ctx: Context{ArtistName: "Taylor Swift"}},
		{name: "track without artist", kind: ItemTrack, ctx: Context{AlbumName: "Y"}, wantErr: ErrInvalidContext},
		{name: "track with artist", kind: ItemTrack, ctx: Context{ArtistName: "X"}},
		{name: "unknown kind", kind: "playlist", wantErr: ErrUnknownItemType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ctx.Require(tt.kind)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
