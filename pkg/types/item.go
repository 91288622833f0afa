package types

import (
	"fmt"
	"strings"
)

// ItemType names the concrete table an item points into.
type ItemType string

// Item kinds. Every rateable, favoritable or taggable entity is one of these.
const (
	ItemArtist ItemType = "artist"
	ItemAlbum  ItemType = "album"
	ItemTrack  ItemType = "track"
	ItemVenue  ItemType = "venue"
	ItemGenre  ItemType = "genre"
)

// itemTypes lists the kinds in a stable order.
var itemTypes = []ItemType{ItemArtist, ItemAlbum, ItemTrack, ItemVenue, ItemGenre}

// ItemTypes returns all recognized item kinds.
func ItemTypes() []ItemType {
	out := make([]ItemType, len(itemTypes))
	copy(out, itemTypes)
	return out
}

// ParseItemType converts s to an ItemType, ignoring case and surrounding
// whitespace. Returns ErrUnknownItemType for anything else.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownItemType, s)
	}
	return t, nil
}

// Valid reports whether t is one of the recognized kinds.
func (t ItemType) Valid() bool {
	switch t {
	case ItemArtist, ItemAlbum, ItemTrack, ItemVenue, ItemGenre:
		return true
	}
	return false
}

func (t ItemType) String() string { return string(t) }

// ItemRef identifies the concrete row an item represents. Kind selects the
// table, ConcreteID is the row key in it.
type ItemRef struct {
	Kind       ItemType
	ConcreteID int64
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ConcreteID)
}

// Item is the canonical, type-erased identity referenced by every consumer
// table. ID is what favorites, reviews, lists and tags store.
type Item struct {
	ID  int64
	Ref ItemRef
}

// Descriptor is a name plus the context that resolves to an item. It is the
// record format of catalog exports and imports.
type Descriptor struct {
	ItemID int64    `json:"itemId,omitempty"`
	Kind   ItemType `json:"type"`
	Name   string   `json:"name"`
	Context
}
