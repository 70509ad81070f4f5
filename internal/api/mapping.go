package api

import (
	"strings"

	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// The adapters below turn loosely shaped server payloads into the canonical
// models. Nothing outside this file should read a Wire* type.

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ArtworkFromWire normalises an artwork. A missing isForSale flag means the
// artwork is for sale.
func ArtworkFromWire(w types.WireArtwork) types.Artwork {
	var artistID, artistName string
	if w.Artist != nil {
		artistID, artistName = w.Artist.ID, w.Artist.Name
	}
	var image string
	if len(w.Images) > 0 {
		image = w.Images[0]
	}
	forSale := true
	if w.IsForSale != nil {
		forSale = *w.IsForSale
	}
	return types.Artwork{
		ID:          firstNonEmpty(w.ID, w.LegacyID),
		Title:       strings.TrimSpace(w.Title),
		ArtistID:    firstNonEmpty(artistID, w.ArtistID),
		ArtistName:  firstNonEmpty(artistName, w.ArtistName),
		Price:       w.Price.Clone().Value,
		ImageURL:    firstNonEmpty(w.ImageURL, w.Image, image),
		Category:    w.Category,
		Medium:      w.Medium,
		Year:        w.Year,
		Dimensions:  w.Dimensions,
		Description: w.Description,
		IsForSale:   forSale,
		Likes:       w.Likes,
		Featured:    w.Featured,
	}
}

func ArtworksFromWire(ws []types.WireArtwork) []types.Artwork {
	out := make([]types.Artwork, 0, len(ws))
	for _, w := range ws {
		a := ArtworkFromWire(w)
		if a.ID == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ArtistFromWire(w types.WireArtist) types.Artist {
	return types.Artist{
		ID:           firstNonEmpty(w.ID, w.LegacyID),
		Name:         strings.TrimSpace(w.Name),
		Bio:          w.Bio,
		ImageURL:     firstNonEmpty(w.ImageURL, w.ProfileImage),
		Area:         firstNonEmpty(w.Area, w.Location),
		Featured:     w.Featured,
		ArtworkCount: w.ArtworkCount,
	}
}

func ArtistsFromWire(ws []types.WireArtist) []types.Artist {
	out := make([]types.Artist, 0, len(ws))
	for _, w := range ws {
		a := ArtistFromWire(w)
		if a.ID == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func UserFromWire(w types.WireUser) types.User {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(w.FirstName) + " " + strings.TrimSpace(w.LastName))
	}
	return types.User{
		ID:           firstNonEmpty(w.ID, w.LegacyID),
		Name:         name,
		Email:        strings.TrimSpace(w.Email),
		Phone:        w.Phone,
		ProfileImage: firstNonEmpty(w.ProfileImage, w.Avatar),
	}
}

// ServerCartLine pairs a canonical line with the server's own line id,
// which cart item updates and deletes are addressed by.
type ServerCartLine struct {
	LineID string
	Item   types.CartLineItem
}

type ServerCart struct {
	ID    string
	Lines []ServerCartLine
}

// Items returns the canonical lines in server order.
func (s ServerCart) Items() []types.CartLineItem {
	out := make([]types.CartLineItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		out = append(out, l.Item)
	}
	return out
}

// LineFor finds the server line holding the artwork.
func (s ServerCart) LineFor(artworkID string) (ServerCartLine, bool) {
	for _, l := range s.Lines {
		if l.Item.ID == artworkID {
			return l, true
		}
	}
	return ServerCartLine{}, false
}

// CartFromWire normalises a server cart. Lines without an artwork id or with
// a non-positive quantity are dropped; duplicate artworks are folded into
// the first line so the result keeps one line per artwork.
func CartFromWire(w types.WireCart) ServerCart {
	cart := ServerCart{ID: w.ID}
	index := make(map[string]int, len(w.Items))
	for _, wi := range w.Items {
		line, ok := cartLineFromWire(wi)
		if !ok {
			continue
		}
		if i, seen := index[line.Item.ID]; seen {
			cart.Lines[i].Item.Quantity += line.Item.Quantity
			continue
		}
		index[line.Item.ID] = len(cart.Lines)
		cart.Lines = append(cart.Lines, line)
	}
	return cart
}

func cartLineFromWire(w types.WireCartItem) (ServerCartLine, bool) {
	var art types.Artwork
	if w.Artwork != nil {
		art = ArtworkFromWire(*w.Artwork)
	}
	artworkID := firstNonEmpty(w.ArtworkID, art.ID)
	if artworkID == "" || w.Quantity <= 0 {
		return ServerCartLine{}, false
	}
	price := w.Price.Float()
	if w.Price.Value == nil && art.Price != nil {
		price = *art.Price
	}
	return ServerCartLine{
		LineID: firstNonEmpty(w.ID, artworkID),
		Item: types.CartLineItem{
			ID:         artworkID,
			Title:      art.Title,
			ArtistName: art.ArtistName,
			UnitPrice:  price,
			ImageRef:   art.ImageURL,
			Quantity:   w.Quantity,
		},
	}, true
}

// FavoritesFromWire normalises the favorites list, keeping one entry per artwork.
func FavoritesFromWire(ws []types.WireFavorite) []types.FavoriteEntry {
	out := make([]types.FavoriteEntry, 0, len(ws))
	seen := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		var entry types.FavoriteEntry
		if w.Artwork != nil {
			entry = types.FavoriteFromArtwork(ArtworkFromWire(*w.Artwork))
		}
		entry.ArtworkID = firstNonEmpty(w.ArtworkID, entry.ArtworkID)
		if entry.ArtworkID == "" {
			continue
		}
		if _, dup := seen[entry.ArtworkID]; dup {
			continue
		}
		seen[entry.ArtworkID] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// AuthResult is a successful login or registration.
type AuthResult struct {
	Token string
	User  types.User
}

func authFromWire(w types.WireAuth) AuthResult {
	return AuthResult{
		Token: firstNonEmpty(w.Token, w.AccessToken),
		User:  UserFromWire(w.User),
	}
}

func pageFromWire[W any, T any](w types.Page[W], convert func([]W) []T) types.Page[T] {
	return types.Page[T]{
		Items: convert(w.Items),
		Page:  w.Page,
		Limit: w.Limit,
		Total: w.Total,
	}
}
