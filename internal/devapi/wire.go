package devapi

import (
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

func wireArtwork(a types.Artwork) types.WireArtwork {
	forSale := a.IsForSale
	w := types.WireArtwork{
		ID:          a.ID,
		Title:       a.Title,
		Artist:      &types.WireArtistRef{ID: a.ArtistID, Name: a.ArtistName},
		ImageURL:    a.ImageURL,
		Category:    a.Category,
		Medium:      a.Medium,
		Year:        a.Year,
		Dimensions:  a.Dimensions,
		Description: a.Description,
		IsForSale:   &forSale,
		Likes:       a.Likes,
		Featured:    a.Featured,
	}
	if a.Price != nil {
		w.Price = types.Num(*a.Price)
	}
	return w
}

func wireArtworks(items []types.Artwork) []types.WireArtwork {
	out := make([]types.WireArtwork, 0, len(items))
	for _, a := range items {
		out = append(out, wireArtwork(a))
	}
	return out
}

func wireArtist(a types.Artist) types.WireArtist {
	return types.WireArtist{
		ID:           a.ID,
		Name:         a.Name,
		Bio:          a.Bio,
		ImageURL:     a.ImageURL,
		Area:         a.Area,
		Featured:     a.Featured,
		ArtworkCount: a.ArtworkCount,
	}
}

func wireArtists(items []types.Artist) []types.WireArtist {
	out := make([]types.WireArtist, 0, len(items))
	for _, a := range items {
		out = append(out, wireArtist(a))
	}
	return out
}

func wirePage[T, W any](p types.Page[T], conv func([]T) []W) types.Page[W] {
	return types.Page[W]{Items: conv(p.Items), Page: p.Page, Limit: p.Limit, Total: p.Total}
}

func wireUser(u types.User) types.WireUser {
	return types.WireUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
	}
}

// wireCart renders the user's lines with the artwork nested. Lines whose
// artwork vanished from the catalog are skipped.
func (s *Server) wireCart(userID string) types.WireCart {
	lines := s.state.cart(userID)
	out := types.WireCart{ID: "cart-" + userID, Items: make([]types.WireCartItem, 0, len(lines))}
	for _, l := range lines {
		art, ok := s.state.artwork(l.artworkID)
		if !ok {
			continue
		}
		item := types.WireCartItem{
			ID:        l.id,
			ArtworkID: l.artworkID,
			Quantity:  l.quantity,
		}
		wa := wireArtwork(art)
		item.Artwork = &wa
		if art.Price != nil {
			item.Price = types.Num(*art.Price)
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func (s *Server) wireFavorites(userID string) []types.WireFavorite {
	ids := s.state.favoriteIDs(userID)
	out := make([]types.WireFavorite, 0, len(ids))
	for _, id := range ids {
		art, ok := s.state.artwork(id)
		if !ok {
			continue
		}
		wa := wireArtwork(art)
		out = append(out, types.WireFavorite{ID: "fav-" + id, ArtworkID: id, Artwork: &wa})
	}
	return out
}
