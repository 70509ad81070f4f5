// Package fixtures is the static sample catalog shown when the API cannot be
// reached, and the seed data of the dev API server.
package fixtures

import "github.com/angelmondragon/artmarket-storefront/pkg/types"

func price(v float64) *float64 { return &v }

var artists = []types.Artist{
	{ID: "artist-1", Name: "Meera Raghavan", Bio: "Oil landscapes of the Western Ghats.", ImageURL: "/images/artists/meera.jpg", Area: "Bengaluru", Featured: true},
	{ID: "artist-2", Name: "Kabir Sethi", Bio: "Ink and wash studies of old Delhi.", ImageURL: "/images/artists/kabir.jpg", Area: "Delhi", Featured: true},
	{ID: "artist-3", Name: "Anjali Das", Bio: "Contemporary Pattachitra.", ImageURL: "/images/artists/anjali.jpg", Area: "Bhubaneswar"},
	{ID: "artist-4", Name: "Rohan Pillai", Bio: "Bronze and reclaimed metal.", ImageURL: "/images/artists/rohan.jpg", Area: "Kochi"},
}

var artworks = []types.Artwork{
	{ID: "art-1", Title: "Monsoon Ridge", ArtistID: "artist-1", ArtistName: "Meera Raghavan", Price: price(120), ImageURL: "/images/art/monsoon-ridge.jpg", Category: "painting", Medium: "oil", Year: 2021, Dimensions: "90 x 60 cm", IsForSale: true, Likes: 48, Featured: true},
	{ID: "art-2", Title: "Coffee Estate at Dusk", ArtistID: "artist-1", ArtistName: "Meera Raghavan", Price: price(95.5), ImageURL: "/images/art/coffee-estate.jpg", Category: "painting", Medium: "oil", Year: 2022, Dimensions: "60 x 45 cm", IsForSale: true, Likes: 31},
	{ID: "art-3", Title: "Chandni Chowk, 6 a.m.", ArtistID: "artist-2", ArtistName: "Kabir Sethi", Price: price(60), ImageURL: "/images/art/chandni-chowk.jpg", Category: "drawing", Medium: "ink", Year: 2019, Dimensions: "40 x 30 cm", IsForSale: true, Likes: 77, Featured: true},
	{ID: "art-4", Title: "Stepwell", ArtistID: "artist-2", ArtistName: "Kabir Sethi", Price: price(310), ImageURL: "/images/art/stepwell.jpg", Category: "drawing", Medium: "ink", Year: 2023, Dimensions: "120 x 80 cm", IsForSale: true, Likes: 12},
	{ID: "art-5", Title: "Jagannath Procession", ArtistID: "artist-3", ArtistName: "Anjali Das", Price: price(180), ImageURL: "/images/art/procession.jpg", Category: "painting", Medium: "natural pigment", Year: 2020, Dimensions: "100 x 50 cm", IsForSale: false, Likes: 95, Featured: true},
	{ID: "art-6", Title: "Tree of Life", ArtistID: "artist-3", ArtistName: "Anjali Das", ImageURL: "/images/art/tree-of-life.jpg", Category: "painting", Medium: "natural pigment", Year: 2024, Dimensions: "70 x 70 cm", IsForSale: true, Likes: 5},
	{ID: "art-7", Title: "Backwater Heron", ArtistID: "artist-4", ArtistName: "Rohan Pillai", Price: price(450), ImageURL: "/images/art/heron.jpg", Category: "sculpture", Medium: "bronze", Year: 2018, Dimensions: "45 x 20 x 20 cm", IsForSale: true, Likes: 22},
	{ID: "art-8", Title: "Net Menders", ArtistID: "artist-4", ArtistName: "Rohan Pillai", Price: price(38), ImageURL: "/images/art/net-menders.jpg", Category: "sculpture", Medium: "reclaimed metal", Year: 2021, Dimensions: "30 x 15 x 10 cm", IsForSale: true, Likes: 17},
}

// Artworks returns a fresh copy of the sample artworks.
func Artworks() []types.Artwork {
	out := make([]types.Artwork, len(artworks))
	for i, a := range artworks {
		if a.Price != nil {
			a.Price = price(*a.Price)
		}
		out[i] = a
	}
	return out
}

// Artists returns a fresh copy of the sample artists with artwork counts.
func Artists() []types.Artist {
	counts := map[string]int{}
	for _, a := range artworks {
		counts[a.ArtistID]++
	}
	out := make([]types.Artist, len(artists))
	for i, a := range artists {
		a.ArtworkCount = counts[a.ID]
		out[i] = a
	}
	return out
}
