package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

// QueryArtworks filters, sorts and pages an in-memory artwork list the same
// way the API does.
func QueryArtworks(all []types.Artwork, q api.ArtworkQuery) types.Page[types.Artwork] {
	matched := make([]types.Artwork, 0, len(all))
	for _, a := range all {
		if matchesArtwork(a, q.Filter) {
			matched = append(matched, a)
		}
	}
	sortArtworks(matched, q.SortBy, q.SortOrder)
	return page(matched, q.Page)
}

func matchesArtwork(a types.Artwork, f types.ArtworkFilter) bool {
	if f.Category != "" && !strings.EqualFold(a.Category, strings.TrimSpace(f.Category)) {
		return false
	}
	if f.Medium != "" && !strings.EqualFold(a.Medium, strings.TrimSpace(f.Medium)) {
		return false
	}
	if f.ArtistID != "" && a.ArtistID != strings.TrimSpace(f.ArtistID) {
		return false
	}
	if f.ForSale != nil && a.IsForSale != *f.ForSale {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		if a.Price == nil {
			return false
		}
		if f.MinPrice != nil && *a.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && *a.Price > *f.MaxPrice {
			return false
		}
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		haystack := strings.ToLower(a.Title + " " + a.ArtistName + " " + a.Description + " " + a.Medium)
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// sortArtworks orders in place. Without an explicit order, price and title
// ascend; year, likes and newest descend. Unpriced artworks sort last.
func sortArtworks(items []types.Artwork, by enums.ArtworkSort, order enums.SortOrder) {
	if !by.IsValid() {
		return
	}
	desc := order == enums.SortOrderDesc
	if !order.IsValid() {
		desc = by != enums.ArtworkSortPrice && by != enums.ArtworkSortTitle
	}
	slices.SortStableFunc(items, func(a, b types.Artwork) int {
		var c int
		switch by {
		case enums.ArtworkSortPrice:
			switch {
			case a.Price == nil && b.Price == nil:
				return 0
			case a.Price == nil:
				return 1
			case b.Price == nil:
				return -1
			}
			c = cmp.Compare(*a.Price, *b.Price)
		case enums.ArtworkSortTitle:
			c = cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case enums.ArtworkSortLikes:
			c = cmp.Compare(a.Likes, b.Likes)
		default:
			c = cmp.Compare(a.Year, b.Year)
		}
		if desc {
			return -c
		}
		return c
	})
}

// QueryArtists filters by search term and area, then pages.
func QueryArtists(all []types.Artist, q api.ArtistQuery) types.Page[types.Artist] {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	area := strings.TrimSpace(q.Area)
	matched := make([]types.Artist, 0, len(all))
	for _, a := range all {
		if area != "" && !strings.EqualFold(a.Area, area) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(a.Name+" "+a.Bio), term) {
			continue
		}
		matched = append(matched, a)
	}
	return page(matched, q.Page)
}

// Categories lists the distinct artwork categories, sorted.
func Categories(all []types.Artwork) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, a := range all {
		c := strings.ToLower(strings.TrimSpace(a.Category))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func page[T any](items []T, params pagination.Params) types.Page[T] {
	p := params.Normalize()
	window, total := pagination.Slice(items, p)
	return types.Page[T]{Items: window, Page: p.Page, Limit: p.Limit, Total: total}
}
