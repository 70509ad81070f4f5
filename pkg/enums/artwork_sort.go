package enums

import "fmt"

// ArtworkSort names the field artwork listings are ordered by.
type ArtworkSort string

const (
	ArtworkSortNewest ArtworkSort = "newest"
	ArtworkSortPrice  ArtworkSort = "price"
	ArtworkSortYear   ArtworkSort = "year"
	ArtworkSortTitle  ArtworkSort = "title"
	ArtworkSortLikes  ArtworkSort = "likes"
)

var validArtworkSorts = []ArtworkSort{
	ArtworkSortNewest,
	ArtworkSortPrice,
	ArtworkSortYear,
	ArtworkSortTitle,
	ArtworkSortLikes,
}

// String implements fmt.Stringer.
func (s ArtworkSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ArtworkSort.
func (s ArtworkSort) IsValid() bool {
	for _, candidate := range validArtworkSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseArtworkSort converts raw input into an ArtworkSort.
func ParseArtworkSort(value string) (ArtworkSort, error) {
	for _, candidate := range validArtworkSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid artwork sort %q", value)
}

// SortOrder is the direction of a listing sort.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid reports whether the value is a known SortOrder.
func (o SortOrder) IsValid() bool {
	return o == SortOrderAsc || o == SortOrderDesc
}

// ParseSortOrder converts raw input into a SortOrder.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(value) {
	case SortOrderAsc, SortOrderDesc:
		return SortOrder(value), nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
