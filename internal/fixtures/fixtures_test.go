package fixtures

import "testing"

func TestArtworksAreCopies(t *testing.T) {
	first := Artworks()
	*first[0].Price = 1
	first[1].Title = "changed"

	second := Artworks()
	if *second[0].Price == 1 || second[1].Title == "changed" {
		t.Fatalf("fixtures leaked a mutation")
	}
}

func TestFixtureReferencesResolve(t *testing.T) {
	ids := map[string]bool{}
	for _, a := range Artists() {
		ids[a.ID] = true
		if a.ArtworkCount == 0 {
			t.Fatalf("artist %s has no artworks", a.ID)
		}
	}
	seen := map[string]bool{}
	for _, w := range Artworks() {
		if seen[w.ID] {
			t.Fatalf("duplicate artwork id %s", w.ID)
		}
		seen[w.ID] = true
		if !ids[w.ArtistID] {
			t.Fatalf("artwork %s references unknown artist %s", w.ID, w.ArtistID)
		}
	}
}
