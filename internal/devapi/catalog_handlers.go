package devapi

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/internal/catalog"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/angelmondragon/artmarket-storefront/pkg/validators"
	"github.com/go-chi/chi/v5"
)

func pageParams(r *http.Request) pagination.Params {
	q := r.URL.Query()
	return pagination.Parse(q.Get("page"), q.Get("limit"))
}

func parseArtworkQuery(r *http.Request) (api.ArtworkQuery, error) {
	q := r.URL.Query()
	out := api.ArtworkQuery{
		Filter: types.ArtworkFilter{
			Category: strings.TrimSpace(q.Get("category")),
			Medium:   strings.TrimSpace(q.Get("medium")),
			ArtistID: strings.TrimSpace(q.Get("artistId")),
			Search:   validators.SanitizeString(q.Get("search"), 120),
		},
		Page: pageParams(r),
	}
	if raw := q.Get("sortBy"); raw != "" {
		sortBy, err := enums.ParseArtworkSort(raw)
		if err != nil {
			return api.ArtworkQuery{}, badRequest("sortBy is not supported")
		}
		out.SortBy = sortBy
	}
	if raw := q.Get("sortOrder"); raw != "" {
		order, err := enums.ParseSortOrder(raw)
		if err != nil {
			return api.ArtworkQuery{}, badRequest("sortOrder must be asc or desc")
		}
		out.SortOrder = order
	}
	var err error
	if out.Filter.MinPrice, err = validators.ParseQueryFloat(r, "minPrice"); err != nil {
		return api.ArtworkQuery{}, err
	}
	if out.Filter.MaxPrice, err = validators.ParseQueryFloat(r, "maxPrice"); err != nil {
		return api.ArtworkQuery{}, err
	}
	if out.Filter.ForSale, err = validators.ParseQueryBool(r, "forSale"); err != nil {
		return api.ArtworkQuery{}, err
	}
	return out, nil
}

func (s *Server) handleListArtworks(w http.ResponseWriter, r *http.Request) {
	q, err := parseArtworkQuery(r)
	if err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	page := catalog.QueryArtworks(s.state.artworkList(), q)
	writeSuccess(w, wirePage(page, wireArtworks))
}

func (s *Server) handleFeaturedArtworks(w http.ResponseWriter, r *http.Request) {
	featured := []types.Artwork{}
	for _, a := range s.state.artworkList() {
		if a.Featured {
			featured = append(featured, a)
		}
	}
	writeSuccess(w, wireArtworks(featured))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, catalog.Categories(s.state.artworkList()))
}

func (s *Server) handleArtworksByArtist(w http.ResponseWriter, r *http.Request) {
	artistID := chi.URLParam(r, "artistID")
	if _, ok := s.state.artist(artistID); !ok {
		writeError(r.Context(), s.logg, w, notFound("artist not found"))
		return
	}
	page := catalog.QueryArtworks(s.state.artworkList(), api.ArtworkQuery{
		Filter: types.ArtworkFilter{ArtistID: artistID},
		Page:   pageParams(r),
	})
	writeSuccess(w, wirePage(page, wireArtworks))
}

func (s *Server) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	art, ok := s.state.artwork(chi.URLParam(r, "artworkID"))
	if !ok {
		writeError(r.Context(), s.logg, w, notFound("artwork not found"))
		return
	}
	writeSuccess(w, wireArtwork(art))
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	liked, likes, ok := s.state.toggleLike(userIDFromContext(r.Context()), chi.URLParam(r, "artworkID"))
	if !ok {
		writeError(r.Context(), s.logg, w, notFound("artwork not found"))
		return
	}
	writeSuccess(w, types.WireLike{Liked: liked, Likes: likes})
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := catalog.QueryArtists(s.state.artistList(), api.ArtistQuery{
		Search: validators.SanitizeString(q.Get("search"), 120),
		Area:   strings.TrimSpace(q.Get("area")),
		Page:   pageParams(r),
	})
	writeSuccess(w, wirePage(page, wireArtists))
}

func (s *Server) handleFeaturedArtists(w http.ResponseWriter, r *http.Request) {
	featured := []types.Artist{}
	for _, a := range s.state.artistList() {
		if a.Featured {
			featured = append(featured, a)
		}
	}
	writeSuccess(w, wireArtists(featured))
}

func (s *Server) handleArtistsByArea(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))
	if area == "" {
		writeError(r.Context(), s.logg, w, badRequest("area is required"))
		return
	}
	page := catalog.QueryArtists(s.state.artistList(), api.ArtistQuery{
		Area: area,
		Page: pagination.Params{Limit: pagination.MaxLimit},
	})
	writeSuccess(w, wireArtists(page.Items))
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, ok := s.state.artist(chi.URLParam(r, "artistID"))
	if !ok {
		writeError(r.Context(), s.logg, w, notFound("artist not found"))
		return
	}
	writeSuccess(w, wireArtist(artist))
}
