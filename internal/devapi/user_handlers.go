package devapi

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/angelmondragon/artmarket-storefront/pkg/validators"
	"github.com/go-chi/chi/v5"
)

type profileRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,phone"`
	ProfileImage *string `json:"profileImage,omitempty" validate:"omitempty,url"`
}

type favoriteRequest struct {
	ArtworkID string `json:"artworkId" validate:"required"`
}

type addressRequest struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty" validate:"omitempty,max=40"`
	Name       string `json:"name" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"required,phone"`
	Line1      string `json:"address" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=80"`
	State      string `json:"state" validate:"required,max=80"`
	PostalCode string `json:"postalCode" validate:"required,postal"`
	IsDefault  bool   `json:"isDefault,omitempty"`
}

func (a addressRequest) address() types.Address {
	return types.Address{
		ID:         a.ID,
		Label:      validators.SanitizeString(a.Label, 40),
		Name:       validators.SanitizeString(a.Name, 120),
		Phone:      strings.TrimSpace(a.Phone),
		Line1:      validators.SanitizeString(a.Line1, 200),
		City:       validators.SanitizeString(a.City, 80),
		State:      validators.SanitizeString(a.State, 80),
		PostalCode: strings.TrimSpace(a.PostalCode),
		IsDefault:  a.IsDefault,
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.state.user(userIDFromContext(r.Context()))
	if !ok {
		writeError(r.Context(), s.logg, w, unauthorized("account no longer exists"))
		return
	}
	writeSuccess(w, wireUser(user))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	user, ok := s.state.updateUser(userIDFromContext(r.Context()), func(u *types.User) {
		if req.Name != nil {
			u.Name = validators.SanitizeString(*req.Name, 120)
		}
		if req.Phone != nil {
			u.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.ProfileImage != nil {
			u.ProfileImage = strings.TrimSpace(*req.ProfileImage)
		}
	})
	if !ok {
		writeError(r.Context(), s.logg, w, unauthorized("account no longer exists"))
		return
	}
	writeSuccess(w, wireUser(user))
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.wireFavorites(userIDFromContext(r.Context())))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	if _, ok := s.state.artwork(req.ArtworkID); !ok {
		writeError(r.Context(), s.logg, w, notFound("artwork not found"))
		return
	}
	userID := userIDFromContext(r.Context())
	s.state.addFavorite(userID, req.ArtworkID)
	writeSuccessStatus(w, http.StatusCreated, s.wireFavorites(userID))
}

// handleRemoveFavorite is idempotent; removing an absent favorite succeeds.
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.state.removeFavorite(userIDFromContext(r.Context()), chi.URLParam(r, "artworkID"))
	writeNoContent(w)
}

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.state.addressList(userIDFromContext(r.Context())))
}

func (s *Server) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	req.ID = ""
	addr, _ := s.state.saveAddress(userIDFromContext(r.Context()), req.address())
	writeSuccessStatus(w, http.StatusCreated, addr)
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	req.ID = chi.URLParam(r, "addressID")
	addr, ok := s.state.saveAddress(userIDFromContext(r.Context()), req.address())
	if !ok {
		writeError(r.Context(), s.logg, w, notFound("address not found"))
		return
	}
	writeSuccess(w, addr)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	if !s.state.deleteAddress(userIDFromContext(r.Context()), chi.URLParam(r, "addressID")) {
		writeError(r.Context(), s.logg, w, notFound("address not found"))
		return
	}
	writeNoContent(w)
}
