package devapi

import (
	"net/http"

	"github.com/angelmondragon/artmarket-storefront/pkg/validators"
	"github.com/go-chi/chi/v5"
)

type addCartItemRequest struct {
	ArtworkID string `json:"artworkId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

type updateCartItemRequest struct {
	ArtworkID string `json:"artworkId,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.wireCart(userIDFromContext(r.Context())))
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	art, ok := s.state.artwork(req.ArtworkID)
	if !ok {
		writeError(r.Context(), s.logg, w, notFound("artwork not found"))
		return
	}
	if !art.Purchasable() {
		writeError(r.Context(), s.logg, w, conflict("This artwork is not available for purchase"))
		return
	}
	userID := userIDFromContext(r.Context())
	s.state.addToCart(userID, art.ID, req.Quantity)
	writeSuccessStatus(w, http.StatusCreated, s.wireCart(userID))
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	userID := userIDFromContext(r.Context())
	if _, ok := s.state.setCartQuantity(userID, chi.URLParam(r, "lineID"), req.Quantity); !ok {
		writeError(r.Context(), s.logg, w, notFound("cart item not found"))
		return
	}
	writeSuccess(w, s.wireCart(userID))
}

func (s *Server) handleDeleteCartItem(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if !s.state.removeCartLine(userID, chi.URLParam(r, "lineID")) {
		writeError(r.Context(), s.logg, w, notFound("cart item not found"))
		return
	}
	writeSuccess(w, s.wireCart(userID))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.state.clearCart(userIDFromContext(r.Context()))
	writeNoContent(w)
}
