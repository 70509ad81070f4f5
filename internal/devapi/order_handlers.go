package devapi

import (
	"net/http"

	"github.com/angelmondragon/artmarket-storefront/internal/pricing"
	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/angelmondragon/artmarket-storefront/pkg/validators"
	"github.com/go-chi/chi/v5"
)

const orderStatusConfirmed = "confirmed"

type orderItemRequest struct {
	ID         string  `json:"id" validate:"required"`
	Title      string  `json:"title"`
	ArtistName string  `json:"artistName"`
	UnitPrice  float64 `json:"price"`
	ImageRef   string  `json:"image,omitempty"`
	Quantity   int     `json:"quantity" validate:"min=1,max=99"`
}

type shippingRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required,postal"`
}

type orderRequest struct {
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Shipping      shippingRequest    `json:"shipping"`
	PaymentMethod string             `json:"paymentMethod" validate:"required"`
	Subtotal      float64            `json:"subtotal"`
	Tax           float64            `json:"tax"`
	ShippingFee   float64            `json:"shippingFee"`
	GrandTotal    float64            `json:"grandTotal"`
}

// handleCreateOrder reprices every line from the catalog; the totals the
// client sent are informational only.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		writeError(r.Context(), s.logg, w, err)
		return
	}
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(r.Context(), s.logg, w, badRequest("paymentMethod is not supported"))
		return
	}

	items := make([]types.CartLineItem, 0, len(req.Items))
	for _, in := range req.Items {
		art, ok := s.state.artwork(in.ID)
		if !ok {
			writeError(r.Context(), s.logg, w, notFound("artwork "+in.ID+" not found"))
			return
		}
		if !art.Purchasable() {
			writeError(r.Context(), s.logg, w, conflict(art.Title+" is no longer available"))
			return
		}
		line := types.LineItemFromArtwork(art)
		line.Quantity = in.Quantity
		items = append(items, line)
	}

	totals := pricing.ComputeTotals(items, pricing.WithPolicy(s.policy))
	ctx := s.logg.WithUserID(r.Context(), userIDFromContext(r.Context()))
	if totals.GrandTotal != req.GrandTotal {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"client_total": req.GrandTotal,
			"server_total": totals.GrandTotal,
		}), "order.total_mismatch")
	}

	sh := req.Shipping
	order := s.state.addOrder(userIDFromContext(r.Context()), types.Order{
		Items: items,
		Shipping: types.ShippingDetails{
			Name:       validators.SanitizeString(sh.Name, 120),
			Email:      normalizeEmail(sh.Email),
			Phone:      sh.Phone,
			Address:    validators.SanitizeString(sh.Address, 200),
			City:       validators.SanitizeString(sh.City, 80),
			State:      validators.SanitizeString(sh.State, 80),
			PostalCode: sh.PostalCode,
		},
		PaymentMethod: method.String(),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		ShippingFee:   totals.Shipping,
		GrandTotal:    totals.GrandTotal,
		Status:        orderStatusConfirmed,
		CreatedAt:     s.now().UTC(),
	})
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "order.created")
	writeSuccessStatus(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.state.orderList(userIDFromContext(r.Context())))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.state.order(userIDFromContext(r.Context()), chi.URLParam(r, "orderID"))
	if !ok {
		writeError(r.Context(), s.logg, w, notFound("order not found"))
		return
	}
	writeSuccess(w, order)
}
