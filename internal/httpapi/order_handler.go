package httpapi

import (
	"context"
	"errors"
	"net/http"

	orderdomain "github.com/Symbiotnev/PITIA-pitia/internal/order/domain"
	orderrepo "github.com/Symbiotnev/PITIA-pitia/internal/order/repository"
	orderservice "github.com/Symbiotnev/PITIA-pitia/internal/order/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderAPI is the slice of the order service the handler needs.
type OrderAPI interface {
	PlaceOrder(ctx context.Context, userID string) (string, error)
	ListOrders(ctx context.Context, userID string) ([]*orderdomain.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (*orderdomain.Order, error)
}

type OrderHandler struct {
	orders OrderAPI
	log    *zap.Logger
}

func NewOrderHandler(orders OrderAPI, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

type placeOrderResponseDTO struct {
	OrderID string `json:"orderId"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	orderID, err := h.orders.PlaceOrder(r.Context(), userID)
	if err != nil {
		h.handleOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, placeOrderResponseDTO{OrderID: orderID})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		h.handleOrderError(w, err)
		return
	}
	if orders == nil {
		orders = []*orderdomain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	orderID := chi.URLParam(r, "order_id")
	order, err := h.orders.MarkDelivered(r.Context(), orderID)
	if err != nil {
		h.handleOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) handleOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderservice.ErrMissingUser):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, orderservice.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, orderservice.ErrInvalidCartLine):
		respondError(w, http.StatusUnprocessableEntity, "invalid_cart_line", err.Error())
	case errors.Is(err, orderrepo.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	default:
		h.log.Error("order operation failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "order operation failed")
	}
}
