package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	cartdomain "github.com/Symbiotnev/PITIA-pitia/internal/cart/domain"
	cartservice "github.com/Symbiotnev/PITIA-pitia/internal/cart/service"
	"github.com/Symbiotnev/PITIA-pitia/internal/cart/store"
	menudomain "github.com/Symbiotnev/PITIA-pitia/internal/menu/domain"
	menurepo "github.com/Symbiotnev/PITIA-pitia/internal/menu/repository"
	promodomain "github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartAPI is the slice of the cart service the handler needs.
// Consumers define this interface, not the service implementation.
type CartAPI interface {
	Get(ctx context.Context, sessionID string) (*cartdomain.Cart, error)
	AddItem(ctx context.Context, sessionID string, input cartservice.AddInput) (*cartdomain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID, providerID string, quantity int) (*cartdomain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID, providerID string) (*cartdomain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// MenuItemReader resolves the item being added to a cart.
type MenuItemReader interface {
	GetItem(ctx context.Context, itemID string) (*menudomain.Item, error)
}

// ActivePromoReader finds the promo to capture at add time.
type ActivePromoReader interface {
	ActiveForItem(ctx context.Context, itemID string, now time.Time) (*promodomain.Promo, error)
}

type CartHandler struct {
	cart   CartAPI
	menu   MenuItemReader
	promos ActivePromoReader
	log    *zap.Logger
}

func NewCartHandler(cart CartAPI, menu MenuItemReader, promos ActivePromoReader, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, menu: menu, promos: promos, log: log}
}

type addItemRequestDTO struct {
	ItemID string `json:"itemId"`
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type cartResponseDTO struct {
	Cart  *cartdomain.Cart `json:"cart"`
	Total float64          `json:"total"`
}

func cartResponse(cart *cartdomain.Cart) cartResponseDTO {
	return cartResponseDTO{Cart: cart, Total: cart.Total()}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	cart, err := h.cart.Get(r.Context(), userID)
	if err != nil {
		h.handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

// AddItem resolves the menu item and its currently-active promo, then hands
// the captured snapshot to the cart. Pricing is frozen per line at add time.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "itemId is required")
		return
	}

	item, err := h.menu.GetItem(r.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, menurepo.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "menu item not found")
			return
		}
		h.log.Error("failed to load menu item", zap.String("item_id", req.ItemID), zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "failed to load menu item")
		return
	}

	var snapshot *promodomain.Snapshot
	promo, err := h.promos.ActiveForItem(r.Context(), item.ID, time.Now())
	if err != nil {
		// An unreadable promo list must not block the sale; the item
		// simply goes in at full price.
		h.log.Warn("failed to load promos for item", zap.String("item_id", item.ID), zap.Error(err))
	} else if promo != nil {
		snapshot = promodomain.Capture(promo)
	}

	cart, err := h.cart.AddItem(r.Context(), userID, cartservice.AddInput{
		ItemID:     item.ID,
		ProviderID: item.ProviderID,
		Name:       item.Name,
		ImageURL:   item.ImageURL,
		Price:      item.Price,
		Promo:      snapshot,
	})
	if err != nil {
		h.handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(cart))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	providerID := r.URL.Query().Get("providerId")

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	cart, err := h.cart.UpdateQuantity(r.Context(), userID, itemID, providerID, req.Quantity)
	if err != nil {
		h.handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	providerID := r.URL.Query().Get("providerId")

	cart, err := h.cart.RemoveItem(r.Context(), userID, itemID, providerID)
	if err != nil {
		h.handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		h.handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(&cartdomain.Cart{SessionID: userID}))
}

func (h *CartHandler) handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrCartConflict):
		respondError(w, http.StatusConflict, "cart_conflict", "cart was modified concurrently, retry")
	case errors.Is(err, promodomain.ErrMalformedPromoValue):
		respondError(w, http.StatusUnprocessableEntity, "malformed_promo", err.Error())
	default:
		h.log.Error("cart operation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
