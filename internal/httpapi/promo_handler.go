package httpapi

import (
	"context"
	"errors"
	"net/http"

	promodomain "github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	promorepo "github.com/Symbiotnev/PITIA-pitia/internal/promo/repository"
	promoservice "github.com/Symbiotnev/PITIA-pitia/internal/promo/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PromoAPI is the slice of the promo service the handler needs.
type PromoAPI interface {
	AddPromo(ctx context.Context, promo *promodomain.Promo) (string, error)
	ListPromos(ctx context.Context, providerID string) ([]*promodomain.Promo, error)
	RemovePromo(ctx context.Context, promoID string) error
}

type PromoHandler struct {
	promos PromoAPI
	log    *zap.Logger
}

func NewPromoHandler(promos PromoAPI, log *zap.Logger) *PromoHandler {
	return &PromoHandler{promos: promos, log: log}
}

func (h *PromoHandler) AddPromo(w http.ResponseWriter, r *http.Request) {
	providerID := requireUser(w, r)
	if providerID == "" {
		return
	}

	var promo promodomain.Promo
	if err := decodeJSON(r, &promo); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	promo.ProviderID = providerID

	id, err := h.promos.AddPromo(r.Context(), &promo)
	if err != nil {
		h.handlePromoError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, idResponseDTO{ID: id})
}

func (h *PromoHandler) ListPromos(w http.ResponseWriter, r *http.Request) {
	providerID := requireUser(w, r)
	if providerID == "" {
		return
	}

	promos, err := h.promos.ListPromos(r.Context(), providerID)
	if err != nil {
		h.handlePromoError(w, err)
		return
	}
	if promos == nil {
		promos = []*promodomain.Promo{}
	}
	respondJSON(w, http.StatusOK, promos)
}

func (h *PromoHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	if requireUser(w, r) == "" {
		return
	}

	if err := h.promos.RemovePromo(r.Context(), chi.URLParam(r, "promo_id")); err != nil {
		h.handlePromoError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *PromoHandler) handlePromoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, promodomain.ErrMalformedPromoValue),
		errors.Is(err, promoservice.ErrInvalidPromoWindow),
		errors.Is(err, promoservice.ErrMissingPromoItem):
		respondError(w, http.StatusBadRequest, "invalid_promo", err.Error())
	case errors.Is(err, promorepo.ErrPromoNotFound):
		respondError(w, http.StatusNotFound, "not_found", "promo not found")
	default:
		h.log.Error("promo operation failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "promo operation failed")
	}
}
