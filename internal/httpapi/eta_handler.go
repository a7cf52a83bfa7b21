package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Symbiotnev/PITIA-pitia/internal/eta"
	locdomain "github.com/Symbiotnev/PITIA-pitia/internal/location/domain"
	locrepo "github.com/Symbiotnev/PITIA-pitia/internal/location/repository"
	"go.uber.org/zap"
)

// RouteCalculator resolves a travel-time estimate; nil means unavailable.
type RouteCalculator interface {
	Calculate(ctx context.Context, origin, destination eta.Point, mode eta.Mode) *eta.Result
}

// LocationReader fetches the stored position records the estimate runs on.
type LocationReader interface {
	Get(ctx context.Context, role locdomain.Role, ownerID string) (*locdomain.Record, error)
}

type ETAHandler struct {
	calc      RouteCalculator
	locations LocationReader
	log       *zap.Logger
}

func NewETAHandler(calc RouteCalculator, locations LocationReader, log *zap.Logger) *ETAHandler {
	return &ETAHandler{calc: calc, locations: locations, log: log}
}

type etaResponseDTO struct {
	Available bool        `json:"available"`
	ETA       *eta.Result `json:"eta,omitempty"`
}

// Estimate computes the travel time from the caller to a provider using
// their last shared locations. An unavailable estimate is a 200 with
// available=false, never an error.
func (h *ETAHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	providerID := r.URL.Query().Get("providerId")
	if providerID == "" {
		respondError(w, http.StatusBadRequest, "invalid_provider_id", "providerId is required")
		return
	}

	mode, err := eta.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_mode", err.Error())
		return
	}

	client, err := h.locations.Get(r.Context(), locdomain.RoleClient, userID)
	if err != nil {
		h.handleLocationError(w, err, "your location is not shared")
		return
	}
	provider, err := h.locations.Get(r.Context(), locdomain.RoleProvider, providerID)
	if err != nil {
		h.handleLocationError(w, err, "provider location is not shared")
		return
	}

	result := h.calc.Calculate(r.Context(),
		eta.Point{Lat: client.Latitude, Lng: client.Longitude},
		eta.Point{Lat: provider.Latitude, Lng: provider.Longitude},
		mode)

	respondJSON(w, http.StatusOK, etaResponseDTO{
		Available: result != nil,
		ETA:       result,
	})
}

func (h *ETAHandler) handleLocationError(w http.ResponseWriter, err error, missing string) {
	if errors.Is(err, locrepo.ErrLocationNotFound) {
		respondError(w, http.StatusNotFound, "location_missing", missing)
		return
	}
	h.log.Error("failed to load location", zap.Error(err))
	respondError(w, http.StatusBadGateway, "upstream_error", "failed to load location")
}
