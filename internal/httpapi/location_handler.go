package httpapi

import (
	"context"
	"errors"
	"net/http"

	locdomain "github.com/Symbiotnev/PITIA-pitia/internal/location/domain"
	locrepo "github.com/Symbiotnev/PITIA-pitia/internal/location/repository"
	locservice "github.com/Symbiotnev/PITIA-pitia/internal/location/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LocationAPI is the slice of the location service the handler needs.
type LocationAPI interface {
	Share(ctx context.Context, role locdomain.Role, ownerID string, lat, lng, accuracy float64) (*locdomain.Record, error)
	Get(ctx context.Context, role locdomain.Role, ownerID string) (*locdomain.Record, error)
}

type LocationHandler struct {
	locations LocationAPI
	log       *zap.Logger
}

func NewLocationHandler(locations LocationAPI, log *zap.Logger) *LocationHandler {
	return &LocationHandler{locations: locations, log: log}
}

type shareLocationRequestDTO struct {
	Role      string  `json:"role"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

type locationFailureRequestDTO struct {
	Code int `json:"code"`
}

type locationFailureResponseDTO struct {
	Message string `json:"message"`
}

func (h *LocationHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req shareLocationRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	record, err := h.locations.Share(r.Context(), locdomain.Role(req.Role), userID, req.Latitude, req.Longitude, req.Accuracy)
	if err != nil {
		h.handleLocationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if requireUser(w, r) == "" {
		return
	}

	role := locdomain.Role(chi.URLParam(r, "role"))
	ownerID := chi.URLParam(r, "owner_id")

	record, err := h.locations.Get(r.Context(), role, ownerID)
	if err != nil {
		h.handleLocationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Failure translates a browser geolocation error code into the fixed
// user-facing message the clients display.
func (h *LocationHandler) Failure(w http.ResponseWriter, r *http.Request) {
	var req locationFailureRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusOK, locationFailureResponseDTO{Message: locdomain.FailureMessage(req.Code)})
}

func (h *LocationHandler) handleLocationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, locdomain.ErrInvalidCoordinates),
		errors.Is(err, locservice.ErrInvalidRole):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, locrepo.ErrLocationNotFound):
		respondError(w, http.StatusNotFound, "not_found", "location record not found")
	default:
		h.log.Error("location operation failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "location operation failed")
	}
}
