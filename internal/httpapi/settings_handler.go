package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Symbiotnev/PITIA-pitia/internal/settings"
	"go.uber.org/zap"
)

// SettingsAPI is the slice of the settings service the handler needs.
type SettingsAPI interface {
	Theme(ctx context.Context, sessionID string) string
	SetTheme(ctx context.Context, sessionID, theme string) error
}

type SettingsHandler struct {
	settings SettingsAPI
	log      *zap.Logger
}

func NewSettingsHandler(settings SettingsAPI, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

type themeDTO struct {
	Theme string `json:"theme"`
}

func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}
	respondJSON(w, http.StatusOK, themeDTO{Theme: h.settings.Theme(r.Context(), userID)})
}

func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var req themeDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.settings.SetTheme(r.Context(), userID, req.Theme); err != nil {
		if errors.Is(err, settings.ErrInvalidTheme) {
			respondError(w, http.StatusBadRequest, "invalid_theme", err.Error())
			return
		}
		h.log.Error("failed to store theme", zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "failed to store theme")
		return
	}
	respondJSON(w, http.StatusOK, req)
}
