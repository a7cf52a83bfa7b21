package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	menudomain "github.com/Symbiotnev/PITIA-pitia/internal/menu/domain"
	menurepo "github.com/Symbiotnev/PITIA-pitia/internal/menu/repository"
	menuservice "github.com/Symbiotnev/PITIA-pitia/internal/menu/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxImageSize bounds menu item image uploads.
const maxImageSize = 5 << 20 // 5MB

// MenuAPI is the slice of the menu service the handler needs.
type MenuAPI interface {
	AddSection(ctx context.Context, providerID, name string) (string, error)
	RemoveSection(ctx context.Context, sectionID string) error
	AddItem(ctx context.Context, item *menudomain.Item, image *menuservice.ImageUpload) (string, error)
	UpdateItem(ctx context.Context, item *menudomain.Item, image *menuservice.ImageUpload) error
	RemoveItem(ctx context.Context, itemID string) error
	Menu(ctx context.Context, providerID string) ([]*menudomain.MenuSection, error)
}

type MenuHandler struct {
	menu MenuAPI
	log  *zap.Logger
}

func NewMenuHandler(menu MenuAPI, log *zap.Logger) *MenuHandler {
	return &MenuHandler{menu: menu, log: log}
}

type addSectionRequestDTO struct {
	Name string `json:"name"`
}

type idResponseDTO struct {
	ID string `json:"id"`
}

func (h *MenuHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	providerID := requireUser(w, r)
	if providerID == "" {
		return
	}

	var req addSectionRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	id, err := h.menu.AddSection(r.Context(), providerID, req.Name)
	if err != nil {
		h.handleMenuError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, idResponseDTO{ID: id})
}

func (h *MenuHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	if requireUser(w, r) == "" {
		return
	}

	if err := h.menu.RemoveSection(r.Context(), chi.URLParam(r, "section_id")); err != nil {
		h.handleMenuError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// AddItem accepts a multipart form: item fields plus an optional "image" file.
func (h *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	providerID := requireUser(w, r)
	if providerID == "" {
		return
	}

	item, image, ok := h.parseItemForm(w, r)
	if !ok {
		return
	}
	item.ProviderID = providerID

	id, err := h.menu.AddItem(r.Context(), item, image)
	if err != nil {
		h.handleMenuError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, idResponseDTO{ID: id})
}

func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	providerID := requireUser(w, r)
	if providerID == "" {
		return
	}

	item, image, ok := h.parseItemForm(w, r)
	if !ok {
		return
	}
	item.ID = chi.URLParam(r, "item_id")
	item.ProviderID = providerID

	if err := h.menu.UpdateItem(r.Context(), item, image); err != nil {
		h.handleMenuError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, idResponseDTO{ID: item.ID})
}

func (h *MenuHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if requireUser(w, r) == "" {
		return
	}

	if err := h.menu.RemoveItem(r.Context(), chi.URLParam(r, "item_id")); err != nil {
		h.handleMenuError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Menu is the customer-facing view: no authentication required.
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider_id")

	menu, err := h.menu.Menu(r.Context(), providerID)
	if err != nil {
		h.handleMenuError(w, err)
		return
	}
	if menu == nil {
		menu = []*menudomain.MenuSection{}
	}
	respondJSON(w, http.StatusOK, menu)
}

func (h *MenuHandler) parseItemForm(w http.ResponseWriter, r *http.Request) (*menudomain.Item, *menuservice.ImageUpload, bool) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return nil, nil, false
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a number")
		return nil, nil, false
	}

	item := &menudomain.Item{
		SectionID: r.FormValue("sectionId"),
		Name:      r.FormValue("name"),
		Price:     price,
		Currency:  r.FormValue("currency"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return item, nil, true
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_image", "could not read image upload")
		return nil, nil, false
	}

	return item, &menuservice.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, true
}

func (h *MenuHandler) handleMenuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, menuservice.ErrMissingSectionName),
		errors.Is(err, menuservice.ErrInvalidItem):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, menurepo.ErrSectionNotFound),
		errors.Is(err, menurepo.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		h.log.Error("menu operation failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "menu operation failed")
	}
}
