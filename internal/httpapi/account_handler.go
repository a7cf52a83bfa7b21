package httpapi

import (
	"context"
	"errors"
	"net/http"

	acctdomain "github.com/Symbiotnev/PITIA-pitia/internal/account/domain"
	acctrepo "github.com/Symbiotnev/PITIA-pitia/internal/account/repository"
	acctservice "github.com/Symbiotnev/PITIA-pitia/internal/account/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AccountAPI is the slice of the account service the handler needs.
type AccountAPI interface {
	SaveClient(ctx context.Context, client *acctdomain.Client) error
	GetClient(ctx context.Context, id string) (*acctdomain.Client, error)
	SaveProvider(ctx context.Context, provider *acctdomain.ServiceProvider) error
	GetProvider(ctx context.Context, id string) (*acctdomain.ServiceProvider, error)
	ListProviders(ctx context.Context) ([]*acctdomain.ServiceProvider, error)
}

type AccountHandler struct {
	accounts AccountAPI
	log      *zap.Logger
}

func NewAccountHandler(accounts AccountAPI, log *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

func (h *AccountHandler) SaveClient(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var client acctdomain.Client
	if err := decodeJSON(r, &client); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	client.ID = userID

	if err := h.accounts.SaveClient(r.Context(), &client); err != nil {
		h.handleAccountError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

func (h *AccountHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	client, err := h.accounts.GetClient(r.Context(), userID)
	if err != nil {
		h.handleAccountError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

func (h *AccountHandler) SaveProvider(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var provider acctdomain.ServiceProvider
	if err := decodeJSON(r, &provider); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	provider.ID = userID

	if err := h.accounts.SaveProvider(r.Context(), &provider); err != nil {
		h.handleAccountError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, provider)
}

func (h *AccountHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := h.accounts.GetProvider(r.Context(), chi.URLParam(r, "provider_id"))
	if err != nil {
		h.handleAccountError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, provider)
}

// ListProviders backs the customer's restaurant browser; no auth needed.
func (h *AccountHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.accounts.ListProviders(r.Context())
	if err != nil {
		h.handleAccountError(w, err)
		return
	}
	if providers == nil {
		providers = []*acctdomain.ServiceProvider{}
	}
	respondJSON(w, http.StatusOK, providers)
}

func (h *AccountHandler) handleAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, acctservice.ErrMissingAccountID):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, acctrepo.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "not_found", "account not found")
	default:
		h.log.Error("account operation failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "upstream_error", "account operation failed")
	}
}
