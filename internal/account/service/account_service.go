package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/account/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/account/repository"
	"golang.org/x/sync/singleflight"
)

var ErrMissingAccountID = errors.New("account id is required")

// nameCacheTTL bounds how stale a decorated order listing can be after a
// provider renames their business.
const nameCacheTTL = 5 * time.Minute

type cachedName struct {
	name    string
	expires time.Time
}

type AccountService struct {
	repo repository.AccountRepository
	sfg  singleflight.Group // Prevents lookup stampede on popular providers

	mu    sync.RWMutex
	names map[string]cachedName
	now   func() time.Time
}

func NewAccountService(repo repository.AccountRepository) *AccountService {
	return &AccountService{
		repo:  repo,
		names: make(map[string]cachedName),
		now:   time.Now,
	}
}

func (s *AccountService) SaveClient(ctx context.Context, client *domain.Client) error {
	if strings.TrimSpace(client.ID) == "" {
		return ErrMissingAccountID
	}
	return s.repo.UpsertClient(ctx, client)
}

func (s *AccountService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *AccountService) SaveProvider(ctx context.Context, provider *domain.ServiceProvider) error {
	if strings.TrimSpace(provider.ID) == "" {
		return ErrMissingAccountID
	}
	if err := s.repo.UpsertProvider(ctx, provider); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.names, provider.ID)
	s.mu.Unlock()
	return nil
}

func (s *AccountService) GetProvider(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	return s.repo.GetProvider(ctx, id)
}

func (s *AccountService) ListProviders(ctx context.Context) ([]*domain.ServiceProvider, error) {
	return s.repo.ListProviders(ctx)
}

// ProviderName resolves a provider id to its business display name, with a
// short in-process cache in front of the store. Concurrent misses for the
// same id collapse into a single lookup.
func (s *AccountService) ProviderName(ctx context.Context, providerID string) (string, error) {
	s.mu.RLock()
	entry, ok := s.names[providerID]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expires) {
		return entry.name, nil
	}

	v, err, _ := s.sfg.Do(providerID, func() (interface{}, error) {
		provider, err := s.repo.GetProvider(ctx, providerID)
		if err != nil {
			return "", fmt.Errorf("lookup provider %s: %w", providerID, err)
		}

		s.mu.Lock()
		s.names[providerID] = cachedName{
			name:    provider.BusinessName,
			expires: s.now().Add(nameCacheTTL),
		}
		s.mu.Unlock()
		return provider.BusinessName, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
