package repository

import (
	"context"
	"errors"

	"github.com/Symbiotnev/PITIA-pitia/internal/account/domain"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the interface for profile data operations.
// Consumers define this interface, not the MongoDB implementation.
type AccountRepository interface {
	UpsertClient(ctx context.Context, client *domain.Client) error
	GetClient(ctx context.Context, id string) (*domain.Client, error)

	UpsertProvider(ctx context.Context, provider *domain.ServiceProvider) error
	GetProvider(ctx context.Context, id string) (*domain.ServiceProvider, error)
	ListProviders(ctx context.Context) ([]*domain.ServiceProvider, error)
}
