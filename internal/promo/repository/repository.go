package repository

import (
	"context"
	"errors"

	"github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
)

var ErrPromoNotFound = errors.New("promo not found")

// PromoRepository defines the interface for promo data operations.
// Consumers define this interface, not the MongoDB implementation.
type PromoRepository interface {
	Add(ctx context.Context, promo *domain.Promo) (string, error)
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Promo, error)
	ListByItem(ctx context.Context, itemID string) ([]*domain.Promo, error)
	Remove(ctx context.Context, promoID string) error
}
