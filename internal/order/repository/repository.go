package repository

import (
	"context"
	"errors"

	"github.com/Symbiotnev/PITIA-pitia/internal/order/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data operations.
// Consumers define this interface, not the MongoDB implementation.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
}
