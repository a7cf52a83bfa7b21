package store

import (
	"context"
	"errors"

	"github.com/Symbiotnev/PITIA-pitia/internal/cart/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartConflict signals the cart changed underneath the writer
	// (another tab or request won the race). Callers reload and retry.
	ErrCartConflict = errors.New("cart was modified concurrently")
)

// CartStore defines the interface for persisted cart state.
// Consumers define this interface, not the Redis implementation.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)
	// Save persists the cart if cart.Version still matches the stored
	// version, then bumps cart.Version. Returns ErrCartConflict otherwise.
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
