package repository

import (
	"context"
	"errors"

	"github.com/Symbiotnev/PITIA-pitia/internal/location/domain"
)

var ErrLocationNotFound = errors.New("location record not found")

// LocationRepository defines the interface for location record operations.
// Consumers define this interface, not the MongoDB implementation.
type LocationRepository interface {
	Upsert(ctx context.Context, role domain.Role, record *domain.Record) error
	Get(ctx context.Context, role domain.Role, ownerID string) (*domain.Record, error)
}
