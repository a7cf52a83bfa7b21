package repository

import (
	"context"
	"errors"

	"github.com/Symbiotnev/PITIA-pitia/internal/menu/domain"
)

var (
	ErrSectionNotFound = errors.New("menu section not found")
	ErrItemNotFound    = errors.New("menu item not found")
)

// MenuRepository defines the interface for menu data operations.
// Consumers define this interface, not the MongoDB implementation.
type MenuRepository interface {
	AddSection(ctx context.Context, section *domain.Section) (string, error)
	ListSections(ctx context.Context, providerID string) ([]*domain.Section, error)
	RemoveSection(ctx context.Context, sectionID string) error

	AddItem(ctx context.Context, item *domain.Item) (string, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItemsBySection(ctx context.Context, sectionID string) ([]*domain.Item, error)
	RemoveItem(ctx context.Context, itemID string) error
}
