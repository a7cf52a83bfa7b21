package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/menu/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepository struct {
	sections *mongo.Collection
	items    *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) MenuRepository {
	return &mongoRepository{
		sections: db.Collection("menuSections"),
		items:    db.Collection("menuItems"),
	}
}

func (m *mongoRepository) AddSection(ctx context.Context, section *domain.Section) (string, error) {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	if section.CreatedAt.IsZero() {
		section.CreatedAt = time.Now()
	}
	if _, err := m.sections.InsertOne(ctx, section); err != nil {
		return "", fmt.Errorf("failed to insert section: %w", err)
	}
	return section.ID, nil
}

func (m *mongoRepository) ListSections(ctx context.Context, providerID string) ([]*domain.Section, error) {
	cursor, err := m.sections.Find(ctx, bson.M{"user_id": providerID})
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer cursor.Close(ctx)

	var sections []*domain.Section
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}

func (m *mongoRepository) RemoveSection(ctx context.Context, sectionID string) error {
	result, err := m.sections.DeleteOne(ctx, bson.M{"_id": sectionID})
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrSectionNotFound
	}
	return nil
}

func (m *mongoRepository) AddItem(ctx context.Context, item *domain.Item) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if _, err := m.items.InsertOne(ctx, item); err != nil {
		return "", fmt.Errorf("failed to insert item: %w", err)
	}
	return item.ID, nil
}

func (m *mongoRepository) UpdateItem(ctx context.Context, item *domain.Item) error {
	result, err := m.items.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	var item domain.Item
	err := m.items.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (m *mongoRepository) ListItemsBySection(ctx context.Context, sectionID string) ([]*domain.Item, error) {
	cursor, err := m.items.Find(ctx, bson.M{"section_id": sectionID})
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

func (m *mongoRepository) RemoveItem(ctx context.Context, itemID string) error {
	result, err := m.items.DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}
