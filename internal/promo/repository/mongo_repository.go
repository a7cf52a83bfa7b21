package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) PromoRepository {
	return &mongoRepository{
		collection: db.Collection("promos"),
	}
}

func (m *mongoRepository) Add(ctx context.Context, promo *domain.Promo) (string, error) {
	if promo.ID == "" {
		promo.ID = uuid.NewString()
	}
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = time.Now()
	}

	if _, err := m.collection.InsertOne(ctx, promo); err != nil {
		return "", fmt.Errorf("failed to insert promo: %w", err)
	}
	return promo.ID, nil
}

func (m *mongoRepository) ListByProvider(ctx context.Context, providerID string) ([]*domain.Promo, error) {
	return m.list(ctx, bson.M{"user_id": providerID})
}

func (m *mongoRepository) ListByItem(ctx context.Context, itemID string) ([]*domain.Promo, error) {
	return m.list(ctx, bson.M{"item_id": itemID})
}

func (m *mongoRepository) list(ctx context.Context, filter bson.M) ([]*domain.Promo, error) {
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query promos: %w", err)
	}
	defer cursor.Close(ctx)

	var promos []*domain.Promo
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("failed to decode promos: %w", err)
	}
	return promos, nil
}

func (m *mongoRepository) Remove(ctx context.Context, promoID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": promoID})
	if err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrPromoNotFound
	}
	return nil
}
