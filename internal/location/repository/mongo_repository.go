package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Symbiotnev/PITIA-pitia/internal/location/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	clients   *mongo.Collection
	providers *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) LocationRepository {
	return &mongoRepository{
		clients:   db.Collection("client-location"),
		providers: db.Collection("service-provider-location"),
	}
}

func (m *mongoRepository) collection(role domain.Role) *mongo.Collection {
	if role == domain.RoleProvider {
		return m.providers
	}
	return m.clients
}

// Upsert replaces the owner's record wholesale. Last write wins.
func (m *mongoRepository) Upsert(ctx context.Context, role domain.Role, record *domain.Record) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection(role).ReplaceOne(ctx, bson.M{"_id": record.OwnerID}, record, opts); err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}
	return nil
}

func (m *mongoRepository) Get(ctx context.Context, role domain.Role, ownerID string) (*domain.Record, error) {
	var record domain.Record
	err := m.collection(role).FindOne(ctx, bson.M{"_id": ownerID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &record, nil
}
