package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/account/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	clients   *mongo.Collection
	providers *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) AccountRepository {
	return &mongoRepository{
		clients:   db.Collection("clients"),
		providers: db.Collection("serviceProviders"),
	}
}

// UpsertClient replaces the whole profile document. Last write wins.
func (m *mongoRepository) UpsertClient(ctx context.Context, client *domain.Client) error {
	now := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := m.clients.ReplaceOne(ctx, bson.M{"_id": client.ID}, client, opts); err != nil {
		return fmt.Errorf("failed to upsert client: %w", err)
	}
	return nil
}

func (m *mongoRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	err := m.clients.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (m *mongoRepository) UpsertProvider(ctx context.Context, provider *domain.ServiceProvider) error {
	now := time.Now()
	if provider.CreatedAt.IsZero() {
		provider.CreatedAt = now
	}
	provider.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := m.providers.ReplaceOne(ctx, bson.M{"_id": provider.ID}, provider, opts); err != nil {
		return fmt.Errorf("failed to upsert provider: %w", err)
	}
	return nil
}

func (m *mongoRepository) GetProvider(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	var provider domain.ServiceProvider
	err := m.providers.FindOne(ctx, bson.M{"_id": id}).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (m *mongoRepository) ListProviders(ctx context.Context) ([]*domain.ServiceProvider, error) {
	cursor, err := m.providers.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []*domain.ServiceProvider
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}
