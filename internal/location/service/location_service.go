package service

import (
	"context"
	"errors"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/location/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/location/repository"
)

var ErrInvalidRole = errors.New("role must be client or serviceProvider")

type LocationService struct {
	repo repository.LocationRepository
	now  func() time.Time
}

func NewLocationService(repo repository.LocationRepository) *LocationService {
	return &LocationService{repo: repo, now: time.Now}
}

// Share stores the owner's current position, overwriting any previous record.
func (s *LocationService) Share(ctx context.Context, role domain.Role, ownerID string, lat, lng, accuracy float64) (*domain.Record, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := domain.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	record := &domain.Record{
		OwnerID:    ownerID,
		Latitude:   lat,
		Longitude:  lng,
		Accuracy:   accuracy,
		CapturedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, role, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *LocationService) Get(ctx context.Context, role domain.Role, ownerID string) (*domain.Record, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.repo.Get(ctx, role, ownerID)
}
