package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/promo/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidPromoWindow = errors.New("promo end date precedes start date")
	ErrMissingPromoItem   = errors.New("promo item id is required")
)

type PromoService struct {
	repo repository.PromoRepository
	log  *zap.Logger
}

func NewPromoService(repo repository.PromoRepository, log *zap.Logger) *PromoService {
	return &PromoService{repo: repo, log: log}
}

// AddPromo validates the promo before any write so malformed percentage
// values never reach the collection.
func (s *PromoService) AddPromo(ctx context.Context, promo *domain.Promo) (string, error) {
	if promo.ItemID == "" {
		return "", ErrMissingPromoItem
	}
	if _, err := domain.ParsePercentage(promo.Value); err != nil {
		return "", err
	}
	if promo.EndDate.Before(promo.StartDate) {
		return "", ErrInvalidPromoWindow
	}
	if promo.Type == "" {
		promo.Type = domain.TypeDiscount
	}

	id, err := s.repo.Add(ctx, promo)
	if err != nil {
		return "", fmt.Errorf("add promo: %w", err)
	}
	return id, nil
}

func (s *PromoService) ListPromos(ctx context.Context, providerID string) ([]*domain.Promo, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *PromoService) RemovePromo(ctx context.Context, promoID string) error {
	return s.repo.Remove(ctx, promoID)
}

// ActiveForItem returns the first currently-active discount promo for the
// item, or nil when none applies.
func (s *PromoService) ActiveForItem(ctx context.Context, itemID string, now time.Time) (*domain.Promo, error) {
	promos, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list promos for item: %w", err)
	}
	for _, p := range promos {
		if p.Active(now) {
			return p, nil
		}
	}
	return nil, nil
}
