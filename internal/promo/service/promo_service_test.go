package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/promo/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPromoRepo struct {
	m      sync.RWMutex
	promos []*domain.Promo
	adds   int
	err    error
}

func (m *mockPromoRepo) Add(_ context.Context, promo *domain.Promo) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.adds++
	m.promos = append(m.promos, promo)
	return "promo-1", nil
}

func (m *mockPromoRepo) ListByProvider(_ context.Context, providerID string) ([]*domain.Promo, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Promo
	for _, p := range m.promos {
		if p.ProviderID == providerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPromoRepo) ListByItem(_ context.Context, itemID string) ([]*domain.Promo, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Promo
	for _, p := range m.promos {
		if p.ItemID == itemID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPromoRepo) Remove(_ context.Context, promoID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	for i, p := range m.promos {
		if p.ID == promoID {
			m.promos = append(m.promos[:i], m.promos[i+1:]...)
			return nil
		}
	}
	return repository.ErrPromoNotFound
}

func TestAddPromo_MalformedValueRejectedBeforeWrite(t *testing.T) {
	repo := &mockPromoRepo{}
	sut := NewPromoService(repo, zap.NewNop())

	now := time.Now()
	_, err := sut.AddPromo(context.Background(), &domain.Promo{
		ItemID:    "item-1",
		Value:     "twenty percent",
		StartDate: now,
		EndDate:   now.Add(time.Hour),
	})

	assert.ErrorIs(t, err, domain.ErrMalformedPromoValue)
	assert.Equal(t, 0, repo.adds)
}

func TestAddPromo_InvalidWindow(t *testing.T) {
	repo := &mockPromoRepo{}
	sut := NewPromoService(repo, zap.NewNop())

	now := time.Now()
	_, err := sut.AddPromo(context.Background(), &domain.Promo{
		ItemID:    "item-1",
		Value:     "20%",
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})

	assert.ErrorIs(t, err, ErrInvalidPromoWindow)
}

func TestAddPromo_DefaultsToDiscountType(t *testing.T) {
	repo := &mockPromoRepo{}
	sut := NewPromoService(repo, zap.NewNop())

	now := time.Now()
	id, err := sut.AddPromo(context.Background(), &domain.Promo{
		ItemID:    "item-1",
		Value:     "20%",
		StartDate: now,
		EndDate:   now.Add(time.Hour),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, domain.TypeDiscount, repo.promos[0].Type)
}

func TestActiveForItem(t *testing.T) {
	now := time.Now()
	repo := &mockPromoRepo{
		promos: []*domain.Promo{
			{
				ID:        "expired",
				ItemID:    "item-1",
				Type:      domain.TypeDiscount,
				Value:     "50%",
				StartDate: now.Add(-48 * time.Hour),
				EndDate:   now.Add(-24 * time.Hour),
			},
			{
				ID:        "live",
				ItemID:    "item-1",
				Type:      domain.TypeDiscount,
				Value:     "20%",
				StartDate: now.Add(-time.Hour),
				EndDate:   now.Add(time.Hour),
			},
		},
	}
	sut := NewPromoService(repo, zap.NewNop())

	promo, err := sut.ActiveForItem(context.Background(), "item-1", now)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "live", promo.ID)

	promo, err = sut.ActiveForItem(context.Background(), "item-2", now)
	require.NoError(t, err)
	assert.Nil(t, promo)
}
