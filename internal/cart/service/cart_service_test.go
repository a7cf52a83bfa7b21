package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/cart/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/cart/store"
	promodomain "github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	m        sync.RWMutex
	cart     *domain.Cart
	saves    int
	deletes  int
	saveErr  error
	conflict bool
}

func (m *mockStore) Load(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.cart == nil {
		return nil, store.ErrCartNotFound
	}
	clone := *m.cart
	clone.Lines = append([]domain.Line(nil), m.cart.Lines...)
	return &clone, nil
}

func (m *mockStore) Save(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.conflict {
		return store.ErrCartConflict
	}
	cart.Version++
	clone := *cart
	clone.Lines = append([]domain.Line(nil), cart.Lines...)
	m.cart = &clone
	m.saves++
	return nil
}

func (m *mockStore) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	m.deletes++
	return nil
}

func (m *mockStore) savedCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func newTestService(s store.CartStore) *CartService {
	return NewCartService(s, zap.NewNop())
}

func activeSnapshot(value string, now time.Time) *promodomain.Snapshot {
	return &promodomain.Snapshot{
		PromoID:   "promo-1",
		Value:     value,
		ValidFrom: now.Add(-time.Hour),
		ValidTo:   now.Add(time.Hour),
	}
}

func TestAddItem_TwiceMergesIntoOneLine(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)
	ctx := context.Background()

	input := AddInput{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Price: 100}

	_, err := sut.AddItem(ctx, "session-1", input)
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "session-1", input)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 100.0, cart.Lines[0].FinalPrice)
}

func TestAddItem_SameItemDifferentProviderIsSeparateLine(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "session-1", AddInput{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Price: 100})
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "session-1", AddInput{ItemID: "item-1", ProviderID: "provider-2", Name: "Burger", Price: 90})
	require.NoError(t, err)

	assert.Len(t, cart.Lines, 2)
}

func TestAddItem_AppliesActivePromo(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)

	now := time.Now()
	cart, err := sut.AddItem(context.Background(), "session-1", AddInput{
		ItemID:     "item-1",
		ProviderID: "provider-1",
		Name:       "Burger",
		Price:      100,
		Promo:      activeSnapshot("20%", now),
	})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 80.0, cart.Lines[0].FinalPrice)
	assert.Equal(t, 100.0, cart.Lines[0].OriginalPrice)
	require.NotNil(t, cart.Lines[0].PromoApplied)
}

func TestAddItem_MalformedPromoRejected(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)

	now := time.Now()
	_, err := sut.AddItem(context.Background(), "session-1", AddInput{
		ItemID:     "item-1",
		ProviderID: "provider-1",
		Name:       "Burger",
		Price:      100,
		Promo:      activeSnapshot("lots", now),
	})

	assert.ErrorIs(t, err, promodomain.ErrMalformedPromoValue)
	assert.Equal(t, 0, ms.saves)
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "session-1", AddInput{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Price: 100})
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "session-1", "item-1", "provider-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "session-1", AddInput{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Price: 100})
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "session-1", AddInput{ItemID: "item-2", ProviderID: "provider-1", Name: "Fries", Price: 50})
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "session-1", "item-1", "provider-1", 0)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "item-2", cart.Lines[0].ItemID)
}

func TestRemoveItem(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "session-1", AddInput{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Price: 100})
	require.NoError(t, err)

	cart, err := sut.RemoveItem(ctx, "session-1", "item-1", "provider-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestGet_EmptyCartForUnknownSession(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)

	cart, err := sut.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, ms.saves)
}

func TestGet_ExpiredPromoRevertedAndPersisted(t *testing.T) {
	now := time.Now()
	ms := &mockStore{
		cart: &domain.Cart{
			SessionID: "session-1",
			Version:   1,
			Lines: []domain.Line{
				{
					ItemID:        "item-1",
					ProviderID:    "provider-1",
					Name:          "Burger",
					Quantity:      2,
					OriginalPrice: 100,
					FinalPrice:    80,
					PromoApplied: &promodomain.Snapshot{
						PromoID:   "promo-1",
						Value:     "20%",
						ValidFrom: now.Add(-48 * time.Hour),
						ValidTo:   now.Add(-24 * time.Hour),
					},
				},
			},
		},
	}
	sut := newTestService(ms)

	cart, err := sut.Get(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, 100.0, cart.Lines[0].FinalPrice)
	assert.Nil(t, cart.Lines[0].PromoApplied)
	assert.Equal(t, 200.0, cart.Total())

	// The rewrite reached the store.
	assert.Equal(t, 1, ms.saves)
	assert.Nil(t, ms.savedCart().Lines[0].PromoApplied)
}

func TestGet_UnchangedCartIsNotRewritten(t *testing.T) {
	ms := &mockStore{
		cart: &domain.Cart{
			SessionID: "session-1",
			Version:   1,
			Lines: []domain.Line{
				{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Quantity: 1, OriginalPrice: 100, FinalPrice: 100},
			},
		},
	}
	sut := newTestService(ms)

	_, err := sut.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, 0, ms.saves)
}

func TestGet_RefreshConflictStillReturnsCart(t *testing.T) {
	now := time.Now()
	ms := &mockStore{
		conflict: true,
		cart: &domain.Cart{
			SessionID: "session-1",
			Version:   1,
			Lines: []domain.Line{
				{
					ItemID:        "item-1",
					ProviderID:    "provider-1",
					Name:          "Burger",
					Quantity:      1,
					OriginalPrice: 100,
					FinalPrice:    80,
					PromoApplied: &promodomain.Snapshot{
						PromoID:   "promo-1",
						Value:     "20%",
						ValidFrom: now.Add(-2 * time.Hour),
						ValidTo:   now.Add(-time.Hour),
					},
				},
			},
		},
	}
	sut := newTestService(ms)

	cart, err := sut.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, cart.Lines[0].FinalPrice)
}

func TestTotal_PromoScenario(t *testing.T) {
	ms := &mockStore{}
	sut := newTestService(ms)
	now := time.Now()

	_, err := sut.AddItem(context.Background(), "session-1", AddInput{
		ItemID:     "item-a",
		ProviderID: "provider-1",
		Name:       "Item A",
		Price:      100,
		Promo:      activeSnapshot("20%", now),
	})
	require.NoError(t, err)
	cart, err := sut.AddItem(context.Background(), "session-1", AddInput{
		ItemID:     "item-a",
		ProviderID: "provider-1",
		Name:       "Item A",
		Price:      100,
		Promo:      activeSnapshot("20%", now),
	})
	require.NoError(t, err)

	assert.Equal(t, 160.0, cart.Total())
}

func TestClear(t *testing.T) {
	ms := &mockStore{cart: &domain.Cart{SessionID: "session-1", Version: 1}}
	sut := newTestService(ms)

	require.NoError(t, sut.Clear(context.Background(), "session-1"))
	assert.Equal(t, 1, ms.deletes)

	cart, err := sut.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestMutate_ExhaustedRetriesSurfaceConflict(t *testing.T) {
	ms := &mockStore{conflict: true}
	sut := newTestService(ms)

	_, err := sut.AddItem(context.Background(), "session-1", AddInput{ItemID: "item-1", ProviderID: "provider-1", Name: "Burger", Price: 100})
	assert.ErrorIs(t, err, store.ErrCartConflict)
}
