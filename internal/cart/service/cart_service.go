package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Symbiotnev/PITIA-pitia/internal/cart/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/cart/store"
	promodomain "github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"go.uber.org/zap"
)

// saveAttempts bounds the load-mutate-save retry loop when another writer
// races a mutation.
const saveAttempts = 3

// AddInput carries the menu item snapshot being added to the cart. Promo is
// the active promo captured at add time, if any.
type AddInput struct {
	ItemID     string
	ProviderID string
	Name       string
	ImageURL   string
	Price      float64
	Promo      *promodomain.Snapshot
}

type CartService struct {
	store store.CartStore
	log   *zap.Logger
	now   func() time.Time
}

func NewCartService(s store.CartStore, log *zap.Logger) *CartService {
	return &CartService{
		store: s,
		log:   log,
		now:   time.Now,
	}
}

// Get returns the cart after a promo re-evaluation pass over every line.
// The refreshed cart is persisted only when the pass changed a line, so
// stale promos don't linger past expiry but unchanged reads cost no write.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.refreshLines(cart) {
		if err := s.store.Save(ctx, cart); err != nil {
			if errors.Is(err, store.ErrCartConflict) {
				// Another writer got there first; the refreshed view
				// is still correct for this reader.
				s.log.Debug("skipping cart rewrite after conflict", zap.String("session_id", sessionID))
				return cart, nil
			}
			return nil, fmt.Errorf("persist refreshed cart: %w", err)
		}
	}
	return cart, nil
}

// AddItem merges into an existing (itemID, providerID) line by incrementing
// its quantity by one, refreshing price and promo, or appends a new line
// with quantity 1.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddInput) (*domain.Cart, error) {
	final, applied, err := promodomain.Evaluate(input.Price, input.Promo, s.now())
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		if i := cart.Find(input.ItemID, input.ProviderID); i >= 0 {
			cart.Lines[i].Quantity++
			cart.Lines[i].OriginalPrice = input.Price
			cart.Lines[i].FinalPrice = final
			cart.Lines[i].PromoApplied = applied
			return
		}
		cart.Lines = append(cart.Lines, domain.Line{
			ItemID:        input.ItemID,
			ProviderID:    input.ProviderID,
			Name:          input.Name,
			ImageURL:      input.ImageURL,
			Quantity:      1,
			OriginalPrice: input.Price,
			FinalPrice:    final,
			PromoApplied:  applied,
		})
	})
}

// UpdateQuantity sets the line's quantity exactly. A quantity below one
// removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID, providerID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, sessionID, itemID, providerID)
	}
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		if i := cart.Find(itemID, providerID); i >= 0 {
			cart.Lines[i].Quantity = quantity
		}
	})
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID, providerID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *domain.Cart) {
		if i := cart.Find(itemID, providerID); i >= 0 {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		}
	})
}

// Clear drops the whole cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartService) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, store.ErrCartNotFound) {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// mutate runs a load-mutate-save cycle, retrying a bounded number of times
// when the optimistic version check fails.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		cart, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		s.refreshLines(cart)
		fn(cart)

		if err := s.store.Save(ctx, cart); err != nil {
			if errors.Is(err, store.ErrCartConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("save cart: %w", err)
		}
		return cart, nil
	}
	return nil, lastErr
}

// refreshLines re-runs promo evaluation over every line and reports whether
// anything changed. A snapshot whose value no longer parses is dropped
// rather than poisoning the whole cart.
func (s *CartService) refreshLines(cart *domain.Cart) bool {
	now := s.now()
	changed := false
	for i := range cart.Lines {
		line := &cart.Lines[i]

		final, applied, err := promodomain.Evaluate(line.OriginalPrice, line.PromoApplied, now)
		if err != nil {
			s.log.Warn("dropping malformed promo from cart line",
				zap.String("session_id", cart.SessionID),
				zap.String("item_id", line.ItemID),
				zap.Error(err))
			final, applied = line.OriginalPrice, nil
		}

		if line.FinalPrice != final || !sameSnapshot(line.PromoApplied, applied) {
			line.FinalPrice = final
			line.PromoApplied = applied
			changed = true
		}
	}
	return changed
}

func sameSnapshot(a, b *promodomain.Snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
