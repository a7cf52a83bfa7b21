package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	cartdomain "github.com/Symbiotnev/PITIA-pitia/internal/cart/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/order/domain"
	"github.com/Symbiotnev/PITIA-pitia/internal/order/events"
	"github.com/Symbiotnev/PITIA-pitia/internal/order/repository"
	promodomain "github.com/Symbiotnev/PITIA-pitia/internal/promo/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingUser     = errors.New("user id is required")
	ErrEmptyCart       = errors.New("cart is empty, nothing to order")
	ErrInvalidCartLine = errors.New("invalid cart line")
)

// CartReader is the slice of the cart service the order workflow needs.
type CartReader interface {
	Get(ctx context.Context, sessionID string) (*cartdomain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// ProviderDirectory resolves a provider id to its business display name.
type ProviderDirectory interface {
	ProviderName(ctx context.Context, providerID string) (string, error)
}

type OrderService struct {
	repo      repository.OrderRepository
	cart      CartReader
	directory ProviderDirectory
	publisher events.Publisher // nil disables event publication
	fee       float64
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	cart CartReader,
	directory ProviderDirectory,
	publisher events.Publisher,
	deliveryFee float64,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:      repo,
		cart:      cart,
		directory: directory,
		publisher: publisher,
		fee:       deliveryFee,
		log:       log,
		now:       time.Now,
	}
}

// PlaceOrder snapshots the cart into an immutable order record. Validation
// happens before any remote write, so a rejected cart leaves no partial
// state. The cart is cleared only after the insert succeeds.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUser
	}

	cart, err := s.cart.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("read cart: %w", err)
	}
	if len(cart.Lines) == 0 {
		return "", ErrEmptyCart
	}
	if err := validateLines(cart.Lines); err != nil {
		return "", err
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         snapshotLines(cart.Lines),
		Total:         promodomain.Round2(cart.Total() + s.fee),
		Status:        domain.StatusPlaced,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		// The cart is untouched so the caller can retry.
		return "", fmt.Errorf("persist order: %w", err)
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		// The order exists; the next cart read starts fresh anyway.
		s.log.Warn("failed to clear cart after order placement",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	s.publishPlaced(order)

	return order.ID, nil
}

// ListOrders returns the user's orders decorated with provider display
// names, pending-first and newest-first within each status group. Orders
// with exactly equal timestamps keep their insertion order.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	names := s.resolveProviderNames(ctx, orders)
	for _, order := range orders {
		for i := range order.Items {
			order.Items[i].ProviderName = names[order.Items[i].ProviderID]
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.Status != b.Status {
			return a.Status == domain.StatusPlaced
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return orders, nil
}

// MarkDelivered transitions placed -> delivered. Calling it on an
// already-delivered order is a successful no-op.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.Status == domain.StatusDelivered {
		return order, nil
	}

	if err := s.repo.SetStatus(ctx, orderID, domain.StatusDelivered); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = domain.StatusDelivered
	return order, nil
}

// resolveProviderNames looks up each distinct provider id exactly once.
func (s *OrderService) resolveProviderNames(ctx context.Context, orders []*domain.Order) map[string]string {
	names := make(map[string]string)
	for _, order := range orders {
		for _, id := range order.ProviderIDs() {
			if _, done := names[id]; done {
				continue
			}
			name, err := s.directory.ProviderName(ctx, id)
			if err != nil {
				s.log.Warn("failed to resolve provider name",
					zap.String("provider_id", id),
					zap.Error(err))
				name = ""
			}
			names[id] = name
		}
	}
	return names
}

func (s *OrderService) publishPlaced(order *domain.Order) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.OrderPlaced(ctx, order); err != nil {
		s.log.Warn("failed to publish order event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func validateLines(lines []cartdomain.Line) error {
	for i, line := range lines {
		switch {
		case line.ItemID == "":
			return fmt.Errorf("%w: line %d has no item id", ErrInvalidCartLine, i)
		case line.Name == "":
			return fmt.Errorf("%w: line %d has no name", ErrInvalidCartLine, i)
		case line.FinalPrice <= 0:
			return fmt.Errorf("%w: line %d has non-positive price", ErrInvalidCartLine, i)
		case line.Quantity < 1:
			return fmt.Errorf("%w: line %d has non-positive quantity", ErrInvalidCartLine, i)
		}
	}
	return nil
}

func snapshotLines(lines []cartdomain.Line) []domain.Line {
	items := make([]domain.Line, len(lines))
	for i, line := range lines {
		items[i] = domain.Line{
			ItemID:     line.ItemID,
			Name:       line.Name,
			Price:      line.FinalPrice,
			Quantity:   line.Quantity,
			ProviderID: line.ProviderID,
		}
	}
	return items
}
