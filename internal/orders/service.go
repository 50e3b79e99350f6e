package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/solestride/orders-service/internal/domain"
)

// Store is the slice of the order store the lifecycle service needs.
// *OrderRepository satisfies it.
type Store interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

// Service owns the order lifecycle: creation, access-controlled reads and
// status overwrites. Caller identity is always an explicit argument; the
// service never reaches into request-scoped globals.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the request, computes the total and persists the order
// with status PENDING. The total is accumulated in item order; item prices
// and quantities are trusted as a snapshot taken by the caller.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, items []domain.OrderItem, shippingAddress domain.Address) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrInvalidRequest)
	}

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	order := &domain.Order{
		UserID:          callerID,
		Items:           items,
		Total:           total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Get returns the order when the caller owns it or holds the admin role.
func (s *Service) Get(ctx context.Context, callerID uuid.UUID, isAdmin bool, orderID int64) (*domain.Order, error) {
	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}

	if order.UserID != callerID && !isAdmin {
		return nil, fmt.Errorf("%w: order %d belongs to another user", domain.ErrForbidden, orderID)
	}

	return order, nil
}

// ListForUser returns the caller's orders newest first, an empty slice
// when there are none.
func (s *Service) ListForUser(ctx context.Context, callerID uuid.UUID) ([]domain.Order, error) {
	return s.store.ListByUser(ctx, callerID)
}

// ListAll returns every order newest first. Admin-only; the boundary layer
// enforces the role.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListAll(ctx)
}

// UpdateStatus overwrites the order's status. Any status may replace any
// other; no transition table is enforced.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, status)
	}

	order, err := s.store.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}

	return order, nil
}
