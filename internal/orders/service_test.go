package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/solestride/orders-service/internal/domain"
)

// fakeStore is an in-memory Store for service tests. IDs are assigned
// sequentially so creation order doubles as id order.
type fakeStore struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (s *fakeStore) Create(_ context.Context, order *domain.Order) error {
	order.ID = s.nextID
	order.CreatedAt = time.Now().UTC()
	s.nextID++
	stored := *order
	s.orders[stored.ID] = &stored
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	result := []domain.Order{}
	for id := s.nextID - 1; id >= 1; id-- {
		if order, ok := s.orders[id]; ok && order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]domain.Order, error) {
	result := []domain.Order{}
	for id := s.nextID - 1; id >= 1; id-- {
		if order, ok := s.orders[id]; ok {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	order.Status = status
	copied := *order
	return &copied, nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	caller := uuid.New()

	t.Run("computes total and assigns pending status", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store)

		items := []domain.OrderItem{
			{ProductID: 1, Name: "Runner", Price: 50, Quantity: 2},
			{ProductID: 2, Name: "Trail", Price: 30, Quantity: 1},
		}

		order, err := svc.Create(ctx, caller, items, domain.Address{City: "Lisbon"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.Total != 130.0 {
			t.Errorf("expected total 130.0, got %v", order.Total)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status %s, got %s", domain.OrderStatusPending, order.Status)
		}
		if order.UserID != caller {
			t.Errorf("expected owner %s, got %s", caller, order.UserID)
		}
		if order.ID == 0 {
			t.Error("expected store-assigned id")
		}
		if len(store.orders) != 1 {
			t.Fatalf("expected 1 persisted order, got %d", len(store.orders))
		}
	})

	t.Run("rejects empty item list without persisting", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store)

		_, err := svc.Create(ctx, caller, nil, domain.Address{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
		if len(store.orders) != 0 {
			t.Fatalf("expected no persisted orders, got %d", len(store.orders))
		}
	})

	t.Run("accumulates total in item order", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store)

		items := []domain.OrderItem{
			{Price: 0.1, Quantity: 1},
			{Price: 0.2, Quantity: 1},
			{Price: 0.3, Quantity: 1},
		}

		order, err := svc.Create(ctx, caller, items, domain.Address{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Accumulated in the same order the service sums, so rounding
		// matches step for step.
		var want float64
		for _, item := range items {
			want += item.Price * float64(item.Quantity)
		}
		if order.Total != want {
			t.Errorf("expected total %v, got %v", want, order.Total)
		}
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	store := newFakeStore()
	svc := NewService(store)

	created, err := svc.Create(ctx, owner, []domain.OrderItem{{Price: 10, Quantity: 1}}, domain.Address{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("owner can read", func(t *testing.T) {
		order, err := svc.Get(ctx, owner, false, created.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != created.ID {
			t.Errorf("expected order %d, got %d", created.ID, order.ID)
		}
	})

	t.Run("admin can read another user's order", func(t *testing.T) {
		if _, err := svc.Get(ctx, stranger, true, created.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-owner non-admin is forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, stranger, false, created.ID)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing order is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, owner, true, 9999)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestService_ListForUser(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	store := newFakeStore()
	svc := NewService(store)

	t.Run("no orders yields empty slice", func(t *testing.T) {
		orders, err := svc.ListForUser(ctx, owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if orders == nil || len(orders) != 0 {
			t.Fatalf("expected empty slice, got %v", orders)
		}
	})

	t.Run("returns only the caller's orders newest first", func(t *testing.T) {
		other := uuid.New()
		for _, user := range []uuid.UUID{owner, other, owner} {
			if _, err := svc.Create(ctx, user, []domain.OrderItem{{Price: 1, Quantity: 1}}, domain.Address{}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		orders, err := svc.ListForUser(ctx, owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(orders))
		}
		if orders[0].ID < orders[1].ID {
			t.Error("expected newest order first")
		}
	})
}

func TestService_ListAll(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	svc := NewService(store)

	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, user := range users {
		if _, err := svc.Create(ctx, user, []domain.OrderItem{{Price: 1, Quantity: 1}}, domain.Address{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	orders, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != len(users) {
		t.Fatalf("expected %d orders, got %d", len(users), len(orders))
	}
	for i, order := range orders {
		// Newest first across all users.
		wantUser := users[len(users)-1-i]
		if order.UserID != wantUser {
			t.Errorf("position %d: expected owner %s, got %s", i, wantUser, order.UserID)
		}
		if i > 0 && orders[i-1].ID < order.ID {
			t.Errorf("position %d: expected descending ids, got %d before %d", i, orders[i-1].ID, order.ID)
		}
	}
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	svc := NewService(store)

	created, err := svc.Create(ctx, uuid.New(), []domain.OrderItem{{Price: 10, Quantity: 1}}, domain.Address{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("overwrites status", func(t *testing.T) {
		order, err := svc.UpdateStatus(ctx, created.ID, domain.OrderStatusShipped)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != domain.OrderStatusShipped {
			t.Errorf("expected status %s, got %s", domain.OrderStatusShipped, order.Status)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			order, err := svc.UpdateStatus(ctx, created.ID, domain.OrderStatusDelivered)
			if err != nil {
				t.Fatalf("attempt %d: unexpected error: %v", i+1, err)
			}
			if order.Status != domain.OrderStatusDelivered {
				t.Errorf("attempt %d: expected status %s, got %s", i+1, domain.OrderStatusDelivered, order.Status)
			}
		}
	})

	t.Run("allows any transition", func(t *testing.T) {
		order, err := svc.UpdateStatus(ctx, created.ID, domain.OrderStatusPending)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status %s, got %s", domain.OrderStatusPending, order.Status)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, created.ID, "TELEPORTED")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("missing order is not found", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, 9999, domain.OrderStatusShipped)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
