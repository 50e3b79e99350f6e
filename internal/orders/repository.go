package orders

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/solestride/orders-service/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its items in one transaction. The store
// assigns the id and creation timestamp; both are written back into order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total, status, street, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, order.UserID, order.Total, order.Status,
		order.ShippingAddress.Street, order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.ZipCode, order.ShippingAddress.Country,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price, quantity, size, color, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, order.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.Size, item.Color, item.ImageURL)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID returns nil without error when no order has the given id.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total, status, street, city, state, zip_code, country, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.Total, &order.Status,
		&order.ShippingAddress.Street, &order.ShippingAddress.City, &order.ShippingAddress.State,
		&order.ShippingAddress.ZipCode, &order.ShippingAddress.Country, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, price, quantity, size, color, image_url
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity,
			&item.Size, &item.Color, &item.ImageURL); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT id, user_id, total, status, street, city, state, zip_code, country, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT id, user_id, total, status, street, city, state, zip_code, country, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT id, user_id, total, status, street, city, state, zip_code, country, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
}

func (r *OrderRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT id, user_id, total, status, street, city, state, zip_code, country, created_at
		FROM orders
		WHERE created_at >= $1
		ORDER BY created_at DESC, id DESC
	`, since)
}

// UpdateStatus overwrites the status unconditionally. Returns nil without
// error when no order has the given id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE status = $1
	`, status).Scan(&count)
	return count, err
}

// TotalRevenue sums totals over non-cancelled orders. An empty store sums
// to NULL, which is reported as zero.
func (r *OrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(total) FROM orders WHERE status <> 'CANCELLED'
	`).Scan(&sum)
	if err != nil {
		return 0, err
	}
	return sum.Float64, nil
}

// ItemsSold sums item quantities over non-cancelled orders, zero when none.
func (r *OrderRepository) ItemsSold(ctx context.Context) (int64, error) {
	var sum sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status <> 'CANCELLED'
	`).Scan(&sum)
	if err != nil {
		return 0, err
	}
	return sum.Int64, nil
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int64]*domain.Order)
	var orderIDs []int64

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.Status,
			&order.ShippingAddress.Street, &order.ShippingAddress.City, &order.ShippingAddress.State,
			&order.ShippingAddress.ZipCode, &order.ShippingAddress.Country, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, price, quantity, size, color, image_url
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID int64
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price,
			&item.Quantity, &item.Size, &item.Color, &item.ImageURL); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}
