package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderCreatedEvent struct {
	OrderID   int64       `json:"order_id"`
	UserID    uuid.UUID   `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	OrderID   int64       `json:"order_id"`
	UserID    uuid.UUID   `json:"user_id"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}
