package port

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	// UpdateOrderStatus enforces the order lifecycle, an illegal transition
	// fails with domain.ErrInvalidTransition.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
}
