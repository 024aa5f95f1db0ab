package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

// OrderService is the order ledger: role-scoped listing and the privileged
// status workflow.
type OrderService struct {
	orders port.OrderRepository
	logger *slog.Logger
}

func NewOrders(orders port.OrderRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		logger: logger,
	}
}

// List returns all orders for an admin, own orders for a shopper. Newest first.
func (s *OrderService) List(ctx context.Context, identity domain.Identity) ([]domain.Order, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var filter domain.OrderFilter
	if !identity.IsAdmin() {
		filter.OwnerIDs = []string{identity.Subject}
	}

	orders, err := s.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, identity domain.Identity, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if err := requireIdentity(identity); err != nil {
		return o, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !identity.IsAdmin() && order.OwnerID != identity.Subject {
		return o, fmt.Errorf("order[%s]: %w", orderID, domain.ErrForbidden)
	}

	return order, nil
}

// UpdateStatus is admin only and enforces the lifecycle, illegal transitions
// fail with ErrInvalidTransition and leave the order untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, identity domain.Identity, orderID uuid.UUID, status domain.OrderStatus) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	if !identity.IsAdmin() {
		return fmt.Errorf("status update requires admin: %w", domain.ErrForbidden)
	}

	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	s.logger.InfoContext(ctx, "order status updated", "order", orderID, "status", status, "by", identity.Subject)
	return nil
}
