package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
	"storefront-backend/internal/receipt"
)

// Confirmation is the checkout result. A non-empty Warnings slice means the
// order is placed but post-commit cleanup partially failed, the caller should
// re-fetch cart and stock state.
type Confirmation struct {
	Order    domain.Order
	Warnings []checkout.Warning
	Receipt  string
}

func (c Confirmation) PlacedWithWarnings() bool {
	return len(c.Warnings) > 0
}

// CheckoutService converts a non-empty cart plus a chosen address into a
// durable order, then adjusts stock and clears the cart best-effort.
type CheckoutService struct {
	cart      port.CartRepository
	addresses port.AddressRepository
	products  port.ProductRepository
	orders    port.OrderRepository
	runner    checkout.Runner
	receipts  receipt.Engine
	logger    *slog.Logger
}

func NewCheckout(
	cart port.CartRepository,
	addresses port.AddressRepository,
	products port.ProductRepository,
	orders port.OrderRepository,
	runner checkout.Runner,
	receipts receipt.Engine,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		addresses: addresses,
		products:  products,
		orders:    orders,
		runner:    runner,
		receipts:  receipts,
		logger:    logger,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, identity domain.Identity, addressID uuid.UUID) (Confirmation, error) {
	var c Confirmation

	if err := requireIdentity(identity); err != nil {
		return c, err
	}

	// Preconditions, checked before any mutation.
	cart, err := s.cart.GetCart(ctx, identity.Subject)
	if err != nil {
		return c, fmt.Errorf("cart.GetCart: %w", err)
	}

	if cart.IsEmpty() {
		return c, domain.ErrEmptyCart
	}

	if addressID == uuid.Nil {
		return c, domain.ErrNoShippingAddress
	}

	address, err := s.addresses.GetAddress(ctx, addressID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c, fmt.Errorf("address[%s]: %w", addressID, domain.ErrNoShippingAddress)
		}
		return c, fmt.Errorf("addresses.GetAddress: %w", err)
	}

	if address.OwnerID != identity.Subject {
		return c, fmt.Errorf("address[%s] belongs to another user: %w", addressID, domain.ErrNoShippingAddress)
	}

	// Snapshot the cart at current catalog prices.
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Item.Quantity,
			UnitPrice: line.Product.Price,
		})
	}

	total, err := domain.OrderTotal(items)
	if err != nil {
		return c, fmt.Errorf("domain.OrderTotal: %w", err)
	}

	// Durability point: once the order is persisted it stays placed even if
	// the post-commit steps fail.
	orderID, err := s.orders.InsertOrder(ctx, domain.Order{
		OwnerID:           identity.Subject,
		Items:             items,
		Total:             total,
		ShippingAddressID: addressID,
		Status:            domain.OrderStatusProcessing,
	})
	if err != nil {
		return c, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	steps := make([]checkout.Step, 0, len(cart.Lines)+1)
	itemIDs := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		steps = append(steps, checkout.NewDecrementStockStep(s.products, line.Product.ID, line.Item.Quantity))
		itemIDs = append(itemIDs, line.Item.ID)
	}
	steps = append(steps, checkout.NewClearCartStep(s.cart, identity.Subject, itemIDs))

	// Detach from the request context so a client disconnect cannot abandon
	// cleanup halfway.
	warnings := s.runner.Run(context.WithoutCancel(ctx), steps)

	// The order is placed, a failed re-read must not turn the checkout into
	// an error. Fall back to the snapshot just inserted.
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.WarnContext(ctx, "placed order could not be re-read", "order", orderID, "error", err)
		warnings = append(warnings, checkout.Warning{Step: "load_order", Err: err})
		order = domain.Order{
			ID:                orderID,
			OwnerID:           identity.Subject,
			Items:             items,
			Total:             total,
			ShippingAddressID: addressID,
			Status:            domain.OrderStatusProcessing,
		}
	}

	receiptText, err := s.receipts.Render(order)
	if err != nil {
		// The receipt is cosmetic, the order is already placed.
		s.logger.WarnContext(ctx, "receipt rendering failed", "order", orderID, "error", err)
	}

	if len(warnings) > 0 {
		s.logger.WarnContext(ctx, "order placed with warnings",
			"order", orderID, "owner", identity.Subject, "warnings", len(warnings))
	} else {
		s.logger.InfoContext(ctx, "order placed", "order", orderID, "owner", identity.Subject, "total", total.Amount)
	}

	return Confirmation{
		Order:    order,
		Warnings: warnings,
		Receipt:  receiptText,
	}, nil
}
