package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront-backend/internal/port"
)

// Step is a single unit of post-commit checkout work.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// --- DecrementStockStep ---

type DecrementStockStep struct {
	products  port.ProductRepository
	productID uuid.UUID
	qty       int32
}

func NewDecrementStockStep(products port.ProductRepository, productID uuid.UUID, qty int32) *DecrementStockStep {
	return &DecrementStockStep{
		products:  products,
		productID: productID,
		qty:       qty,
	}
}

func (s *DecrementStockStep) Name() string {
	return fmt.Sprintf("decrement_stock[%s]", s.productID)
}

func (s *DecrementStockStep) Execute(ctx context.Context) error {
	if err := s.products.DecrementStock(ctx, s.productID, s.qty); err != nil {
		return fmt.Errorf("products.DecrementStock: %w", err)
	}
	return nil
}

// --- ClearCartStep ---

type ClearCartStep struct {
	cart    port.CartRepository
	ownerID string
	itemIDs []uuid.UUID
}

func NewClearCartStep(cart port.CartRepository, ownerID string, itemIDs []uuid.UUID) *ClearCartStep {
	return &ClearCartStep{
		cart:    cart,
		ownerID: ownerID,
		itemIDs: itemIDs,
	}
}

func (s *ClearCartStep) Name() string { return "clear_cart" }

func (s *ClearCartStep) Execute(ctx context.Context) error {
	if err := s.cart.DeleteItems(ctx, s.ownerID, s.itemIDs); err != nil {
		return fmt.Errorf("cart.DeleteItems: %w", err)
	}
	return nil
}
