package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

type CartService struct {
	cart     port.CartRepository
	products port.ProductRepository
	logger   *slog.Logger
}

func NewCart(cart port.CartRepository, products port.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		cart:     cart,
		products: products,
		logger:   logger,
	}
}

// List returns the cart joined with current catalog entries, stale lines are
// already dropped by the repository.
func (s *CartService) List(ctx context.Context, identity domain.Identity) (domain.Cart, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.cart.GetCart(ctx, identity.Subject)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("cart.GetCart: %w", err)
	}

	return cart, nil
}

// AddItem creates a quantity-1 entry. A second add of the same product fails
// with ErrDuplicateItem, an out-of-stock product with ErrInsufficientStock.
func (s *CartService) AddItem(ctx context.Context, identity domain.Identity, productID uuid.UUID) (uuid.UUID, error) {
	if err := requireIdentity(identity); err != nil {
		return uuid.Nil, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("products.GetProduct: %w", err)
	}

	if !product.InStock() {
		return uuid.Nil, fmt.Errorf("product[%s]: %w", productID, domain.ErrInsufficientStock)
	}

	itemID, err := s.cart.AddItem(ctx, domain.CartItem{
		OwnerID:   identity.Subject,
		ProductID: productID,
		Quantity:  1,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("cart.AddItem: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item added", "owner", identity.Subject, "product", productID)
	return itemID, nil
}

func (s *CartService) SetQuantity(ctx context.Context, identity domain.Identity, itemID uuid.UUID, qty int32) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	item, err := s.cart.GetCartItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("cart.GetCartItem: %w", err)
	}

	if item.OwnerID != identity.Subject {
		return fmt.Errorf("cart item[%s]: %w", itemID, domain.ErrForbidden)
	}

	if err := s.cart.SetQuantity(ctx, itemID, qty); err != nil {
		return fmt.Errorf("cart.SetQuantity: %w", err)
	}

	return nil
}

// Remove is idempotent, an absent item id is not an error.
func (s *CartService) Remove(ctx context.Context, identity domain.Identity, itemID uuid.UUID) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	item, err := s.cart.GetCartItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("cart.GetCartItem: %w", err)
	}

	if item.OwnerID != identity.Subject {
		return fmt.Errorf("cart item[%s]: %w", itemID, domain.ErrForbidden)
	}

	if _, err := s.cart.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("cart.DeleteItem: %w", err)
	}

	return nil
}
