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

type WishlistService struct {
	wishlist port.WishlistRepository
	products port.ProductRepository
	logger   *slog.Logger
}

func NewWishlist(wishlist port.WishlistRepository, products port.ProductRepository, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		wishlist: wishlist,
		products: products,
		logger:   logger,
	}
}

func (s *WishlistService) List(ctx context.Context, identity domain.Identity) ([]domain.WishlistLine, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	lines, err := s.wishlist.GetWishlist(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("wishlist.GetWishlist: %w", err)
	}

	return lines, nil
}

// AddItem fails with ErrDuplicateItem when the (owner, product) pair already
// exists, the collection is unchanged in that case.
func (s *WishlistService) AddItem(ctx context.Context, identity domain.Identity, productID uuid.UUID) (uuid.UUID, error) {
	if err := requireIdentity(identity); err != nil {
		return uuid.Nil, err
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return uuid.Nil, fmt.Errorf("products.GetProduct: %w", err)
	}

	itemID, err := s.wishlist.AddItem(ctx, domain.WishlistItem{
		OwnerID:   identity.Subject,
		ProductID: productID,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("wishlist.AddItem: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist item added", "owner", identity.Subject, "product", productID)
	return itemID, nil
}

// Remove is the toggle-off half, idempotent on absent ids.
func (s *WishlistService) Remove(ctx context.Context, identity domain.Identity, itemID uuid.UUID) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	item, err := s.wishlist.GetWishlistItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("wishlist.GetWishlistItem: %w", err)
	}

	if item.OwnerID != identity.Subject {
		return fmt.Errorf("wishlist item[%s]: %w", itemID, domain.ErrForbidden)
	}

	if _, err := s.wishlist.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("wishlist.DeleteItem: %w", err)
	}

	return nil
}
