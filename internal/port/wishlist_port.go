package port

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

type WishlistRepository interface {
	// GetWishlist returns wishlist items joined with current catalog entries,
	// entries without a resolvable product are dropped.
	GetWishlist(ctx context.Context, ownerID string) ([]domain.WishlistLine, error)
	GetWishlistItem(ctx context.Context, itemID uuid.UUID) (domain.WishlistItem, error)

	AddItem(ctx context.Context, item domain.WishlistItem) (uuid.UUID, error)

	DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error)
}
