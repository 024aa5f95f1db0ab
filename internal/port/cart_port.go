package port

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

type CartRepository interface {
	// GetCart returns cart items joined with current catalog entries.
	// Items whose product no longer exists are dropped from the result.
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	GetCartItem(ctx context.Context, itemID uuid.UUID) (domain.CartItem, error)

	AddItem(ctx context.Context, item domain.CartItem) (uuid.UUID, error)
	SetQuantity(ctx context.Context, itemID uuid.UUID, qty int32) error

	DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error)
	DeleteItems(ctx context.Context, ownerID string, itemIDs []uuid.UUID) error
}
