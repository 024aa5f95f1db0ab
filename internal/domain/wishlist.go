package domain

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is created and destroyed on toggle, never mutated.
type WishlistItem struct {
	ID        uuid.UUID
	OwnerID   string
	ProductID uuid.UUID

	CreatedAt time.Time
}

// WishlistLine is a wishlist item joined with its current catalog entry.
type WishlistLine struct {
	Item    WishlistItem
	Product Product
}
