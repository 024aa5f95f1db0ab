package domain

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ID        uuid.UUID
	OwnerID   string
	ProductID uuid.UUID
	Quantity  int32

	CreatedAt time.Time
}

// CartLine is a cart item joined with its current catalog entry.
type CartLine struct {
	Item    CartItem
	Product Product
}

type Cart struct {
	OwnerID string
	Lines   []CartLine
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal prices the cart at current catalog prices.
func (c Cart) Subtotal() (Money, error) {
	items := make([]OrderItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Item.Quantity,
			UnitPrice: line.Product.Price,
		})
	}
	return OrderTotal(items)
}
