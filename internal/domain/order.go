package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID                uuid.UUID
	OwnerID           string
	Items             []OrderItem
	Total             Money
	ShippingAddressID uuid.UUID
	Status            OrderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int32
	// UnitPrice is the catalog price captured at order time, later catalog
	// changes do not affect it.
	UnitPrice Money
}

func (i OrderItem) LineTotal() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

// OrderTotal sums the line totals. All lines must share one currency.
func OrderTotal(items []OrderItem) (Money, error) {
	if len(items) == 0 {
		return Money{}, errors.New("no items")
	}

	total := items[0].LineTotal()
	for _, item := range items[1:] {
		sum, err := total.Add(item.LineTotal())
		if err != nil {
			return Money{}, fmt.Errorf("total.Add: %w", err)
		}
		total = sum
	}

	return total, nil
}
