package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderFilter has AND semantics across fields, OR semantics within each field slice.
// An empty filter matches all orders.
type OrderFilter struct {
	IDs       []uuid.UUID
	OwnerIDs  []string
	Statuses  []OrderStatus
	CreatedAt *TimeRange
}

func (f OrderFilter) Validate() error {
	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(string(status)); err != nil {
			return fmt.Errorf("status[%s]: %w", status, err)
		}
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	return nil
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return errors.New("both Before and After are nil")
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("Before is before After")
		}
	}

	return nil
}
