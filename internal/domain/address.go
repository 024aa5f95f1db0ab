package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Address is immutable once created, there is no update path.
type Address struct {
	ID      uuid.UUID
	OwnerID string
	Street  string
	City    string

	CreatedAt time.Time
}

func (a Address) Validate() error {
	if a.Street == "" {
		return errors.New("street is empty")
	}
	if a.City == "" {
		return errors.New("city is empty")
	}
	return nil
}
