package port

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

type AddressRepository interface {
	ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error)
	GetAddress(ctx context.Context, addressID uuid.UUID) (domain.Address, error)

	InsertAddress(ctx context.Context, address domain.Address) (uuid.UUID, error)
}
