package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

type AddressService struct {
	addresses port.AddressRepository
	logger    *slog.Logger
}

func NewAddress(addresses port.AddressRepository, logger *slog.Logger) *AddressService {
	return &AddressService{
		addresses: addresses,
		logger:    logger,
	}
}

func (s *AddressService) List(ctx context.Context, identity domain.Identity) ([]domain.Address, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	addresses, err := s.addresses.ListAddresses(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("addresses.ListAddresses: %w", err)
	}

	return addresses, nil
}

// Add creates an address, addresses are immutable afterwards.
func (s *AddressService) Add(ctx context.Context, identity domain.Identity, street, city string) (uuid.UUID, error) {
	if err := requireIdentity(identity); err != nil {
		return uuid.Nil, err
	}

	address := domain.Address{
		OwnerID: identity.Subject,
		Street:  street,
		City:    city,
	}

	if err := address.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("address.Validate: %w", err)
	}

	addressID, err := s.addresses.InsertAddress(ctx, address)
	if err != nil {
		return uuid.Nil, fmt.Errorf("addresses.InsertAddress: %w", err)
	}

	s.logger.InfoContext(ctx, "address added", "owner", identity.Subject, "address", addressID)
	return addressID, nil
}
