package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

type addressRepository struct {
	db DB
}

func NewAddress(pool *pgxpool.Pool) port.AddressRepository {
	return &addressRepository{db: pool}
}

func NewAddressWithTx(tx pgx.Tx) port.AddressRepository {
	return &addressRepository{db: tx}
}

func (r *addressRepository) ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, owner_id, street, city, created_at FROM addresses WHERE owner_id = $1 ORDER BY created_at`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scanAddress: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return addresses, nil
}

func (r *addressRepository) GetAddress(ctx context.Context, addressID uuid.UUID) (domain.Address, error) {
	var a domain.Address

	row := r.db.QueryRow(ctx,
		`SELECT id::text, owner_id, street, city, created_at FROM addresses WHERE id = $1`,
		addressID.String())

	address, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, fmt.Errorf("address[%s]: %w", addressID, domain.ErrNotFound)
		}
		return a, fmt.Errorf("scanAddress: %w", err)
	}

	return address, nil
}

func (r *addressRepository) InsertAddress(ctx context.Context, address domain.Address) (uuid.UUID, error) {
	if err := address.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("address.Validate: %w", err)
	}

	var idStr string

	err := r.db.QueryRow(ctx,
		`INSERT INTO addresses (owner_id, street, city) VALUES ($1, $2, $3) RETURNING id::text`,
		address.OwnerID, address.Street, address.City).Scan(&idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	addressID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse[%s]: %w", idStr, err)
	}

	return addressID, nil
}

func scanAddress(row pgx.Row) (domain.Address, error) {
	var (
		idStr, ownerID, street, city string
		createdAt                    time.Time
	)

	if err := row.Scan(&idStr, &ownerID, &street, &city, &createdAt); err != nil {
		return domain.Address{}, err
	}

	addressID, err := uuid.Parse(idStr)
	if err != nil {
		return domain.Address{}, fmt.Errorf("uuid.Parse[%s]: %w", idStr, err)
	}

	return domain.Address{
		ID:        addressID,
		OwnerID:   ownerID,
		Street:    street,
		City:      city,
		CreatedAt: createdAt,
	}, nil
}
