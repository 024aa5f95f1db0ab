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

type wishlistRepository struct {
	db DB
}

func NewWishlist(pool *pgxpool.Pool) port.WishlistRepository {
	return &wishlistRepository{db: pool}
}

func NewWishlistWithTx(tx pgx.Tx) port.WishlistRepository {
	return &wishlistRepository{db: tx}
}

func (r *wishlistRepository) GetWishlist(ctx context.Context, ownerID string) ([]domain.WishlistLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT wi.id::text, wi.owner_id, wi.product_id::text, wi.created_at,
		        p.id::text, p.name, p.category, p.price_amount::text, p.price_currency, p.stock, p.created_at, p.updated_at
		   FROM wishlist_items wi
		   JOIN products p ON p.id = wi.product_id
		  WHERE wi.owner_id = $1
		  ORDER BY wi.created_at`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.WishlistLine
	for rows.Next() {
		var (
			idStr, owner, productIDStr string
			createdAt                  time.Time
			product                    productRow
		)

		if err := rows.Scan(
			&idStr, &owner, &productIDStr, &createdAt,
			&product.ID, &product.Name, &product.Category,
			&product.PriceAmount, &product.PriceCurrency, &product.Stock,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		item, err := mapWishlistItem(idStr, owner, productIDStr, createdAt)
		if err != nil {
			return nil, fmt.Errorf("mapWishlistItem: %w", err)
		}

		domainProduct, err := mapProductRowToDomain(product)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}

		lines = append(lines, domain.WishlistLine{Item: item, Product: domainProduct})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lines, nil
}

func (r *wishlistRepository) GetWishlistItem(ctx context.Context, itemID uuid.UUID) (domain.WishlistItem, error) {
	var item domain.WishlistItem

	var (
		idStr, ownerID, productIDStr string
		createdAt                    time.Time
	)

	err := r.db.QueryRow(ctx,
		`SELECT id::text, owner_id, product_id::text, created_at FROM wishlist_items WHERE id = $1`,
		itemID.String()).Scan(&idStr, &ownerID, &productIDStr, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("wishlist item[%s]: %w", itemID, domain.ErrNotFound)
		}
		return item, fmt.Errorf("db.QueryRow: %w", err)
	}

	return mapWishlistItem(idStr, ownerID, productIDStr, createdAt)
}

func (r *wishlistRepository) AddItem(ctx context.Context, item domain.WishlistItem) (uuid.UUID, error) {
	var idStr string

	err := r.db.QueryRow(ctx,
		`INSERT INTO wishlist_items (owner_id, product_id)
		 VALUES ($1, $2)
		 ON CONFLICT (owner_id, product_id) DO NOTHING
		 RETURNING id::text`,
		item.OwnerID, item.ProductID.String()).Scan(&idStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("wishlist item for product[%s]: %w", item.ProductID, domain.ErrDuplicateItem)
		}
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse[%s]: %w", idStr, err)
	}

	return itemID, nil
}

func (r *wishlistRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE id = $1`, itemID.String())
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func mapWishlistItem(id, ownerID, productID string, createdAt time.Time) (domain.WishlistItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return domain.WishlistItem{}, fmt.Errorf("uuid.Parse[%s]: %w", id, err)
	}

	parsedProductID, err := uuid.Parse(productID)
	if err != nil {
		return domain.WishlistItem{}, fmt.Errorf("uuid.Parse[%s]: %w", productID, err)
	}

	return domain.WishlistItem{
		ID:        itemID,
		OwnerID:   ownerID,
		ProductID: parsedProductID,
		CreatedAt: createdAt,
	}, nil
}
