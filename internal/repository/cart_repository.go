package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

type cartRepository struct {
	db DB
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

type cartLineRow struct {
	ID        string
	OwnerID   string
	ProductID string
	Quantity  int32
	CreatedAt time.Time

	Product productRow
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	// Inner join drops items whose product no longer exists in the catalog.
	rows, err := r.db.Query(ctx,
		`SELECT ci.id::text, ci.owner_id, ci.product_id::text, ci.quantity, ci.created_at,
		        p.id::text, p.name, p.category, p.price_amount::text, p.price_currency, p.stock, p.created_at, p.updated_at
		   FROM cart_items ci
		   JOIN products p ON p.id = ci.product_id
		  WHERE ci.owner_id = $1
		  ORDER BY ci.created_at`,
		ownerID)
	if err != nil {
		return c, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var row cartLineRow
		if err := rows.Scan(
			&row.ID, &row.OwnerID, &row.ProductID, &row.Quantity, &row.CreatedAt,
			&row.Product.ID, &row.Product.Name, &row.Product.Category,
			&row.Product.PriceAmount, &row.Product.PriceCurrency, &row.Product.Stock,
			&row.Product.CreatedAt, &row.Product.UpdatedAt,
		); err != nil {
			return c, fmt.Errorf("rows.Scan: %w", err)
		}

		line, err := mapCartLineRowToDomain(row)
		if err != nil {
			return c, fmt.Errorf("mapCartLineRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("rows.Err: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   lines,
	}, nil
}

func (r *cartRepository) GetCartItem(ctx context.Context, itemID uuid.UUID) (domain.CartItem, error) {
	var item domain.CartItem

	var (
		idStr, ownerID, productIDStr string
		quantity                     int32
		createdAt                    time.Time
	)

	err := r.db.QueryRow(ctx,
		`SELECT id::text, owner_id, product_id::text, quantity, created_at FROM cart_items WHERE id = $1`,
		itemID.String()).Scan(&idStr, &ownerID, &productIDStr, &quantity, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("cart item[%s]: %w", itemID, domain.ErrNotFound)
		}
		return item, fmt.Errorf("db.QueryRow: %w", err)
	}

	return mapCartItem(idStr, ownerID, productIDStr, quantity, createdAt)
}

func (r *cartRepository) AddItem(ctx context.Context, item domain.CartItem) (uuid.UUID, error) {
	var idStr string

	err := r.db.QueryRow(ctx,
		`INSERT INTO cart_items (owner_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id, product_id) DO NOTHING
		 RETURNING id::text`,
		item.OwnerID, item.ProductID.String(), item.Quantity).Scan(&idStr)
	if err != nil {
		// DO NOTHING yields no row when the (owner, product) pair already exists.
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("cart item for product[%s]: %w", item.ProductID, domain.ErrDuplicateItem)
		}
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	itemID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse[%s]: %w", idStr, err)
	}

	return itemID, nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, itemID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID.String(), qty)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("cart item[%s]: %w", itemID, domain.ErrNotFound)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID.String())
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *cartRepository) DeleteItems(ctx context.Context, ownerID string, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}

	ids := lo.Map(itemIDs, func(id uuid.UUID, _ int) string { return id.String() })

	if _, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1 AND id = ANY($2::uuid[])`, ownerID, ids); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func mapCartItem(id, ownerID, productID string, quantity int32, createdAt time.Time) (domain.CartItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("uuid.Parse[%s]: %w", id, err)
	}

	parsedProductID, err := uuid.Parse(productID)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("uuid.Parse[%s]: %w", productID, err)
	}

	return domain.CartItem{
		ID:        itemID,
		OwnerID:   ownerID,
		ProductID: parsedProductID,
		Quantity:  quantity,
		CreatedAt: createdAt,
	}, nil
}

func mapCartLineRowToDomain(row cartLineRow) (domain.CartLine, error) {
	item, err := mapCartItem(row.ID, row.OwnerID, row.ProductID, row.Quantity, row.CreatedAt)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("mapCartItem: %w", err)
	}

	product, err := mapProductRowToDomain(row.Product)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("mapProductRowToDomain: %w", err)
	}

	return domain.CartLine{Item: item, Product: product}, nil
}
