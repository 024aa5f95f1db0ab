package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

type productRepository struct {
	db DB
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{db: pool}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{db: tx}
}

const selectProductColumns = `id::text, name, category, price_amount::text, price_currency, stock, created_at, updated_at`

type productRow struct {
	ID            string
	Name          string
	Category      string
	PriceAmount   string
	PriceCurrency string
	Stock         int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectProductColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		row, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProductRow: %w", err)
		}

		product, err := mapProductRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductRowToDomain: %w", err)
		}

		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	row := r.db.QueryRow(ctx, `SELECT `+selectProductColumns+` FROM products WHERE id = $1`, productID.String())

	dbRow, err := scanProductRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
		}
		return p, fmt.Errorf("scanProductRow: %w", err)
	}

	product, err := mapProductRowToDomain(dbRow)
	if err != nil {
		return p, fmt.Errorf("mapProductRowToDomain: %w", err)
	}

	return product, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	var idStr string

	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, category, price_amount, price_currency, stock)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id::text`,
		product.Name, product.Category, product.Price.Amount.String(), product.Price.Currency.String(), product.Stock,
	).Scan(&idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	productID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse[%s]: %w", idStr, err)
	}

	return productID, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	// The condition serializes racing decrements on the product row and
	// refuses to take stock below zero.
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
		productID.String(), qty)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a missing product from a stock shortfall.
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("db.QueryRow exists: %w", err)
	}

	if !exists {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	return fmt.Errorf("product[%s]: %w", productID, domain.ErrInsufficientStock)
}

func scanProductRow(row pgx.Row) (productRow, error) {
	var r productRow

	err := row.Scan(&r.ID, &r.Name, &r.Category, &r.PriceAmount, &r.PriceCurrency, &r.Stock, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}

	return r, nil
}

func mapProductRowToDomain(row productRow) (domain.Product, error) {
	productID, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("uuid.Parse[%s]: %w", row.ID, err)
	}

	price, err := mapMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapMoney: %w", err)
	}

	return domain.Product{
		ID:        productID,
		Name:      row.Name,
		Category:  row.Category,
		Price:     price,
		Stock:     row.Stock,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapMoney(amount, currencyCode string) (domain.Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("decimal.NewFromString[%s]: %w", amount, err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}
