package port

import (
	"context"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)

	// DecrementStock subtracts qty from the product's stock. The update is
	// conditional on sufficient stock, so concurrent decrements serialize on
	// the product row and stock never goes negative.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int32) error
}
