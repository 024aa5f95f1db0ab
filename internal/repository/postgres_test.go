package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/text/currency"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/repository"
)

const postgresImage = "postgres:17-alpine"

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

func preparePool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := repository.ApplySchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository.ApplySchema: %w", err)
	}

	return pool, nil
}

func fakeProduct() domain.Product {
	return domain.Product{
		Name:     gofakeit.ProductName(),
		Category: gofakeit.ProductCategory(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
			Currency: currency.USD,
		},
		Stock: int32(gofakeit.Number(1, 50)),
	}
}

// currencyComparer compares currency.Unit by ISO code, the struct itself has
// unexported fields.
var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func assertEqualCmp[T any](t *testing.T, expected, actual T, opts ...cmp.Option) {
	t.Helper()

	opts = append(opts, currencyComparer, decimalComparer)
	diff := cmp.Diff(expected, actual, opts...)
	assert.Empty(t, diff)
}
