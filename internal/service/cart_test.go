package service_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/service"
)

type cartServiceSuite struct {
	suite.Suite

	products *fakeProductRepo
	cart     *fakeCartRepo

	svc *service.CartService
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(cartServiceSuite))
}

func (suite *cartServiceSuite) SetupTest() {
	suite.products = newFakeProductRepo()
	suite.cart = newFakeCartRepo(suite.products)
	suite.svc = service.NewCart(suite.cart, suite.products, discardLogger())
}

func (suite *cartServiceSuite) TestUnauthenticated() {
	t := suite.T()
	ctx := context.Background()

	_, err := suite.svc.List(ctx, domain.Identity{})
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = suite.svc.AddItem(ctx, domain.Identity{}, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	err = suite.svc.SetQuantity(ctx, domain.Identity{}, uuid.New(), 2)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	err = suite.svc.Remove(ctx, domain.Identity{}, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func (suite *cartServiceSuite) TestAddItem() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})

	itemID, err := suite.svc.AddItem(ctx, identity, product.ID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, itemID)

	cart, err := suite.svc.List(ctx, identity)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(1), cart.Lines[0].Item.Quantity)
	assert.Equal(t, product.ID, cart.Lines[0].Product.ID)
}

func (suite *cartServiceSuite) TestAddItemDuplicate() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})

	_, err := suite.svc.AddItem(ctx, identity, product.ID)
	require.NoError(t, err)

	_, err = suite.svc.AddItem(ctx, identity, product.ID)
	require.ErrorIs(t, err, domain.ErrDuplicateItem)

	// the cart is unchanged by the rejected add
	assert.Equal(t, 1, suite.cart.size(identity.Subject))
}

func (suite *cartServiceSuite) TestAddItemChecksCatalog() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	outOfStock := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("8.99"), Stock: 0})

	tests := []struct {
		name      string
		productID uuid.UUID
		wantError error
	}{
		{name: "unknown product", productID: uuid.New(), wantError: domain.ErrNotFound},
		{name: "out of stock product", productID: outOfStock.ID, wantError: domain.ErrInsufficientStock},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.svc.AddItem(ctx, identity, tt.productID)
			require.ErrorIs(t, err, tt.wantError)
			assert.Zero(t, suite.cart.size(identity.Subject))
		})
	}
}

func (suite *cartServiceSuite) TestSetQuantity() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})
	itemID, err := suite.svc.AddItem(ctx, identity, product.ID)
	require.NoError(t, err)

	require.NoError(t, suite.svc.SetQuantity(ctx, identity, itemID, 4))

	cart, err := suite.svc.List(ctx, identity)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int32(4), cart.Lines[0].Item.Quantity)
}

func (suite *cartServiceSuite) TestSetQuantityRejectsNonPositive() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})
	itemID, err := suite.svc.AddItem(ctx, identity, product.ID)
	require.NoError(t, err)

	require.ErrorIs(t, suite.svc.SetQuantity(ctx, identity, itemID, 0), domain.ErrInvalidQuantity)
	require.ErrorIs(t, suite.svc.SetQuantity(ctx, identity, itemID, -2), domain.ErrInvalidQuantity)
}

func (suite *cartServiceSuite) TestSetQuantityOwnership() {
	t := suite.T()
	ctx := context.Background()
	owner := shopper()
	intruder := shopper()

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})
	itemID, err := suite.svc.AddItem(ctx, owner, product.ID)
	require.NoError(t, err)

	err = suite.svc.SetQuantity(ctx, intruder, itemID, 4)
	require.ErrorIs(t, err, domain.ErrForbidden)

	item, err := suite.cart.GetCartItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), item.Quantity)
}

func (suite *cartServiceSuite) TestRemoveIdempotent() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	// removing an id that never existed is a no-op
	require.NoError(t, suite.svc.Remove(ctx, identity, uuid.New()))

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})
	itemID, err := suite.svc.AddItem(ctx, identity, product.ID)
	require.NoError(t, err)

	require.NoError(t, suite.svc.Remove(ctx, identity, itemID))
	require.NoError(t, suite.svc.Remove(ctx, identity, itemID))

	assert.Zero(t, suite.cart.size(identity.Subject))
}

func (suite *cartServiceSuite) TestRemoveOwnership() {
	t := suite.T()
	ctx := context.Background()
	owner := shopper()
	intruder := shopper()

	product := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})
	itemID, err := suite.svc.AddItem(ctx, owner, product.ID)
	require.NoError(t, err)

	err = suite.svc.Remove(ctx, intruder, itemID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, suite.cart.size(owner.Subject))
}

func (suite *cartServiceSuite) TestListDropsStaleLines() {
	t := suite.T()
	ctx := context.Background()
	identity := shopper()

	kept := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("12.50"), Stock: 5})
	removed := suite.products.put(domain.Product{Name: gofakeit.ProductName(), Price: usd("8.99"), Stock: 5})

	_, err := suite.svc.AddItem(ctx, identity, kept.ID)
	require.NoError(t, err)
	_, err = suite.svc.AddItem(ctx, identity, removed.ID)
	require.NoError(t, err)

	// product leaves the catalog after it was carted
	suite.products.mu.Lock()
	delete(suite.products.products, removed.ID)
	suite.products.mu.Unlock()

	cart, err := suite.svc.List(ctx, identity)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, kept.ID, cart.Lines[0].Product.ID)
}
