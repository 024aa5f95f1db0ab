package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domain"
)

// In-memory port implementations. They mirror the persistence contracts,
// including duplicate detection, conditional stock decrements and the order
// lifecycle, without a database.

// --- products ---

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]domain.Product

	listErr      error
	decrementErr error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]domain.Product)}
}

func (f *fakeProductRepo) put(p domain.Product) domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) stock(productID uuid.UUID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[productID].Stock
}

func (f *fakeProductRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	result := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeProductRepo) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProductRepo) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return product.ID, nil
}

func (f *fakeProductRepo) DecrementStock(_ context.Context, productID uuid.UUID, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.decrementErr != nil {
		return f.decrementErr
	}

	p, ok := f.products[productID]
	if !ok {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	if p.Stock < qty {
		return fmt.Errorf("product[%s] stock %d < %d: %w", productID, p.Stock, qty, domain.ErrInsufficientStock)
	}

	p.Stock -= qty
	f.products[productID] = p
	return nil
}

// --- cart ---

type fakeCartRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]domain.CartItem
	products *fakeProductRepo

	deleteItemsErr error
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{
		items:    make(map[uuid.UUID]domain.CartItem),
		products: products,
	}
}

func (f *fakeCartRepo) size(ownerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			count++
		}
	}
	return count
}

func (f *fakeCartRepo) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart := domain.Cart{OwnerID: ownerID}
	for _, item := range f.items {
		if item.OwnerID != ownerID {
			continue
		}

		f.products.mu.Lock()
		product, ok := f.products.products[item.ProductID]
		f.products.mu.Unlock()
		if !ok {
			// stale line, the product left the catalog
			continue
		}

		cart.Lines = append(cart.Lines, domain.CartLine{Item: item, Product: product})
	}

	return cart, nil
}

func (f *fakeCartRepo) GetCartItem(_ context.Context, itemID uuid.UUID) (domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[itemID]
	if !ok {
		return domain.CartItem{}, fmt.Errorf("cart item[%s]: %w", itemID, domain.ErrNotFound)
	}
	return item, nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, item domain.CartItem) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.items {
		if existing.OwnerID == item.OwnerID && existing.ProductID == item.ProductID {
			return uuid.Nil, fmt.Errorf("product[%s]: %w", item.ProductID, domain.ErrDuplicateItem)
		}
	}

	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	f.items[item.ID] = item
	return item.ID, nil
}

func (f *fakeCartRepo) SetQuantity(_ context.Context, itemID uuid.UUID, qty int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	item, ok := f.items[itemID]
	if !ok {
		return fmt.Errorf("cart item[%s]: %w", itemID, domain.ErrNotFound)
	}

	item.Quantity = qty
	f.items[itemID] = item
	return nil
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.items[itemID]
	delete(f.items, itemID)
	return ok, nil
}

func (f *fakeCartRepo) DeleteItems(_ context.Context, ownerID string, itemIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteItemsErr != nil {
		return f.deleteItemsErr
	}

	for _, itemID := range itemIDs {
		if item, ok := f.items[itemID]; ok && item.OwnerID == ownerID {
			delete(f.items, itemID)
		}
	}
	return nil
}

// --- wishlist ---

type fakeWishlistRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]domain.WishlistItem
	products *fakeProductRepo
}

func newFakeWishlistRepo(products *fakeProductRepo) *fakeWishlistRepo {
	return &fakeWishlistRepo{
		items:    make(map[uuid.UUID]domain.WishlistItem),
		products: products,
	}
}

func (f *fakeWishlistRepo) size(ownerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			count++
		}
	}
	return count
}

func (f *fakeWishlistRepo) GetWishlist(_ context.Context, ownerID string) ([]domain.WishlistLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var lines []domain.WishlistLine
	for _, item := range f.items {
		if item.OwnerID != ownerID {
			continue
		}

		f.products.mu.Lock()
		product, ok := f.products.products[item.ProductID]
		f.products.mu.Unlock()
		if !ok {
			continue
		}

		lines = append(lines, domain.WishlistLine{Item: item, Product: product})
	}

	return lines, nil
}

func (f *fakeWishlistRepo) GetWishlistItem(_ context.Context, itemID uuid.UUID) (domain.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[itemID]
	if !ok {
		return domain.WishlistItem{}, fmt.Errorf("wishlist item[%s]: %w", itemID, domain.ErrNotFound)
	}
	return item, nil
}

func (f *fakeWishlistRepo) AddItem(_ context.Context, item domain.WishlistItem) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.items {
		if existing.OwnerID == item.OwnerID && existing.ProductID == item.ProductID {
			return uuid.Nil, fmt.Errorf("product[%s]: %w", item.ProductID, domain.ErrDuplicateItem)
		}
	}

	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	f.items[item.ID] = item
	return item.ID, nil
}

func (f *fakeWishlistRepo) DeleteItem(_ context.Context, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.items[itemID]
	delete(f.items, itemID)
	return ok, nil
}

// --- addresses ---

type fakeAddressRepo struct {
	mu        sync.Mutex
	addresses map[uuid.UUID]domain.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[uuid.UUID]domain.Address)}
}

func (f *fakeAddressRepo) put(a domain.Address) domain.Address {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.addresses[a.ID] = a
	return a
}

func (f *fakeAddressRepo) ListAddresses(_ context.Context, ownerID string) ([]domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Address
	for _, a := range f.addresses {
		if a.OwnerID == ownerID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAddressRepo) GetAddress(_ context.Context, addressID uuid.UUID) (domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.addresses[addressID]
	if !ok {
		return domain.Address{}, fmt.Errorf("address[%s]: %w", addressID, domain.ErrNotFound)
	}
	return a, nil
}

func (f *fakeAddressRepo) InsertAddress(_ context.Context, address domain.Address) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	address.ID = uuid.New()
	address.CreatedAt = time.Now()
	f.addresses[address.ID] = address
	return address.ID, nil
}

// --- orders ---

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order

	insertErr error
	getErr    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrderRepo) status(orderID uuid.UUID) domain.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderID].Status
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.Order{}, f.getErr
	}

	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}
	return order, nil
}

func (f *fakeOrderRepo) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Order
	for _, order := range f.orders {
		if len(filter.OwnerIDs) > 0 && !containsString(filter.OwnerIDs, order.OwnerID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, order.Status) {
			continue
		}
		result = append(result, order)
	}
	return result, nil
}

func (f *fakeOrderRepo) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return uuid.Nil, f.insertErr
	}

	order.ID = uuid.New()
	if order.Status == "" {
		order.Status = domain.OrderStatusProcessing
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = order
	return order.ID, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[orderID]
	if !ok {
		return fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}

	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("order[%s] %s -> %s: %w", orderID, order.Status, status, domain.ErrInvalidTransition)
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	f.orders[orderID] = order
	return nil
}

// --- cache ---

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string

	getErr   error
	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setCalls++
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.entries[key], nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.entries, key)
	return nil
}

func (f *fakeCache) GenerateKey(operation, key string) string {
	return strings.Join([]string{"test", operation, key}, ":")
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsStatus(haystack []domain.OrderStatus, needle domain.OrderStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
