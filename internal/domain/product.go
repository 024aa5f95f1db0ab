package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID       uuid.UUID
	Name     string
	Category string
	Price    Money
	Stock    int32

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type ProductSort string

// remember to add new sort orders to the validProductSorts map
const (
	ProductSortNone      ProductSort = ""
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
	ProductSortName      ProductSort = "name"
)

var validProductSorts = map[ProductSort]struct{}{
	ProductSortNone:      {},
	ProductSortPriceAsc:  {},
	ProductSortPriceDesc: {},
	ProductSortName:      {},
}

func ToProductSort(s string) (ProductSort, error) {
	sort := ProductSort(s)
	if _, ok := validProductSorts[sort]; ok {
		return sort, nil
	}

	return "", errors.New("invalid product sort")
}

// ProductQuery narrows and orders a catalog listing.
type ProductQuery struct {
	Search string
	Sort   ProductSort
}

func (q ProductQuery) Validate() error {
	if _, ok := validProductSorts[q.Sort]; !ok {
		return fmt.Errorf("sort[%s] is not valid", q.Sort)
	}

	return nil
}

// Apply returns a filtered, sorted copy, the input slice is not modified.
func (q ProductQuery) Apply(products []Product) []Product {
	result := make([]Product, 0, len(products))

	search := strings.ToLower(q.Search)
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		result = append(result, p)
	}

	switch q.Sort {
	case ProductSortPriceAsc:
		slices.SortStableFunc(result, func(a, b Product) int {
			return a.Price.Amount.Cmp(b.Price.Amount)
		})
	case ProductSortPriceDesc:
		slices.SortStableFunc(result, func(a, b Product) int {
			return b.Price.Amount.Cmp(a.Price.Amount)
		})
	case ProductSortName:
		slices.SortStableFunc(result, func(a, b Product) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	return result
}
