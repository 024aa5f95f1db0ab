package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) Mul(qty int32) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt32(qty)),
		Currency: m.Currency,
	}
}

// Add fails on currency mismatch, there is no implicit conversion.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency.String() != other.Currency.String() {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}

	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}, nil
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}
