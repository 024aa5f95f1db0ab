package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")

	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoShippingAddress = errors.New("no shipping address selected")
	ErrDuplicateItem     = errors.New("item already exists")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")

	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
)
