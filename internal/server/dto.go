package server

import (
	"time"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/service"
)

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func mapMoney(m domain.Money) moneyDTO {
	return moneyDTO{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

type productResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    moneyDTO `json:"price"`
	Stock    int32    `json:"stock"`
}

func mapProduct(p domain.Product) productResponse {
	return productResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Category: p.Category,
		Price:    mapMoney(p.Price),
		Stock:    p.Stock,
	}
}

func mapProducts(products []domain.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, mapProduct(p))
	}
	return result
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity" binding:"required"`
}

type cartLineResponse struct {
	ID       string          `json:"id"`
	Quantity int32           `json:"quantity"`
	Product  productResponse `json:"product"`
}

type cartResponse struct {
	Items    []cartLineResponse `json:"items"`
	Subtotal *moneyDTO          `json:"subtotal,omitempty"`
}

func mapCart(cart domain.Cart) cartResponse {
	items := make([]cartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, cartLineResponse{
			ID:       line.Item.ID.String(),
			Quantity: line.Item.Quantity,
			Product:  mapProduct(line.Product),
		})
	}

	resp := cartResponse{Items: items}

	if subtotal, err := cart.Subtotal(); err == nil {
		dto := mapMoney(subtotal)
		resp.Subtotal = &dto
	}

	return resp
}

type wishlistLineResponse struct {
	ID      string          `json:"id"`
	Product productResponse `json:"product"`
}

func mapWishlist(lines []domain.WishlistLine) []wishlistLineResponse {
	result := make([]wishlistLineResponse, 0, len(lines))
	for _, line := range lines {
		result = append(result, wishlistLineResponse{
			ID:      line.Item.ID.String(),
			Product: mapProduct(line.Product),
		})
	}
	return result
}

type addAddressRequest struct {
	Street string `json:"street" binding:"required"`
	City   string `json:"city" binding:"required"`
}

type addressResponse struct {
	ID     string `json:"id"`
	Street string `json:"street"`
	City   string `json:"city"`
}

func mapAddresses(addresses []domain.Address) []addressResponse {
	result := make([]addressResponse, 0, len(addresses))
	for _, a := range addresses {
		result = append(result, addressResponse{
			ID:     a.ID.String(),
			Street: a.Street,
			City:   a.City,
		})
	}
	return result
}

type checkoutRequest struct {
	ShippingAddressID string `json:"shippingAddressId"`
}

type orderItemResponse struct {
	ProductID string   `json:"productId"`
	Quantity  int32    `json:"quantity"`
	UnitPrice moneyDTO `json:"unitPrice"`
}

type orderResponse struct {
	ID                string              `json:"id"`
	UserID            string              `json:"userId"`
	Items             []orderItemResponse `json:"items"`
	Total             moneyDTO            `json:"total"`
	ShippingAddressID string              `json:"shippingAddressId"`
	Status            string              `json:"status"`
	CreatedAt         time.Time           `json:"createdAt"`
}

func mapOrder(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: mapMoney(item.UnitPrice),
		})
	}

	return orderResponse{
		ID:                o.ID.String(),
		UserID:            o.OwnerID,
		Items:             items,
		Total:             mapMoney(o.Total),
		ShippingAddressID: o.ShippingAddressID.String(),
		Status:            string(o.Status),
		CreatedAt:         o.CreatedAt,
	}
}

func mapOrders(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, mapOrder(o))
	}
	return result
}

type warningDTO struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

type confirmationResponse struct {
	Order    orderResponse `json:"order"`
	Warnings []warningDTO  `json:"warnings,omitempty"`
	Receipt  string        `json:"receipt,omitempty"`
}

func mapConfirmation(c service.Confirmation) confirmationResponse {
	resp := confirmationResponse{
		Order:   mapOrder(c.Order),
		Receipt: c.Receipt,
	}

	for _, w := range c.Warnings {
		resp.Warnings = append(resp.Warnings, mapWarning(w))
	}

	return resp
}

func mapWarning(w checkout.Warning) warningDTO {
	message := ""
	if w.Err != nil {
		message = w.Err.Error()
	}

	return warningDTO{Step: w.Step, Message: message}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
