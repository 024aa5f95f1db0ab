package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/metrics"
	"storefront-backend/internal/service"
)

type Handler struct {
	catalog   *service.CatalogService
	cart      *service.CartService
	wishlist  *service.WishlistService
	addresses *service.AddressService
	checkout  *service.CheckoutService
	orders    *service.OrderService
	metrics   *metrics.ServerMetrics // nil-safe
}

func NewHandler(
	catalog *service.CatalogService,
	cart *service.CartService,
	wishlist *service.WishlistService,
	addresses *service.AddressService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	m *metrics.ServerMetrics,
) *Handler {
	return &Handler{
		catalog:   catalog,
		cart:      cart,
		wishlist:  wishlist,
		addresses: addresses,
		checkout:  checkout,
		orders:    orders,
		metrics:   m,
	}
}

// ----- Catalog -----

func (h *Handler) listProducts(c *gin.Context) {
	sort, err := domain.ToProductSort(c.Query("sort"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}

	products, err := h.catalog.List(c.Request.Context(), domain.ProductQuery{
		Search: c.Query("search"),
		Sort:   sort,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapProducts(products))
}

// ----- Cart -----

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.cart.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapCart(cart))
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_product_id", err.Error())
		return
	}

	itemID, err := h.cart.AddItem(c.Request.Context(), identityFrom(c), productID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": itemID.String()})
}

func (h *Handler) updateCartItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_item_id", err.Error())
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if err := h.cart.SetQuantity(c.Request.Context(), identityFrom(c), itemID, req.Quantity); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCartItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_item_id", err.Error())
		return
	}

	if err := h.cart.Remove(c.Request.Context(), identityFrom(c), itemID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ----- Wishlist -----

func (h *Handler) getWishlist(c *gin.Context) {
	lines, err := h.wishlist.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapWishlist(lines))
}

func (h *Handler) addWishlistItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_product_id", err.Error())
		return
	}

	itemID, err := h.wishlist.AddItem(c.Request.Context(), identityFrom(c), productID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": itemID.String()})
}

func (h *Handler) deleteWishlistItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_item_id", err.Error())
		return
	}

	if err := h.wishlist.Remove(c.Request.Context(), identityFrom(c), itemID); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ----- Addresses -----

func (h *Handler) listAddresses(c *gin.Context) {
	addresses, err := h.addresses.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapAddresses(addresses))
}

func (h *Handler) addAddress(c *gin.Context) {
	var req addAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	addressID, err := h.addresses.Add(c.Request.Context(), identityFrom(c), req.Street, req.City)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": addressID.String()})
}

// ----- Checkout -----

func (h *Handler) postCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	addressID := uuid.Nil
	if req.ShippingAddressID != "" {
		parsed, err := uuid.Parse(req.ShippingAddressID)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid_address_id", err.Error())
			return
		}
		addressID = parsed
	}

	confirmation, err := h.checkout.Checkout(c.Request.Context(), identityFrom(c), addressID)
	if err != nil {
		h.observeCheckout("rejected")
		writeDomainError(c, err)
		return
	}

	if confirmation.PlacedWithWarnings() {
		h.observeCheckout("placed_with_warnings")
	} else {
		h.observeCheckout("placed")
	}

	// The cache holds pre-checkout stock numbers now.
	h.catalog.Invalidate(context.WithoutCancel(c.Request.Context()))

	c.JSON(http.StatusCreated, mapConfirmation(confirmation))
}

func (h *Handler) observeCheckout(outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.Checkouts.WithLabelValues(outcome).Inc()
}

// ----- Orders -----

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapOrders(orders))
}

func (h *Handler) getOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_order_id", err.Error())
		return
	}

	order, err := h.orders.Get(c.Request.Context(), identityFrom(c), orderID)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapOrder(order))
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_order_id", err.Error())
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	status, err := domain.ToOrderStatus(req.Status)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), identityFrom(c), orderID, status); err != nil {
		writeDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ----- Error mapping -----

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(c, http.StatusUnauthorized, "not_authenticated", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(c, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateItem):
		writeError(c, http.StatusConflict, "duplicate_item", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(c, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(c, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(c, http.StatusUnprocessableEntity, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrNoShippingAddress):
		writeError(c, http.StatusUnprocessableEntity, "no_shipping_address", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(c, http.StatusUnprocessableEntity, "invalid_quantity", err.Error())
	case errors.Is(err, context.DeadlineExceeded), isConnectError(err):
		writeError(c, http.StatusServiceUnavailable, "upstream_unavailable", "data store did not respond")
	default:
		writeError(c, http.StatusInternalServerError, "internal_error", "")
	}
}

// isConnectError matches failures to reach the data store at all, refused or
// dropped connections rather than slow queries.
func isConnectError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: code, Message: msg})
}
