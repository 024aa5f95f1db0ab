package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/metrics"
)

func NewRouter(handler *Handler, verifier auth.Verifier, m *metrics.ServerMetrics, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ObserveRequests(m))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", handler.healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Browsing is public, everything mutating requires a resolved identity.
	r.GET("/api/products", handler.listProducts)

	authed := r.Group("/api", RequireIdentity(verifier))
	{
		authed.GET("/cart", handler.getCart)
		authed.POST("/cart", handler.addCartItem)
		authed.PATCH("/cart/:itemId", handler.updateCartItem)
		authed.DELETE("/cart/:itemId", handler.deleteCartItem)

		authed.GET("/wishlist", handler.getWishlist)
		authed.POST("/wishlist", handler.addWishlistItem)
		authed.DELETE("/wishlist/:itemId", handler.deleteWishlistItem)

		authed.GET("/addresses", handler.listAddresses)
		authed.POST("/addresses", handler.addAddress)

		authed.POST("/checkout", handler.postCheckout)

		authed.GET("/orders", handler.listOrders)
		authed.GET("/orders/:orderId", handler.getOrder)
		authed.PATCH("/orders/:orderId/status", handler.updateOrderStatus)
	}

	return r
}
