package httpserver

import (
	"time"

	"artgallery-storefront/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, ready Pinger, deps Deps, v *visitors) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.Middleware(log), logger.Recovery(log), corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(ready))

	h := &handlers{}
	api := router.Group("/", v.middleware())
	{
		api.GET("/state", h.state)
		api.POST("/view", h.setView)

		api.GET("/featured", h.featured)
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.POST("/products/refresh", h.refreshProducts)
		api.POST("/products/:id/reviews", h.submitReview)

		api.POST("/cart/items", h.addToCart)
		api.PATCH("/cart/items/:productId", h.updateQuantity)
		api.DELETE("/cart/items/:productId", h.removeFromCart)
		api.DELETE("/cart", h.clearCart)
		api.POST("/cart/promo", h.applyPromo)
		api.POST("/checkout", h.checkout)

		api.GET("/wishlist", h.listWishlist)
		api.POST("/wishlist/:productId", h.toggleWishlist)

		api.POST("/auth/signin", h.signIn)
		api.POST("/auth/signup", h.signUp)
		api.POST("/auth/signout", h.signOut)

		api.GET("/admin/stats", h.adminStats)
		api.POST("/admin/products", h.addProduct)
		api.PATCH("/admin/products/:id", h.updateProductStatus)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", visitorHeader},
		ExposeHeaders: []string{visitorHeader, logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
