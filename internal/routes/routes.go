package routes

import (
	"net/http"

	"verideal_back_end/internal/cache"
	"verideal_back_end/internal/handlers/payment"
	"verideal_back_end/internal/handlers/product"
	"verideal_back_end/internal/handlers/user"
	"verideal_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Products   *product.Handler
	Reviews    *product.ReviewHandler
	Cart       *user.CartHandler
	CartSocket *user.CartSocket
	Wishlist   *user.WishlistHandler
	Auth       *user.AuthHandler
	Checkout   *payment.CheckoutHandler
	Contact    *payment.ContactHandler
}

// RegisterRoutes mounts the API. admins lists the emails allowed on /api/admin.
func RegisterRoutes(r *gin.Engine, h Handlers, sessions middleware.SessionValidator, limits *cache.Store, admins []string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(limits))
	authRequired := middleware.AuthRequired(sessions)

	// Catalog
	products := api.Group("/products")
	{
		products.GET("", h.Products.ListProducts)
		products.GET("/categories", h.Products.ListCategories)
		products.GET("/:id", h.Products.GetProduct)
		products.GET("/:id/rating", h.Reviews.GetRating)
		products.GET("/:id/review", authRequired, h.Reviews.GetReview)
		products.POST("/:id/review", authRequired, h.Reviews.SubmitReview)
		products.DELETE("/:id/review", authRequired, h.Reviews.RetractReview)
	}
	api.GET("/search", middleware.SearchRateLimit(limits), h.Products.Search)
	api.POST("/admin/reindex", authRequired, middleware.RequireAdmin(admins),
		middleware.SearchRateLimit(limits), h.Products.Reindex)

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/otp", h.Auth.RequestOTP)
		auth.POST("/otp/verify", h.Auth.VerifyOTP)
		auth.GET("/oauth/:provider", h.Auth.BeginOAuth)
		auth.GET("/oauth/:provider/callback", h.Auth.OAuthCallback)
		auth.POST("/logout", authRequired, h.Auth.Logout)
		auth.GET("/session", authRequired, h.Auth.Session)
	}

	api.POST("/contact", h.Contact.Send)

	// Signed-in user
	protected := api.Group("")
	protected.Use(authRequired)
	{
		protected.GET("/profile", h.Auth.GetProfile)
		protected.PUT("/profile", h.Auth.UpdateProfile)
		protected.POST("/profile/avatar", h.Auth.UploadAvatar)

		cart := protected.Group("/cart")
		cart.GET("/ws", h.CartSocket.Serve)
		cart.Use(middleware.CartRateLimit(limits))
		{
			cart.GET("", h.Cart.GetCart)
			cart.POST("/add", h.Cart.AddLine)
			cart.PUT("/:productId", h.Cart.SetQuantity)
			cart.DELETE("/:productId", h.Cart.RemoveLine)
			cart.DELETE("", h.Cart.Clear)
		}

		wishlist := protected.Group("/wishlist")
		{
			wishlist.GET("", h.Wishlist.GetWishlist)
			wishlist.POST("/:productId", h.Wishlist.AddEntry)
			wishlist.DELETE("/:productId", h.Wishlist.RemoveEntry)
		}

		protected.GET("/checkout/summary", h.Checkout.Summary)
		protected.POST("/checkout", h.Checkout.Submit)
		protected.GET("/checkout/session/:id", h.Checkout.Session)
		protected.GET("/orders/last", h.Checkout.LastOrder)
	}
}
