package routes

import (
	"net/http"
	"time"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Auth *middleware.Auth
	// Limiter nil = pas de rate limiting (mode mémoire, tests).
	Limiter      middleware.Limiter
	APIRateLimit int
	CORSOrigins  []string
	// CSRF protège les formulaires HTML ; l'API reste sur le Bearer.
	CSRF middleware.CSRFOptions
	Log  *zap.Logger
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.HandleMethodNotAllowed = true
	r.NoRoute(h.NoRoute)
	r.NoMethod(h.NoMethod)

	corsCfg := cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.CORSOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	r.Use(opts.Auth.OptionalAuth())

	r.GET("/healthz", h.Health)

	// --- Pages HTML ---
	pages := r.Group("/", middleware.CSRF(opts.CSRF, opts.Log))
	pages.GET("/", h.ShopPage)
	pages.GET("/product/:id/", h.ProductPage)
	pages.GET("/cart/", h.CartPage)
	pages.GET("/wishlist/", h.WishlistPage)
	pages.GET("/login/", h.LoginPage)
	pages.POST("/login/", middleware.LoginRateLimit(opts.Limiter, opts.Log), h.LoginSubmit)
	pages.GET("/register/", h.RegisterPage)
	pages.POST("/register/", middleware.RegisterRateLimit(opts.Limiter, opts.Log), h.RegisterSubmit)
	pages.POST("/logout/", h.Logout)

	pages.POST("/wishlist/create/", h.WishlistCreateForm)
	pages.POST("/wishlist/add_to_cart/", middleware.CartRateLimit(opts.Limiter, opts.Log), h.AddToCartForm)
	pages.POST("/wishlist/:id/destroy/", h.WishlistDestroyForm)
	r.Match([]string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/wishlist/:id/destroy/", h.OnlyPOST)

	// --- API REST ---
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(opts.Limiter, opts.APIRateLimit, opts.Log))

	authGroup := api.Group("/auth")
	authGroup.POST("/register", middleware.RegisterRateLimit(opts.Limiter, opts.Log), h.Register)
	authGroup.POST("/login", middleware.LoginRateLimit(opts.Limiter, opts.Log), h.Login)
	authGroup.GET("/me", opts.Auth.AuthRequired(), h.Me)

	api.GET("/products/", h.ListProducts)
	api.GET("/products/:id/", h.GetProduct)
	api.GET("/products/:id/image", h.ProductImage)
	api.GET("/search", h.SearchProducts)
	api.GET("/categories/", h.ListCategories)

	// Le panier vérifie lui-même l'authentification avant toute lecture ou écriture.
	cart := api.Group("/cart")
	cart.GET("/", h.GetCart)
	cart.POST("/", middleware.CartRateLimit(opts.Limiter, opts.Log), h.AddToCart)
	cart.DELETE("/", h.ClearCart)
	cart.PUT("/:id/", h.UpdateCartItem)
	cart.PATCH("/:id/", h.UpdateCartItem)
	cart.DELETE("/:id/", h.RemoveCartItem)
	cart.POST("/:id/destroy/", h.RemoveCartItem)

	wl := api.Group("/wishlist")
	wl.GET("/", h.GetWishlist)
	wl.POST("/", h.AddToWishlist)
	wl.DELETE("/:id/", h.RemoveFromWishlist)
	wl.POST("/:id/destroy/", h.RemoveFromWishlist)

	admin := api.Group("/admin", opts.Auth.AuthRequired(), middleware.RequireAdmin)
	admin.GET("/categories", h.AdminCategories)
	admin.POST("/categories", h.AdminCreateCategory)
	admin.POST("/products", h.AdminCreateProduct)
	admin.PUT("/products/:id", h.AdminUpdateProduct)
	admin.DELETE("/products/:id", h.AdminDeleteProduct)
	admin.POST("/products/:id/image", h.AdminUploadImage)
	admin.GET("/products/:id/discounts", h.AdminListDiscounts)
	admin.POST("/products/:id/discounts", h.AdminCreateDiscount)
	admin.DELETE("/products/:id/discounts/:discountId", h.AdminDeleteDiscount)
	admin.GET("/audit", h.AdminAuditLogs)
}
