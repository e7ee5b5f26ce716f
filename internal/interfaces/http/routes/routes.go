// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// Dependencies is what the route groups need to build their handlers
type Dependencies struct {
	Config   *config.Config
	Services *handlers.Services
	Cache    handlers.Cache
	Logger   *logrus.Logger
}

// Setup registers every API route group on rg
func Setup(rg *gin.RouterGroup, deps *Dependencies) {
	SetupAuthRoutes(rg, deps)
	SetupProductRoutes(rg, deps)
	SetupRecommendationRoutes(rg, deps)
	SetupReviewRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupOrderRoutes(rg, deps)
	SetupSellerRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Services, deps.Logger)

	auth := rg.Group("/auth")
	auth.Use(middleware.Session(deps.Config))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Services.JWT))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// SetupProductRoutes sets up catalog read routes
func SetupProductRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Services, deps.Logger)
	categoryHandler := handlers.NewCategoryHandler(deps.Services, deps.Cache, deps.Logger)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	rg.GET("/categories", categoryHandler.GetCategories)
	rg.GET("/sizes", categoryHandler.GetSizes)
}

// SetupRecommendationRoutes sets up product recommendation lists
func SetupRecommendationRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	recommendationHandler := handlers.NewRecommendationHandler(deps.Services, deps.Cache, deps.Logger)

	products := rg.Group("/products")
	{
		products.GET("/bestsellers", recommendationHandler.GetBestsellers)
		products.GET("/popular", recommendationHandler.GetPopular)
		products.GET("/new", recommendationHandler.GetNew)
		products.GET("/sale", recommendationHandler.GetSale)
		products.GET("/trending", recommendationHandler.GetTrending)
		products.GET("/top-rated", recommendationHandler.GetTopRated)

		products.GET("/:id/related", recommendationHandler.GetRelated)
		products.GET("/:id/also-bought", recommendationHandler.GetAlsoBought)
		products.GET("/:id/upsell", recommendationHandler.GetUpsell)
	}

	rg.GET("/recommendations/for-you",
		middleware.OptionalAuthMiddleware(deps.Services.JWT),
		recommendationHandler.GetForUser)
}

// SetupReviewRoutes sets up product review routes
func SetupReviewRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	reviewHandler := handlers.NewReviewHandler(deps.Services, deps.Logger)
	requireAuth := middleware.AuthMiddleware(deps.Services.JWT)

	rg.GET("/products/:id/reviews", reviewHandler.GetProductReviews)
	rg.POST("/products/:id/reviews", requireAuth, reviewHandler.CreateReview)

	reviews := rg.Group("/reviews")
	reviews.Use(requireAuth)
	{
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}
}

// SetupCartRoutes sets up session cart routes. Signed-in callers are
// recognised but not required.
func SetupCartRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Services, deps.Logger)
	recommendationHandler := handlers.NewRecommendationHandler(deps.Services, deps.Cache, deps.Logger)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(deps.Services.JWT), middleware.Session(deps.Config))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/add", cartHandler.AddToCart)
		cart.PATCH("/update/:line_id", cartHandler.UpdateCartItem)
		cart.DELETE("/remove/:line_id", cartHandler.RemoveFromCart)
		cart.DELETE("/clear", cartHandler.ClearCart)
		cart.GET("/recommendations", recommendationHandler.GetCrossSell)
	}
}

// SetupOrderRoutes sets up checkout and buyer order routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Services, deps.Logger)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(deps.Services.JWT), middleware.Session(deps.Config))
	{
		orders.POST("/checkout", orderHandler.Checkout)
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", orderHandler.GetInvoice)
	}
}

// SetupSellerRoutes sets up product and stock management routes
func SetupSellerRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Services, deps.Logger)
	inventoryHandler := handlers.NewInventoryHandler(deps.Services, deps.Logger)

	seller := rg.Group("/seller")
	seller.Use(middleware.AuthMiddleware(deps.Services.JWT), middleware.SellerMiddleware())
	{
		seller.POST("/products", productHandler.CreateProduct)
		seller.PUT("/products/:id", productHandler.UpdateProduct)
		seller.DELETE("/products/:id", productHandler.DeleteProduct)

		seller.POST("/products/:id/sizes", inventoryHandler.CreateVariant)
		seller.PATCH("/products/:id/sizes/:variant_id", inventoryHandler.UpdateVariantStock)
		seller.DELETE("/products/:id/sizes/:variant_id", inventoryHandler.DeleteVariant)
		seller.PUT("/products/:id/stock", inventoryHandler.SetFlatStock)
		seller.GET("/products/:id/movements", inventoryHandler.GetMovements)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Services, deps.Logger)
	categoryHandler := handlers.NewCategoryHandler(deps.Services, deps.Cache, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Services, deps.Logger)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(deps.Services.JWT), middleware.AdminMiddleware())
	{
		admin.GET("/orders", orderHandler.AdminGetOrders)
		admin.PATCH("/orders/:id/status", orderHandler.AdminUpdateOrderStatus)
		admin.GET("/logs", adminHandler.GetActionLogs)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.POST("/sizes", categoryHandler.CreateSize)
	}
}
