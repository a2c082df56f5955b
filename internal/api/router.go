package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/priceworth/storefront-api/docs"
	"github.com/priceworth/storefront-api/internal/api/handler"
	"github.com/priceworth/storefront-api/internal/api/middleware"
	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// Dependencies carries everything the router needs; construction of
// repositories and services happens in cmd/server.
type Dependencies struct {
	Catalog   ports.CatalogService
	Cart      ports.CartService
	Auth      ports.AuthService
	Analytics ports.AnalyticsService
	Recorder  ports.AnalyticsRecorder
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Catalog, deps.Recorder)
	cartHandler := handler.NewCartHandler(deps.Cart, deps.Catalog)
	adminHandler := handler.NewAdminHandler(deps.Catalog, deps.Auth)
	analyticsHandler := handler.NewAnalyticsHandler(deps.Analytics)

	requireAuth := middleware.Auth(deps.JWTSecret)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog browsing (anonymous allowed, priced at base) ---
	browse := e.Group("/v1", optionalAuth)
	browse.GET("/products", productHandler.List)
	browse.GET("/products/:id", productHandler.Get)
	browse.GET("/categories", productHandler.Categories)

	// --- Cart (authenticated) ---
	cart := e.Group("/v1/cart", requireAuth)
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.AddItem)
	cart.PUT("/items/:product_id", cartHandler.SetQuantity)
	cart.DELETE("/items/:product_id", cartHandler.RemoveItem)
	cart.POST("/checkout", cartHandler.Checkout)

	// --- Admin ---
	admin := e.Group("/v1/admin", requireAuth, adminOnly)
	admin.POST("/products/import", adminHandler.Import)
	admin.PATCH("/products/:id", adminHandler.Update)
	admin.DELETE("/products/:id", adminHandler.Delete)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/analytics/products", analyticsHandler.ProductViews)
	admin.GET("/analytics/roles", analyticsHandler.Roles)
	admin.GET("/analytics/sales", analyticsHandler.Sales)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
