package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/config"
	"github.com/example/neelam/internal/handlers"
	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/services"
)

// NewApp builds the fiber application with the shared error handler.
// Handler errors come back as a JSON body instead of fiber's plain
// text default.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName: "House of Neelam Backend",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"message": message})
		},
	})
}

// Register wires every endpoint under /api. The payment gateway is
// injected so tests can substitute a fake provider.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, gateway services.Gateway) {
	auth := middleware.NewSessionAuth(db)

	analytics := services.NewAnalyticsService(db)
	payments := services.NewPaymentService(db, gateway, cfg.RazorpayKeyID, cfg.RazorpayCurrency)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	adminHandler := handlers.NewAdminHandler(db, analytics)
	paymentHandler := handlers.NewPaymentHandler(payments)
	reviewHandler := handlers.NewReviewHandler(db)
	wishlistHandler := handlers.NewWishlistHandler(db)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "House of Neelam API", "status": "ok"})
	})

	// Auth. The admin login route must be registered before the
	// admin group so it is matched without the admin guard.
	api.Post("/admin/login", authHandler.AdminLogin)
	api.Get("/auth/session", authHandler.OAuthSession)
	api.Post("/auth/guest", authHandler.GuestLogin)
	api.Get("/auth/me", auth.RequireUser(), authHandler.Me)
	api.Post("/auth/logout", authHandler.Logout)

	// Catalog. Static product routes precede the :id parameter route.
	api.Get("/products", productHandler.List)
	api.Get("/products/search", productHandler.Search)
	api.Get("/products/enhanced", productHandler.ListEnhanced)
	api.Get("/products/:id", productHandler.Get)
	api.Get("/categories", categoryHandler.List)

	// Reviews.
	api.Post("/reviews", auth.RequireUser(), reviewHandler.Create)
	api.Get("/reviews/:product_id", reviewHandler.ListForProduct)

	// Orders. Creation and single-order lookup work for guests too,
	// so they only load the user instead of requiring one.
	api.Post("/orders", auth.LoadUser(), orderHandler.Create)
	api.Get("/orders", auth.RequireUser(), orderHandler.List)
	api.Get("/orders/:id", auth.LoadUser(), orderHandler.Get)

	// Payments.
	api.Post("/razorpay/create-order", paymentHandler.CreateOrder)
	api.Post("/razorpay/verify", paymentHandler.Verify)
	api.Get("/razorpay/status/:razorpay_order_id", paymentHandler.Status)

	// Wishlist.
	wishlist := api.Group("/wishlist", auth.RequireUser())
	wishlist.Get("/", wishlistHandler.List)
	wishlist.Post("/add", wishlistHandler.Add)
	wishlist.Delete("/remove/:product_id", wishlistHandler.Remove)

	// Admin.
	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/dashboard/stats", adminHandler.DashboardStats)
	admin.Get("/orders", adminHandler.ListOrders)
	admin.Get("/orders/filter", adminHandler.FilterOrders)
	admin.Put("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/customers", adminHandler.ListCustomers)
	admin.Get("/customers/:id/orders", adminHandler.CustomerOrders)
	admin.Get("/analytics/overview", adminHandler.AnalyticsOverview)

	admin.Post("/products", productHandler.Create)
	admin.Put("/products/:id", productHandler.Update)
	admin.Delete("/products/:id", productHandler.Delete)

	admin.Post("/categories", categoryHandler.Create)
	admin.Put("/categories/:id", categoryHandler.Update)
	admin.Delete("/categories/:id", categoryHandler.Delete)
}
