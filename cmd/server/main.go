package main

import (
	"log"
	"strings"

	"mart-backend/internal/auth"
	"mart-backend/internal/catalog"
	"mart-backend/internal/config"
	"mart-backend/internal/database"
	"mart-backend/internal/ledger"
	"mart-backend/internal/models"
	"mart-backend/internal/notify"
	"mart-backend/internal/people"
	"mart-backend/internal/purchasing"
	"mart-backend/internal/reports"
	"mart-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database connected, migration complete")

	notifier := notify.NewNotifier()
	stockLedger := ledger.New(notifier)
	saleService := sales.NewService(db, stockLedger)
	purchaseService := purchasing.NewService(db, stockLedger)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Role guards are applied per route; a group-level Use on the shared
	// /api prefix would leak onto routes registered afterwards.
	manage := auth.RequireRole(models.RoleAdmin, models.RoleManager)
	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Catalog
	protected.Get("/products", catalog.ListProductsHandler(db))
	protected.Post("/products", manage, catalog.CreateProductHandler(db))
	protected.Put("/products/:id", manage, catalog.UpdateProductHandler(db))
	protected.Delete("/products/:id", manage, catalog.DeleteProductHandler(db))
	protected.Put("/products/:id/stock", manage, catalog.UpdateStockHandler(db, stockLedger))
	protected.Get("/categories", catalog.ListCategoriesHandler(db))
	protected.Post("/categories", manage, catalog.CreateCategoryHandler(db))
	protected.Put("/categories/:id", manage, catalog.UpdateCategoryHandler(db))
	protected.Delete("/categories/:id", manage, catalog.DeleteCategoryHandler(db))
	protected.Get("/suppliers", catalog.ListSuppliersHandler(db))
	protected.Post("/suppliers", manage, catalog.CreateSupplierHandler(db))
	protected.Put("/suppliers/:id", manage, catalog.UpdateSupplierHandler(db))
	protected.Delete("/suppliers/:id", manage, catalog.DeleteSupplierHandler(db))

	// Sales
	protected.Post("/sales", sales.CreateSaleHandler(saleService))
	protected.Get("/sales", sales.ListSalesHandler(db))
	protected.Get("/sales/:id", sales.GetSaleDetailsHandler(db))

	// Purchase orders
	protected.Post("/purchase-orders", manage, purchasing.CreatePurchaseOrderHandler(purchaseService))
	protected.Get("/purchase-orders", purchasing.ListPurchaseOrdersHandler(db))
	protected.Get("/purchase-orders/:id", purchasing.GetPurchaseOrderHandler(db))
	protected.Put("/purchase-orders/:id/receive", manage, purchasing.ReceivePurchaseOrderHandler(purchaseService))

	// People
	protected.Get("/customers", people.ListCustomersHandler(db))
	protected.Post("/customers", people.CreateCustomerHandler(db))
	protected.Get("/employees", people.ListEmployeesHandler(db))
	protected.Post("/employees", adminOnly, people.CreateEmployeeHandler(db))

	// Notifications
	protected.Get("/notifications", notify.ListNotificationsHandler(db))
	protected.Put("/notifications/:id", notify.MarkNotificationReadHandler(db))

	// Reports
	protected.Get("/dashboard/stats", reports.DashboardStatsHandler(db))
	protected.Get("/reports/sales-by-date", reports.SalesByDateHandler(db))
	protected.Get("/reports/category-sales", reports.CategorySalesHandler(db))
	protected.Get("/reports/top-products", reports.TopProductsHandler(db))

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
