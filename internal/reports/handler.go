package reports

import (
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type dashboardStats struct {
	TotalProducts int64           `json:"total_products"`
	TotalSales    int64           `json:"total_sales"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	LowStockCount int64           `json:"low_stock_count"`
	TodaySales    decimal.Decimal `json:"today_sales"`
}

// GET /api/dashboard/stats
func DashboardStatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stats dashboardStats

		if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard stats")
		}
		if err := db.Model(&models.Sale{}).Count(&stats.TotalSales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard stats")
		}
		var revenue struct{ Total decimal.Decimal }
		if err := db.Raw("SELECT COALESCE(SUM(total_amount), 0) AS total FROM sales").
			Scan(&revenue).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard stats")
		}
		stats.TotalRevenue = revenue.Total
		if err := db.Model(&models.Product{}).
			Where("stock_quantity <= low_stock_threshold").
			Count(&stats.LowStockCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard stats")
		}
		var today struct{ Total decimal.Decimal }
		if err := db.Raw(`
			SELECT COALESCE(SUM(total_amount), 0) AS total
			FROM sales
			WHERE DATE(sale_time) = CURRENT_DATE
		`).Scan(&today).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard stats")
		}
		stats.TodaySales = today.Total

		return c.JSON(stats)
	}
}

type salesByDateRow struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// GET /api/reports/sales-by-date?days=7
func SalesByDateHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 7)
		if days <= 0 || days > 365 {
			days = 7
		}

		var rows []salesByDateRow
		if err := db.Raw(`
			SELECT TO_CHAR(DATE(sale_time), 'YYYY-MM-DD') AS date, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total
			FROM sales
			WHERE sale_time >= CURRENT_DATE - CAST(? || ' days' AS INTERVAL)
			GROUP BY DATE(sale_time)
			ORDER BY date ASC
		`, days).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute sales by date")
		}

		return c.JSON(fiber.Map{"sales_by_date": rows})
	}
}

type categorySalesRow struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

// GET /api/reports/category-sales
func CategorySalesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []categorySalesRow
		if err := db.Raw(`
			SELECT c.name AS category, SUM(si.subtotal) AS value
			FROM categories c
			JOIN products p ON c.id = p.category_id
			JOIN sale_items si ON p.id = si.product_id
			GROUP BY c.id, c.name
			HAVING SUM(si.subtotal) > 0
			ORDER BY value DESC
		`).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute category sales")
		}

		return c.JSON(fiber.Map{"category_sales": rows})
	}
}

type topProductRow struct {
	Product  string          `json:"product"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// GET /api/reports/top-products?limit=5
func TopProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 5)
		if limit <= 0 || limit > 100 {
			limit = 5
		}

		var rows []topProductRow
		if err := db.Raw(`
			SELECT p.name AS product, SUM(si.quantity) AS quantity, SUM(si.subtotal) AS revenue
			FROM products p
			JOIN sale_items si ON p.id = si.product_id
			GROUP BY p.id, p.name
			ORDER BY revenue DESC
			LIMIT ?
		`, limit).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute top products")
		}

		return c.JSON(fiber.Map{"top_products": rows})
	}
}
