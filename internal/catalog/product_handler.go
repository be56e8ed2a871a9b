package catalog

import (
	"errors"

	"mart-backend/internal/ledger"
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name              string          `json:"name"`
	Barcode           *string         `json:"barcode"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	CategoryID        uint            `json:"category_id"`
	SupplierID        uint            `json:"supplier_id"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Barcode           *string          `json:"barcode"`
	Price             *decimal.Decimal `json:"price"`
	CategoryID        *uint            `json:"category_id"`
	SupplierID        *uint            `json:"supplier_id"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

type StockUpdateRequest struct {
	Quantity int `json:"quantity"`
}

type ProductResponse struct {
	ID                uint            `json:"product_id"`
	Name              string          `json:"name"`
	Barcode           *string         `json:"barcode"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Category          string          `json:"category"`
	Supplier          string          `json:"supplier"`
}

// GET /api/products
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := db.
			Preload("Category").
			Preload("Supplier").
			Order("id").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, ProductResponse{
				ID:                p.ID,
				Name:              p.Name,
				Barcode:           p.Barcode,
				Price:             p.Price,
				StockQuantity:     p.StockQuantity,
				LowStockThreshold: p.LowStockThreshold,
				Category:          p.Category.Name,
				Supplier:          p.Supplier.Name,
			})
		}

		return c.JSON(fiber.Map{"products": resp})
	}
}

// POST /api/products
// The initial stock quantity is the only stock write outside the ledger;
// after creation every change goes through ledger primitives.
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
		}
		if body.StockQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock quantity must not be negative")
		}

		var category models.Category
		if err := db.First(&category, body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}
		var supplier models.Supplier
		if err := db.First(&supplier, body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Supplier not found")
		}

		threshold := 10
		if body.LowStockThreshold != nil {
			if *body.LowStockThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Low stock threshold must not be negative")
			}
			threshold = *body.LowStockThreshold
		}

		product := models.Product{
			Name:              body.Name,
			Barcode:           body.Barcode,
			Price:             body.Price,
			StockQuantity:     body.StockQuantity,
			LowStockThreshold: threshold,
			CategoryID:        body.CategoryID,
			SupplierID:        body.SupplierID,
		}

		if err := db.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":    "Product added successfully",
			"product_id": product.ID,
		})
	}
}

// PUT /api/products/:id
// Never touches stock_quantity; stock moves only through the ledger.
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load product")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name must not be empty")
			}
			updates["name"] = *body.Name
		}
		if body.Barcode != nil {
			updates["barcode"] = *body.Barcode
		}
		if body.Price != nil {
			if body.Price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
			}
			updates["price"] = *body.Price
		}
		if body.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			updates["category_id"] = *body.CategoryID
		}
		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := db.First(&supplier, *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Supplier not found")
			}
			updates["supplier_id"] = *body.SupplierID
		}
		if body.LowStockThreshold != nil {
			if *body.LowStockThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Low stock threshold must not be negative")
			}
			updates["low_stock_threshold"] = *body.LowStockThreshold
		}

		if len(updates) == 0 {
			return c.JSON(fiber.Map{"message": "Nothing to update"})
		}

		if err := db.Model(&product).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be updated")
		}

		return c.JSON(fiber.Map{"message": "Product updated successfully"})
	}
}

// DELETE /api/products/:id
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		res := db.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		return c.JSON(fiber.Map{"message": "Product deleted successfully"})
	}
}

// PUT /api/products/:id/stock
// Manual restock. Routed through the ledger so the low-stock evaluation
// runs and stock can never be adjusted below zero.
func UpdateStockHandler(db *gorm.DB, led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var body StockUpdateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantity must be positive")
		}

		var newStock, threshold int
		err = db.Transaction(func(tx *gorm.DB) error {
			updated, err := led.Increment(tx, uint(id), body.Quantity)
			if err != nil {
				return err
			}
			newStock = updated
			threshold, _, err = led.Threshold(tx, uint(id))
			return err
		})
		if err != nil {
			var notFound *ledger.NotFoundError
			if errors.As(err, &notFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stock could not be updated")
		}

		return c.JSON(fiber.Map{
			"message":             "Stock updated successfully",
			"new_stock":           newStock,
			"low_stock_threshold": threshold,
			"below_threshold":     newStock <= threshold,
		})
	}
}
