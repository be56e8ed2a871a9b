package catalog

import (
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupplierRequest struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address string  `json:"address"`
}

type SupplierResponse struct {
	ID      uint    `json:"supplier_id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address string  `json:"address"`
}

// GET /api/suppliers
func ListSuppliersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := db.Order("name").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			resp = append(resp, SupplierResponse{
				ID:      s.ID,
				Name:    s.Name,
				Phone:   s.Phone,
				Email:   s.Email,
				Address: s.Address,
			})
		}

		return c.JSON(fiber.Map{"suppliers": resp})
	}
}

// POST /api/suppliers
func CreateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		supplier := models.Supplier{
			Name:    body.Name,
			Phone:   body.Phone,
			Email:   body.Email,
			Address: body.Address,
		}
		if err := db.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "Supplier added successfully",
			"supplier_id": supplier.ID,
		})
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		res := db.Model(&models.Supplier{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":    body.Name,
			"phone":   body.Phone,
			"email":   body.Email,
			"address": body.Address,
		})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be updated")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		return c.JSON(fiber.Map{"message": "Supplier updated successfully"})
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		res := db.Delete(&models.Supplier{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Supplier could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		return c.JSON(fiber.Map{"message": "Supplier deleted successfully"})
	}
}
