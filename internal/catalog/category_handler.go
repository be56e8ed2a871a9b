package catalog

import (
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          uint   `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GET /api/categories
func ListCategoriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		resp := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			resp = append(resp, CategoryResponse{ID: cat.ID, Name: cat.Name, Description: cat.Description})
		}

		return c.JSON(fiber.Map{"categories": resp})
	}
}

// POST /api/categories
func CreateCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		category := models.Category{Name: body.Name, Description: body.Description}
		if err := db.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Category could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "Category added successfully",
			"category_id": category.ID,
		})
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		res := db.Model(&models.Category{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        body.Name,
			"description": body.Description,
		})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Category could not be updated")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		return c.JSON(fiber.Map{"message": "Category updated successfully"})
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
		}

		res := db.Delete(&models.Category{}, id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Category could not be deleted")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		return c.JSON(fiber.Map{"message": "Category deleted successfully"})
	}
}
