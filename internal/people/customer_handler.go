package people

import (
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type CustomerResponse struct {
	ID    uint    `json:"customer_id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// GET /api/customers
func ListCustomersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customers []models.Customer
		if err := db.Order("name").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for _, cust := range customers {
			resp = append(resp, CustomerResponse{
				ID:    cust.ID,
				Name:  cust.Name,
				Phone: cust.Phone,
				Email: cust.Email,
			})
		}

		return c.JSON(fiber.Map{"customers": resp})
	}
}

// POST /api/customers
func CreateCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		customer := models.Customer{Name: body.Name, Phone: body.Phone, Email: body.Email}
		if err := db.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customer could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "Customer added successfully",
			"customer_id": customer.ID,
		})
	}
}
