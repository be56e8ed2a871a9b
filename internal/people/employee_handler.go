package people

import (
	"strings"

	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type EmployeeRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type EmployeeResponse struct {
	ID       uint   `json:"employee_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// GET /api/employees
func ListEmployeesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var employees []models.Employee
		if err := db.Order("name").Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list employees")
		}

		resp := make([]EmployeeResponse, 0, len(employees))
		for _, e := range employees {
			resp = append(resp, EmployeeResponse{
				ID:       e.ID,
				Name:     e.Name,
				Role:     string(e.Role),
				Username: e.Username,
			})
		}

		return c.JSON(fiber.Map{"employees": resp})
	}
}

// POST /api/employees
func CreateEmployeeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Name == "" || body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, username and password are required")
		}

		role := models.EmployeeRole(body.Role)
		if !role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Role must be one of ADMIN, CASHIER, MANAGER")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		employee := models.Employee{
			Name:         body.Name,
			Role:         role,
			Username:     body.Username,
			PasswordHash: string(hash),
		}
		if err := db.Create(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Employee could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "Employee added successfully",
			"employee_id": employee.ID,
		})
	}
}
