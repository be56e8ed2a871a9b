package auth

import (
	"strings"

	"mart-backend/internal/config"
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register-admin
// Bootstrap endpoint: refused once an ADMIN employee exists.
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Name == "" || body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, username and password are required")
		}

		var count int64
		db.Model(&models.Employee{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "An admin already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		employee := models.Employee{
			Name:         body.Name,
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}

		if err := db.Create(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Employee could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"employee_id": employee.ID,
			"username":    employee.Username,
			"role":        employee.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var employee models.Employee
		if err := db.Where("LOWER(username) = ?", body.Username).First(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &employee)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be generated")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"employee": fiber.Map{
				"employee_id": employee.ID,
				"name":        employee.Name,
				"username":    employee.Username,
				"role":        employee.Role,
			},
			"message": "Welcome " + employee.Name + "!",
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		employeeIDVal := c.Locals(CtxEmployeeIDKey)
		employeeID, ok := employeeIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Employee information missing")
		}

		var employee models.Employee
		if err := db.First(&employee, employeeID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Employee not found")
		}

		return c.JSON(fiber.Map{
			"employee_id": employee.ID,
			"name":        employee.Name,
			"username":    employee.Username,
			"role":        employee.Role,
		})
	}
}
