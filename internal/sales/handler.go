package sales

import (
	"errors"

	"mart-backend/internal/ledger"
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items"`
	PaymentMethod string            `json:"payment_method"`
	CustomerID    *uint             `json:"customer_id"`
	EmployeeID    uint              `json:"employee_id"`
}

type SaleSummaryResponse struct {
	ID            uint            `json:"sale_id"`
	SaleTime      string          `json:"sale_time"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Customer      *string         `json:"customer"`
	Employee      string          `json:"employee"`
}

type SaleLineResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func mapCoreError(err error) error {
	var notFound *ledger.NotFoundError
	var insufficient *ledger.InsufficientStockError
	var validation *ledger.ValidationError

	switch {
	case errors.As(err, &notFound):
		return fiber.NewError(fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &insufficient):
		return fiber.NewError(fiber.StatusConflict, insufficient.Error())
	case errors.As(err, &validation):
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Sale could not be completed")
	}
}

// POST /api/sales
func CreateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		items := make([]CartItem, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		sale, err := svc.CreateSale(c.UserContext(), CreateSaleInput{
			Items:         items,
			PaymentMethod: models.PaymentMethod(body.PaymentMethod),
			EmployeeID:    body.EmployeeID,
			CustomerID:    body.CustomerID,
		})
		if err != nil {
			return mapCoreError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Sale completed successfully",
			"sale_id": sale.ID,
			"total":   sale.TotalAmount,
		})
	}
}

// GET /api/sales
func ListSalesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 500 {
			limit = 50
		}

		var sales []models.Sale
		if err := db.
			Preload("Customer").
			Preload("Employee").
			Order("sale_time DESC").
			Limit(limit).
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		resp := make([]SaleSummaryResponse, 0, len(sales))
		for _, s := range sales {
			item := SaleSummaryResponse{
				ID:            s.ID,
				SaleTime:      s.SaleTime.Format("2006-01-02 15:04:05"),
				TotalAmount:   s.TotalAmount,
				PaymentMethod: string(s.PaymentMethod),
				Employee:      s.Employee.Name,
			}
			if s.Customer != nil {
				item.Customer = &s.Customer.Name
			}
			resp = append(resp, item)
		}

		return c.JSON(fiber.Map{"sales": resp})
	}
}

// GET /api/sales/:id
func GetSaleDetailsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		var sale models.Sale
		if err := db.Preload("Items.Product").First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sale not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sale")
		}

		items := make([]SaleLineResponse, 0, len(sale.Items))
		for _, it := range sale.Items {
			items = append(items, SaleLineResponse{
				ProductID:   it.ProductID,
				ProductName: it.Product.Name,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal,
			})
		}

		return c.JSON(fiber.Map{"items": items})
	}
}
