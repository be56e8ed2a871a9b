package purchasing

import (
	"errors"

	"mart-backend/internal/ledger"
	"mart-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderLineRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	SupplierID uint               `json:"supplier_id"`
	Items      []OrderLineRequest `json:"items"`
}

type OrderSummaryResponse struct {
	ID           uint   `json:"order_id"`
	OrderDate    string `json:"order_date"`
	Status       string `json:"status"`
	SupplierName string `json:"supplier_name"`
}

type OrderLineResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func mapCoreError(err error) error {
	var notFound *ledger.NotFoundError
	var invalidState *InvalidStateError
	var validation *ledger.ValidationError

	switch {
	case errors.As(err, &notFound):
		return fiber.NewError(fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &invalidState):
		return fiber.NewError(fiber.StatusConflict, invalidState.Error())
	case errors.As(err, &validation):
		return fiber.NewError(fiber.StatusBadRequest, validation.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Purchase order operation failed")
	}
}

// POST /api/purchase-orders
func CreatePurchaseOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		lines := make([]OrderLine, 0, len(body.Items))
		for _, it := range body.Items {
			lines = append(lines, OrderLine{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}

		order, err := svc.Create(c.UserContext(), CreateOrderInput{
			SupplierID: body.SupplierID,
			Lines:      lines,
		})
		if err != nil {
			return mapCoreError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  "Purchase order created successfully",
			"order_id": order.ID,
		})
	}
}

// GET /api/purchase-orders
func ListPurchaseOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.PurchaseOrder
		if err := db.
			Preload("Supplier").
			Order("order_date DESC").
			Limit(50).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list purchase orders")
		}

		resp := make([]OrderSummaryResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, OrderSummaryResponse{
				ID:           o.ID,
				OrderDate:    o.OrderDate.Format("2006-01-02"),
				Status:       string(o.Status),
				SupplierName: o.Supplier.Name,
			})
		}

		return c.JSON(fiber.Map{"purchase_orders": resp})
	}
}

// GET /api/purchase-orders/:id
func GetPurchaseOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var order models.PurchaseOrder
		if err := db.Preload("Items.Product").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load purchase order")
		}

		items := make([]OrderLineResponse, 0, len(order.Items))
		for _, it := range order.Items {
			items = append(items, OrderLineResponse{
				ProductID:   it.ProductID,
				ProductName: it.Product.Name,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			})
		}

		return c.JSON(fiber.Map{
			"order_id": order.ID,
			"status":   string(order.Status),
			"items":    items,
		})
	}
}

// PUT /api/purchase-orders/:id/receive
func ReceivePurchaseOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		order, err := svc.Receive(c.UserContext(), uint(id))
		if err != nil {
			return mapCoreError(err)
		}

		return c.JSON(fiber.Map{
			"message":  "Purchase order received and stock updated",
			"order_id": order.ID,
			"status":   string(order.Status),
		})
	}
}
