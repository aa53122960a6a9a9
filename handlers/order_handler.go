package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
)

// OrderHandler converts pending carts into confirmed orders and serves
// the purchase history.
type OrderHandler struct {
	DB *gorm.DB
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{DB: db}
}

type PlaceOrderRequest struct {
	ShippingAddress string  `json:"shipping_address"`
	BillingAddress  *string `json:"billing_address"`
}

// ListOrders - GET /api/orders
// Purchase history only: the pending cart never shows up here.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	page, perPage := pageParams(c, 10)

	base := h.DB.Model(&models.Order{}).
		Where("user_id = ? AND order_status != ?", userID, models.OrderStatusPending)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		log.Printf("Could not count orders for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch orders"})
	}

	var orders []models.Order
	if err := h.DB.Where("user_id = ? AND order_status != ?", userID, models.OrderStatusPending).
		Order("order_date desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Preload("OrderItems.Product").
		Find(&orders).Error; err != nil {
		log.Printf("Could not fetch orders for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch orders"})
	}

	return c.JSON(models.NewPaginatedResponse(orders, page, perPage, total))
}

// GetOrder - GET /api/orders/:id
// Anything outside the owner's non-pending scope is a uniform 404 so the
// endpoint never confirms that a foreign order id exists.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found."})
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ? AND order_status != ?", id, userID, models.OrderStatusPending).
		Preload("OrderItems.Product").
		First(&order).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found."})
	}

	return c.JSON(order)
}

// PlaceOrder - POST /api/orders
// Checkout: verify every line against live stock, transition the pending
// order to processing and decrement inventory, all in one transaction.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := map[string]string{}
	if req.ShippingAddress == "" {
		errs["shipping_address"] = "The shipping address field is required."
	} else if len(req.ShippingAddress) > 500 {
		errs["shipping_address"] = "The shipping address may not be greater than 500 characters."
	}
	if req.BillingAddress != nil && len(*req.BillingAddress) > 500 {
		errs["billing_address"] = "The billing address may not be greater than 500 characters."
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	var cart models.Order
	err := h.DB.Where("user_id = ? AND order_status = ?", userID, models.OrderStatusPending).
		Preload("OrderItems").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.OrderItems) == 0) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Your cart is empty or could not be found."})
	}
	if err != nil {
		log.Printf("Could not load cart for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Your order could not be created. Please try again."})
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil && *req.BillingAddress != "" {
		billing = *req.BillingAddress
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// Stock checks read live rows without locking them, so two
		// concurrent checkouts can both pass before either commits.
		// The store's isolation level is the only protection here.
		total := decimal.Zero
		for i := range cart.OrderItems {
			item := &cart.OrderItems[i]

			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return &stockError{message: fmt.Sprintf(
					"Sorry, there is not enough stock for %s. Available stock: %d", product.Name, product.Stock)}
			}

			total = total.Add(item.LineTotal())
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
			"order_status":     models.OrderStatusProcessing,
			"order_date":       time.Now(),
			"shipping_address": req.ShippingAddress,
			"billing_address":  billing,
			"total_price":      total,
		}).Error; err != nil {
			return err
		}

		for i := range cart.OrderItems {
			item := &cart.OrderItems[i]
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		return nil
	})

	var se *stockError
	if errors.As(err, &se) {
		return stockErrorResponse(c, se)
	}
	if err != nil {
		log.Printf("Could not place order for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Your order could not be created. Please try again."})
	}

	return c.JSON(fiber.Map{
		"message": "Your order has been placed successfully!",
		"orderId": cart.ID,
	})
}
