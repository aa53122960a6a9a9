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

// CartHandler manages the user's cart, stored as the single "pending"
// order with its line items.
type CartHandler struct {
	DB *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{DB: db}
}

type AddItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart - GET /api/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var order models.Order
	err := h.DB.Where("user_id = ? AND order_status = ?", userID, models.OrderStatusPending).
		Preload("OrderItems.Product").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON([]fiber.Map{})
	}
	if err != nil {
		log.Printf("Could not fetch cart for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch cart"})
	}

	items := make([]fiber.Map, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, fiber.Map{
			"productId": item.ProductID,
			"name":      item.Product.Name,
			"price":     item.UnitPrice,
			"image":     item.Product.Image,
			"quantity":  item.Quantity,
		})
	}

	return c.JSON(items)
}

// AddItem - POST /api/cart
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := map[string]string{}
	if req.ProductID == 0 {
		errs["productId"] = "The productId field is required."
	}
	if req.Quantity < 1 {
		errs["quantity"] = "Quantity must be at least 1."
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		return validationError(c, map[string]string{"productId": "The selected product does not exist."})
	}

	var cartID uint
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		cart := models.Order{
			UserID:      userID,
			OrderStatus: models.OrderStatusPending,
		}
		if err := tx.Where(models.Order{UserID: userID, OrderStatus: models.OrderStatusPending}).
			Attrs(models.Order{OrderDate: time.Now(), TotalPrice: decimal.Zero}).
			FirstOrCreate(&cart).Error; err != nil {
			return err
		}
		cartID = cart.ID

		if product.Stock < req.Quantity {
			return &stockError{message: fmt.Sprintf("Insufficient stock! Available stock: %d", product.Stock)}
		}

		var item models.OrderItem
		err := tx.Where("order_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += req.Quantity
			if product.Stock < item.Quantity {
				return &stockError{message: fmt.Sprintf(
					"Insufficient stock! Together with the quantity already in your cart this product cannot exceed %d units.", product.Stock)}
			}
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.OrderItem{
				OrderID:   cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeCartTotal(tx, cart.ID)
	})

	var se *stockError
	if errors.As(err, &se) {
		return stockErrorResponse(c, se)
	}
	if err != nil {
		log.Printf("Could not add product %d to cart for user %d: %v", req.ProductID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not add product to cart"})
	}

	return h.respondWithCart(c, cartID)
}

// UpdateItem - PUT /api/cart/:productId
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found in cart"})
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}
	if req.Quantity < 1 {
		return validationError(c, map[string]string{"quantity": "Quantity must be at least 1."})
	}

	var cart models.Order
	if err := h.DB.Where("user_id = ? AND order_status = ?", userID, models.OrderStatusPending).
		First(&cart).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart not found"})
	}

	var item models.OrderItem
	if err := h.DB.Where("order_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found in cart"})
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if product.Stock < req.Quantity {
			return &stockError{message: fmt.Sprintf("Insufficient stock! Available stock: %d", product.Stock)}
		}

		item.Quantity = req.Quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		return recomputeCartTotal(tx, cart.ID)
	})

	var se *stockError
	if errors.As(err, &se) {
		return stockErrorResponse(c, se)
	}
	if err != nil {
		log.Printf("Could not update cart item for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update quantity"})
	}

	return h.respondWithCart(c, cart.ID)
}

// RemoveItem - DELETE /api/cart/:productId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found in cart"})
	}

	var cart models.Order
	if err := h.DB.Where("user_id = ? AND order_status = ?", userID, models.OrderStatusPending).
		First(&cart).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart not found"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ? AND product_id = ?", cart.ID, productID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return recomputeCartTotal(tx, cart.ID)
	})
	if err != nil {
		log.Printf("Could not remove cart item for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not remove product from cart"})
	}

	return h.respondWithCart(c, cart.ID)
}

// ClearCart - DELETE /api/cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var cart models.Order
	err := h.DB.Where("user_id = ? AND order_status = ?", userID, models.OrderStatusPending).
		First(&cart).Error
	if err == nil {
		err = h.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", cart.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).Where("id = ?", cart.ID).
				Update("total_price", decimal.Zero).Error
		})
		if err != nil {
			log.Printf("Could not clear cart for user %d: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not clear cart"})
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Could not load cart for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not clear cart"})
	}

	return c.JSON(fiber.Map{"message": "Cart cleared."})
}

// recomputeCartTotal rewrites the order total from its current lines.
// Runs after every cart mutation so the stored total never drifts.
func recomputeCartTotal(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}

	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total_price", total).Error
}

func (h *CartHandler) respondWithCart(c *fiber.Ctx, orderID uint) error {
	var cart models.Order
	if err := h.DB.Preload("OrderItems.Product").First(&cart, orderID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch cart"})
	}
	return c.JSON(cart)
}
