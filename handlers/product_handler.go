package handlers

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
)

const productsPerPage = 12

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"category_id"`
	Image       *string         `json:"image"`
}

// ListProducts - GET /api/products
// Newest first, 12 per page, optionally filtered by category. Each item
// carries the name of its first category as ct_name.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	page, perPage := pageParams(c, productsPerPage)

	buildQuery := func() *gorm.DB {
		query := h.DB.Model(&models.Product{})
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.
				Joins("JOIN product_categories ON product_categories.product_id = products.id").
				Where("product_categories.category_id = ?", categoryID)
		}
		return query
	}

	var total int64
	if err := buildQuery().Count(&total).Error; err != nil {
		log.Printf("Could not count products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch products"})
	}

	var products []models.Product
	if err := buildQuery().
		Preload("Categories").
		Order("products.created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error; err != nil {
		log.Printf("Could not fetch products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch products"})
	}

	data := make([]fiber.Map, 0, len(products))
	for i := range products {
		data = append(data, formatProduct(&products[i]))
	}

	return c.JSON(models.NewPaginatedResponse(data, page, perPage, total))
}

// GetProduct - GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	}

	var product models.Product
	if err := h.DB.Preload("Categories").First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	}

	return c.JSON(formatProduct(&product))
}

// CreateProduct - POST /api/products (admin|seller)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	category, errs := h.validateProductRequest(&req, 0)
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	product := models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		log.Printf("Could not create product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not create product"})
	}

	// Category assignment is a set-replace: a product tracks exactly the
	// category chosen on the form.
	if err := h.DB.Model(&product).Association("Categories").Replace(category); err != nil {
		log.Printf("Could not assign category to product %d: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not create product"})
	}

	product.Categories = []models.Category{*category}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully.",
		"product": formatProduct(&product),
	})
}

// UpdateProduct - PUT /api/products/:id (admin|seller)
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	category, errs := h.validateProductRequest(&req, product.ID)
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	if req.Image != nil && (product.Image == nil || *req.Image != *product.Image) {
		removeStoredImage(product.Image)
		product.Image = req.Image
	}

	product.Name = req.Name
	product.Slug = req.Slug
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock

	if err := h.DB.Save(&product).Error; err != nil {
		log.Printf("Could not update product %d: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update product"})
	}

	if err := h.DB.Model(&product).Association("Categories").Replace(category); err != nil {
		log.Printf("Could not reassign category for product %d: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update product"})
	}

	product.Categories = []models.Category{*category}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully.",
		"product": formatProduct(&product),
	})
}

// DeleteProduct - DELETE /api/products/:id (admin|seller)
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	}

	removeStoredImage(product.Image)

	if err := h.DB.Delete(&product).Error; err != nil {
		log.Printf("Could not delete product %d: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully."})
}

func (h *ProductHandler) validateProductRequest(req *ProductRequest, ignoreID uint) (*models.Category, map[string]string) {
	errs := map[string]string{}

	if req.Name == "" {
		errs["name"] = "The name field is required."
	} else if len(req.Name) > 255 {
		errs["name"] = "The name may not be greater than 255 characters."
	}

	if req.Slug == "" {
		errs["slug"] = "The slug field is required."
	} else if len(req.Slug) > 255 {
		errs["slug"] = "The slug may not be greater than 255 characters."
	} else {
		var count int64
		query := h.DB.Model(&models.Product{}).Where("slug = ?", req.Slug)
		if ignoreID != 0 {
			query = query.Where("id != ?", ignoreID)
		}
		query.Count(&count)
		if count > 0 {
			errs["slug"] = "The slug has already been taken."
		}
	}

	if req.Price.IsNegative() {
		errs["price"] = "The price must be at least 0."
	}
	if req.Stock < 0 {
		errs["stock"] = "The stock must be at least 0."
	}

	var category models.Category
	if req.CategoryID == 0 {
		errs["category_id"] = "The category field is required."
	} else if err := h.DB.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs["category_id"] = "The selected category does not exist."
		} else {
			errs["category_id"] = "The category could not be verified."
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &category, nil
}

func formatProduct(product *models.Product) fiber.Map {
	var ctName *string
	var categoryID *uint
	if len(product.Categories) > 0 {
		ctName = &product.Categories[0].Name
		categoryID = &product.Categories[0].ID
	}

	return fiber.Map{
		"id":          product.ID,
		"name":        product.Name,
		"price":       product.Price,
		"image":       product.Image,
		"description": product.Description,
		"ct_name":     ctName,
		"stock":       product.Stock,
		"category_id": categoryID,
		"slug":        product.Slug,
	}
}

// removeStoredImage deletes a locally stored upload; external URLs are
// left alone.
func removeStoredImage(image *string) {
	if image == nil || !strings.HasPrefix(*image, "/uploads/") {
		return
	}
	if err := os.Remove("." + *image); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not remove stored image %s: %v", *image, err)
	}
}
