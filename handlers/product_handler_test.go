package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
)

func newProductApp(db *gorm.DB, user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(authAs(user))

	h := NewProductHandler(db)
	app.Get("/api/products", h.ListProducts)
	app.Get("/api/products/:id", h.GetProduct)
	app.Post("/api/products", h.CreateProduct)
	app.Put("/api/products/:id", h.UpdateProduct)
	app.Delete("/api/products/:id", h.DeleteProduct)

	return app
}

func createTestCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

func linkCategory(t *testing.T, db *gorm.DB, product *models.Product, category *models.Category) {
	t.Helper()
	require.NoError(t, db.Model(product).Association("Categories").Replace(category))
}

func TestListProductsPaginatesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)

	for i := 0; i < 15; i++ {
		createTestProduct(t, db, fmt.Sprintf("item-%d", i), 10, 5)
	}

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 12)
	assert.Equal(t, float64(15), body["total"])
	assert.Equal(t, float64(2), body["last_page"])
	assert.Equal(t, float64(1), body["current_page"])
}

func TestListProductsFiltersByCategoryAndAnnotatesName(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)

	books := createTestCategory(t, db, "Books", "books")
	toys := createTestCategory(t, db, "Toys", "toys")

	novel := createTestProduct(t, db, "novel", 20, 5)
	linkCategory(t, db, novel, books)
	ball := createTestProduct(t, db, "ball", 5, 5)
	linkCategory(t, db, ball, toys)

	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		fmt.Sprintf("/api/products?category_id=%d", books.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	item := data[0].(map[string]interface{})
	assert.Equal(t, float64(novel.ID), item["id"])
	assert.Equal(t, "Books", item["ct_name"])
}

func TestGetProductNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "shopper@example.com", models.RoleCustomer)
	app := newProductApp(db, user)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products/12345", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)
	category := createTestCategory(t, db, "Books", "books")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/products", fiber.Map{
		"name":        "Go in Practice",
		"slug":        "go-in-practice",
		"description": "A very practical book",
		"price":       "49.90",
		"stock":       12,
		"category_id": category.ID,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	require.NoError(t, db.Preload("Categories").Where("slug = ?", "go-in-practice").First(&product).Error)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("49.90")))
	assert.Equal(t, 12, product.Stock)
	require.Len(t, product.Categories, 1)
	assert.Equal(t, category.ID, product.Categories[0].ID)
}

func TestCreateProductValidation(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)
	category := createTestCategory(t, db, "Books", "books")
	createTestProduct(t, db, "taken-slug", 10, 1)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/products", fiber.Map{
		"name":        "",
		"slug":        "taken-slug",
		"price":       "-5",
		"stock":       -1,
		"category_id": category.ID,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "slug")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
}

func TestCreateProductUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/products", fiber.Map{
		"name":        "Orphan",
		"slug":        "orphan",
		"price":       "10",
		"stock":       1,
		"category_id": 777,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "category_id")
}

func TestUpdateProductReplacesCategory(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)

	books := createTestCategory(t, db, "Books", "books")
	toys := createTestCategory(t, db, "Toys", "toys")
	product := createTestProduct(t, db, "thing", 10, 5)
	linkCategory(t, db, product, books)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), fiber.Map{
		"name":        "Thing v2",
		"slug":        "thing", // unchanged slug must not trip the uniqueness check
		"price":       "15",
		"stock":       8,
		"category_id": toys.ID,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Product
	require.NoError(t, db.Preload("Categories").First(&updated, product.ID).Error)
	assert.Equal(t, "Thing v2", updated.Name)
	assert.Equal(t, 8, updated.Stock)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, toys.ID, updated.Categories[0].ID, "category assignment is set-replace")
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller@example.com", models.RoleSeller)
	app := newProductApp(db, seller)
	product := createTestProduct(t, db, "short-lived", 10, 5)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var gone models.Product
	err = db.First(&gone, product.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
