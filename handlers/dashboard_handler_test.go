package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismailgltknn/shoppin/models"
)

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	createTestUser(t, db, "customer@example.com", models.RoleCustomer)

	createTestProduct(t, db, "cheap", 10, 3)
	createTestProduct(t, db, "pricey", 20, 4)

	recent := &models.Order{
		UserID:      admin.ID,
		OrderStatus: models.OrderStatusProcessing,
		OrderDate:   time.Now(),
		TotalPrice:  decimal.NewFromInt(30),
	}
	require.NoError(t, db.Create(recent).Error)

	old := &models.Order{
		UserID:      admin.ID,
		OrderStatus: models.OrderStatusCompleted,
		OrderDate:   time.Now().AddDate(0, 0, -10),
		TotalPrice:  decimal.NewFromInt(80),
		CreatedAt:   time.Now().AddDate(0, 0, -10),
	}
	require.NoError(t, db.Create(old).Error)

	app := fiber.New()
	app.Use(authAs(admin))
	app.Get("/api/admin/dashboard/stats", NewDashboardHandler(db).GetStats)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/dashboard/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["totalProducts"])
	assert.Equal(t, float64(7), body["totalStock"])
	assert.Equal(t, float64(2), body["totalOrders"])
	assert.Equal(t, float64(2), body["totalUsers"])
	assert.Equal(t, float64(1), body["recentOrdersLast7Days"])

	// 3*10 + 4*20
	value, err := decimal.NewFromString(body["totalInventoryValue"].(string))
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(110)), "expected inventory value 110, got %s", value)
}
