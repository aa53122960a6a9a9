package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
)

// DashboardHandler serves the admin panel's aggregate counters.
type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// GetStats - GET /api/admin/dashboard/stats (admin|seller)
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	var (
		totalProducts int64
		totalOrders   int64
		totalUsers    int64
		recentOrders  int64
	)

	if err := h.DB.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return h.statsError(c, err)
	}
	if err := h.DB.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return h.statsError(c, err)
	}
	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return h.statsError(c, err)
	}
	if err := h.DB.Model(&models.Order{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -7)).
		Count(&recentOrders).Error; err != nil {
		return h.statsError(c, err)
	}

	var totalStock int64
	row := h.DB.Model(&models.Product{}).Select("COALESCE(SUM(stock), 0)").Row()
	if err := row.Scan(&totalStock); err != nil {
		return h.statsError(c, err)
	}

	var inventoryValue decimal.Decimal
	row = h.DB.Model(&models.Product{}).Select("COALESCE(SUM(price * stock), 0)").Row()
	if err := row.Scan(&inventoryValue); err != nil {
		return h.statsError(c, err)
	}

	return c.JSON(fiber.Map{
		"totalProducts":         totalProducts,
		"totalStock":            totalStock,
		"totalOrders":           totalOrders,
		"totalUsers":            totalUsers,
		"recentOrdersLast7Days": recentOrders,
		"totalInventoryValue":   inventoryValue,
	})
}

func (h *DashboardHandler) statsError(c *fiber.Ctx, err error) error {
	log.Printf("Could not compute dashboard stats: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch stats"})
}
