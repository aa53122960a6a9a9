package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/config"
	"github.com/ismailgltknn/shoppin/handlers"
	"github.com/ismailgltknn/shoppin/middleware"
	"github.com/ismailgltknn/shoppin/models"
	"github.com/ismailgltknn/shoppin/utils"
)

func main() {
	cfg := config.LoadConfig()

	db := config.ConnectDatabase(cfg)

	if cfg.ResetDB {
		if err := config.ResetAndMigrate(db); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
	} else {
		if err := config.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "Shoppin API",
		ServerHeader: "Shoppin Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app, cfg)

	// Uploaded product images
	app.Static("/uploads", "./uploads")

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	setupRoutes(app, db, cfg)

	middleware.SetupErrorHandler(app)

	log.Printf("Server starting on host %s in port %s", cfg.HOST, cfg.AppPort)

	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	adminUserHandler := handlers.NewAdminUserHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	productHandler := handlers.NewProductHandler(db)
	cartHandler := handlers.NewCartHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)
	uploadHandler := handlers.NewUploadHandler()

	api := app.Group("/api")

	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Everything below requires a valid bearer token
	api.Use(utils.AuthMiddleware)

	api.Post("/logout", authHandler.Logout)
	api.Get("/me", authHandler.Me)
	api.Put("/user/profile", userHandler.UpdateProfile)

	api.Get("/categories", categoryHandler.ListCategories)

	// Cart routes
	api.Get("/cart", cartHandler.GetCart)
	api.Post("/cart", cartHandler.AddItem)
	api.Put("/cart/:productId", cartHandler.UpdateItem)
	api.Delete("/cart/:productId", cartHandler.RemoveItem)
	api.Delete("/cart", cartHandler.ClearCart)

	// Order routes
	api.Get("/orders", orderHandler.ListOrders)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Post("/orders", orderHandler.PlaceOrder)

	// Catalog routes
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Product CRUD, uploads and the dashboard for admin and seller roles
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleSeller)
	api.Post("/products", staffOnly, productHandler.CreateProduct)
	api.Put("/products/:id", staffOnly, productHandler.UpdateProduct)
	api.Delete("/products/:id", staffOnly, productHandler.DeleteProduct)
	api.Post("/upload", staffOnly, uploadHandler.UploadImage)
	api.Get("/admin/dashboard/stats", staffOnly, dashboardHandler.GetStats)

	// User management for the admin role
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	api.Get("/admin/users", adminOnly, adminUserHandler.ListUsers)
	api.Post("/admin/users", adminOnly, adminUserHandler.CreateUser)
	api.Put("/admin/users/:id", adminOnly, adminUserHandler.UpdateUser)
	api.Delete("/admin/users/:id", adminOnly, adminUserHandler.DeleteUser)
}
