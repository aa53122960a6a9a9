package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/config"
	"github.com/ismailgltknn/shoppin/models"
	"github.com/ismailgltknn/shoppin/utils"
)

type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register - POST /api/register
// New accounts always start as customers.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := map[string]string{}
	if req.Name == "" {
		errs["name"] = "The name field is required."
	} else if len(req.Name) > 32 {
		errs["name"] = "The name may not be greater than 32 characters."
	}

	if req.Email == "" {
		errs["email"] = "The email field is required."
	} else if len(req.Email) > 64 {
		errs["email"] = "The email may not be greater than 64 characters."
	} else if !validEmail(req.Email) {
		errs["email"] = "Please enter a valid email address."
	} else {
		var count int64
		h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			errs["email"] = "This email address is already in use."
		}
	}

	if req.Password == "" {
		errs["password"] = "The password field is required."
	} else if len(req.Password) < 8 {
		errs["password"] = "The password must be at least 8 characters."
	} else if req.Password != req.PasswordConfirmation {
		errs["password"] = "The password confirmation does not match."
	}

	if len(errs) > 0 {
		return validationError(c, errs)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Could not hash password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not register"})
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     models.RoleCustomer,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("Could not create user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not register"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful"})
}

// Login - POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := map[string]string{}
	if req.Email == "" {
		errs["email"] = "The email field is required."
	}
	if req.Password == "" {
		errs["password"] = "The password field is required."
	}
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "These credentials do not match our records."})
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "These credentials do not match our records."})
	}

	token, err := utils.GenerateToken(&user, h.Cfg.JWTExpiration)
	if err != nil {
		log.Printf("Could not sign token for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not login"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout - POST /api/logout
// Bearer tokens are stateless; the client discards its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Me - GET /api/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch user"})
	}

	return c.JSON(fiber.Map{
		"id":               user.ID,
		"name":             user.Name,
		"email":            user.Email,
		"shipping_address": user.ShippingAddress,
		"billing_address":  user.BillingAddress,
		"role":             user.Role,
	})
}
