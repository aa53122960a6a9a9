package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
	"github.com/ismailgltknn/shoppin/utils"
)

// UserHandler covers self-service profile updates.
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

type UpdateProfileRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	ShippingAddress      *string `json:"shipping_address"`
	BillingAddress       *string `json:"billing_address"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	CurrentPassword      string  `json:"current_password"`
}

// UpdateProfile - PUT /api/user/profile
// Changing the password requires proving knowledge of the current one.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := map[string]string{}
	if req.Name == "" {
		errs["name"] = "The name field is required."
	} else if len(req.Name) > 255 {
		errs["name"] = "The name may not be greater than 255 characters."
	}

	if req.Email == "" {
		errs["email"] = "The email field is required."
	} else if !validEmail(req.Email) {
		errs["email"] = "Please enter a valid email address."
	} else {
		var count int64
		h.DB.Model(&models.User{}).Where("email = ? AND id != ?", req.Email, user.ID).Count(&count)
		if count > 0 {
			errs["email"] = "This email address is already in use."
		}
	}

	if req.ShippingAddress != nil && len(*req.ShippingAddress) > 1000 {
		errs["shipping_address"] = "The shipping address may not be greater than 1000 characters."
	}
	if req.BillingAddress != nil && len(*req.BillingAddress) > 1000 {
		errs["billing_address"] = "The billing address may not be greater than 1000 characters."
	}

	if req.Password != "" {
		if len(req.Password) < 8 {
			errs["password"] = "The password must be at least 8 characters."
		} else if req.Password != req.PasswordConfirmation {
			errs["password"] = "The password confirmation does not match."
		}
		if req.CurrentPassword == "" {
			errs["current_password"] = "You must enter your current password."
		}
	}

	if len(errs) > 0 {
		return validationError(c, errs)
	}

	if req.Password != "" {
		if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "The current password is incorrect."})
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("Could not hash password for user %d: %v", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update profile"})
		}
		user.Password = hashed
	}

	user.Name = req.Name
	user.Email = req.Email
	user.ShippingAddress = req.ShippingAddress
	user.BillingAddress = req.BillingAddress

	if err := h.DB.Save(&user).Error; err != nil {
		log.Printf("Could not update profile for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update profile"})
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully.",
		"user": fiber.Map{
			"id":               user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"shipping_address": user.ShippingAddress,
			"billing_address":  user.BillingAddress,
		},
	})
}
