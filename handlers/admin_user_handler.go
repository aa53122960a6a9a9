package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
	"github.com/ismailgltknn/shoppin/utils"
)

// AdminUserHandler is the admin-only user management surface, including
// role assignment.
type AdminUserHandler struct {
	DB *gorm.DB
}

func NewAdminUserHandler(db *gorm.DB) *AdminUserHandler {
	return &AdminUserHandler{DB: db}
}

type AdminUserRequest struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Role                 string  `json:"role"`
	ShippingAddress      *string `json:"shipping_address"`
	BillingAddress       *string `json:"billing_address"`
}

// ListUsers - GET /api/admin/users
func (h *AdminUserHandler) ListUsers(c *fiber.Ctx) error {
	page, perPage := pageParams(c, 10)

	var total int64
	if err := h.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		log.Printf("Could not count users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch users"})
	}

	var users []models.User
	if err := h.DB.Order("id desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error; err != nil {
		log.Printf("Could not fetch users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch users"})
	}

	data := make([]fiber.Map, 0, len(users))
	for i := range users {
		data = append(data, formatUser(&users[i]))
	}

	return c.JSON(models.NewPaginatedResponse(data, page, perPage, total))
}

// CreateUser - POST /api/admin/users
func (h *AdminUserHandler) CreateUser(c *fiber.Ctx) error {
	var req AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := h.validateUserRequest(&req, 0, true)
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Could not hash password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not create user"})
	}

	user := models.User{
		Name:            req.Name,
		Email:           req.Email,
		Password:        hashed,
		Role:            req.Role,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("Could not create user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully.",
		"user":    formatUser(&user),
	})
}

// UpdateUser - PUT /api/admin/users/:id
func (h *AdminUserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found."})
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found."})
	}

	var req AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid input"})
	}

	errs := h.validateUserRequest(&req, user.ID, false)
	if len(errs) > 0 {
		return validationError(c, errs)
	}

	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Printf("Could not hash password for user %d: %v", user.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update user"})
		}
		user.Password = hashed
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.ShippingAddress = req.ShippingAddress
	user.BillingAddress = req.BillingAddress

	if err := h.DB.Save(&user).Error; err != nil {
		log.Printf("Could not update user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not update user"})
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully.",
		"user":    formatUser(&user),
	})
}

// DeleteUser - DELETE /api/admin/users/:id
// An admin cannot delete their own account.
func (h *AdminUserHandler) DeleteUser(c *fiber.Ctx) error {
	currentID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user session"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found."})
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found."})
	}

	if user.ID == currentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You cannot delete your own account."})
	}

	if err := h.DB.Delete(&user).Error; err != nil {
		log.Printf("Could not delete user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully."})
}

func (h *AdminUserHandler) validateUserRequest(req *AdminUserRequest, ignoreID uint, passwordRequired bool) map[string]string {
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
		query := h.DB.Model(&models.User{}).Where("email = ?", req.Email)
		if ignoreID != 0 {
			query = query.Where("id != ?", ignoreID)
		}
		query.Count(&count)
		if count > 0 {
			errs["email"] = "This email address is already in use."
		}
	}

	if req.Password == "" {
		if passwordRequired {
			errs["password"] = "The password field is required."
		}
	} else if len(req.Password) < 8 {
		errs["password"] = "The password must be at least 8 characters."
	} else if req.Password != req.PasswordConfirmation {
		errs["password"] = "The password confirmation does not match."
	}

	if req.Role == "" {
		errs["role"] = "The role field is required."
	} else if !models.ValidRole(req.Role) {
		errs["role"] = "The selected role is invalid."
	}

	if req.ShippingAddress != nil && len(*req.ShippingAddress) > 1000 {
		errs["shipping_address"] = "The shipping address may not be greater than 1000 characters."
	}
	if req.BillingAddress != nil && len(*req.BillingAddress) > 1000 {
		errs["billing_address"] = "The billing address may not be greater than 1000 characters."
	}

	return errs
}

func formatUser(user *models.User) fiber.Map {
	return fiber.Map{
		"id":               user.ID,
		"name":             user.Name,
		"email":            user.Email,
		"shipping_address": user.ShippingAddress,
		"billing_address":  user.BillingAddress,
		"role":             user.Role,
		"created_at":       user.CreatedAt.Format(time.DateTime),
		"updated_at":       user.UpdatedAt.Format(time.DateTime),
	}
}
