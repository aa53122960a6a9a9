package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ismailgltknn/shoppin/models"
	"github.com/ismailgltknn/shoppin/utils"
)

func newProfileApp(db *gorm.DB, user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(authAs(user))
	app.Put("/api/user/profile", NewUserHandler(db).UpdateProfile)
	return app
}

func seedProfileUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hashed, err := utils.HashPassword("oldpassword")
	require.NoError(t, err)
	user := &models.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: hashed,
		Role:     models.RoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	user := seedProfileUser(t, db)
	app := newProfileApp(db, user)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/user/profile", fiber.Map{
		"name":             "Alice Cooper",
		"email":            "alice.cooper@example.com",
		"shipping_address": "1 Main St",
		"billing_address":  "2 Billing Ave",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "alice.cooper@example.com", updated.Email)
	require.NotNil(t, updated.ShippingAddress)
	assert.Equal(t, "1 Main St", *updated.ShippingAddress)
}

func TestUpdateProfileWrongCurrentPassword(t *testing.T) {
	db := setupTestDB(t)
	user := seedProfileUser(t, db)
	app := newProfileApp(db, user)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/user/profile", fiber.Map{
		"name":                  "Alice",
		"email":                 "alice@example.com",
		"password":              "newpassword",
		"password_confirmation": "newpassword",
		"current_password":      "not-the-password",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var unchanged models.User
	require.NoError(t, db.First(&unchanged, user.ID).Error)
	assert.True(t, utils.CheckPasswordHash("oldpassword", unchanged.Password),
		"password must stay unchanged after a rejected attempt")
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	db := setupTestDB(t)
	user := seedProfileUser(t, db)
	app := newProfileApp(db, user)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/user/profile", fiber.Map{
		"name":                  "Alice",
		"email":                 "alice@example.com",
		"password":              "newpassword",
		"password_confirmation": "newpassword",
		"current_password":      "oldpassword",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, utils.CheckPasswordHash("newpassword", updated.Password))
}

func TestUpdateProfileRequiresCurrentPasswordForChange(t *testing.T) {
	db := setupTestDB(t)
	user := seedProfileUser(t, db)
	app := newProfileApp(db, user)

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/user/profile", fiber.Map{
		"name":                  "Alice",
		"email":                 "alice@example.com",
		"password":              "newpassword",
		"password_confirmation": "newpassword",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "current_password")
}
