package handlers

import (
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// currentUserID reads the authenticated user id set by AuthMiddleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	switch v := c.Locals("user_id").(type) {
	case uint:
		return v, true
	case float64:
		return uint(v), true
	}
	return 0, false
}

// validationError returns the field-keyed 422 error map every write
// endpoint uses for malformed input.
func validationError(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed.",
		"errors":  errs,
	})
}

// stockError aborts a cart or checkout transaction when a requested
// quantity exceeds live stock. The message names the available amount.
type stockError struct {
	message string
}

func (e *stockError) Error() string {
	return e.message
}

func stockErrorResponse(c *fiber.Ctx, e *stockError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": e.message,
		"errors":  fiber.Map{"stock_error": e.message},
	})
}

func pageParams(c *fiber.Ctx, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.Query("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	return page, perPage
}
