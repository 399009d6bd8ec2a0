package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Error codes shared with API clients. The client facade surfaces the
// same codes in its typed service error.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeServerError     = "SERVER_ERROR"
)

// RespondWithError sends the error envelope {message, code}.
func RespondWithError(c *fiber.Ctx, statusCode int, message string, code string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"message": message,
		"code":    code,
	})
}

// RespondWithJSON sends the success envelope {success: true, data}.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var errors []string
	if err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, verr := range verrs {
				element := fmt.Sprintf("Field '%s' failed on the '%s' tag", verr.Field(), verr.Tag())
				if verr.Param() != "" {
					element = fmt.Sprintf("%s (value: %s)", element, verr.Param())
				}
				errors = append(errors, element)
			}
		} else {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
