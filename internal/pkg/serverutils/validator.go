package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and maps the
// first failure to a 400 AppError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return NewAppError(fiber.StatusBadRequest,
				fmt.Sprintf("Field '%s' failed on '%s' validation", first.Field(), first.Tag()))
		}
		return NewAppError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
