package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Validator exposes the shared instance so packages can register custom rules.
func Validator() *validator.Validate {
	return validate
}

// ValidationErrorMap turns validator errors into field → rules.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[field] = append(out[field], rule)
	}
	return out
}

// ParseAndValidate decodes the body into dst and runs struct validation.
// The returned error is already written to the response.
func ParseAndValidate(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return false, JsonValidationError(c, ValidationErrorMap(err))
	}
	return true, nil
}

// ValidateVar validates a single value against a tag.
func ValidateVar(c *fiber.Ctx, field string, v any, tag string) (bool, error) {
	if err := validate.Var(v, tag); err != nil {
		return false, JsonValidationError(c, map[string][]string{field: {tag}})
	}
	return true, nil
}
