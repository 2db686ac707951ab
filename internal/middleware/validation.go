package middleware

import (
	"strconv"

	"quizia/internal/domain"
	"quizia/internal/dto"
	"quizia/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PaginationKey is the fiber.Ctx local holding a validated dto.Pagination.
const PaginationKey = "validated_pagination"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: validator}
}

// ValidatePagination parses the limit and offset query parameters.
// Missing values stay zero so handlers can apply their own defaults.
func (vm *ValidationMiddleware) ValidatePagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		limit, ok := parseIntQuery(c, "limit")
		if !ok {
			errs = append(errs, domain.NewInvalidFormatError("limit", c.Query("limit")))
		}
		offset, ok := parseIntQuery(c, "offset")
		if !ok {
			errs = append(errs, domain.NewInvalidFormatError("offset", c.Query("offset")))
		}
		if len(errs) > 0 {
			return errs
		}

		if errs := vm.validator.ValidatePagination(limit, offset); len(errs) > 0 {
			return errs
		}

		c.Locals(PaginationKey, dto.Pagination{Limit: limit, Offset: offset})
		return c.Next()
	}
}

// Pagination returns the value stored by ValidatePagination.
func Pagination(c *fiber.Ctx) dto.Pagination {
	p, _ := c.Locals(PaginationKey).(dto.Pagination)
	return p
}

func parseIntQuery(c *fiber.Ctx, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
