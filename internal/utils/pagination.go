package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ParseLimit reads the limit query param, falling back to def and
// capping at max.
func ParseLimit(c *fiber.Ctx, def, max int) int {
	limit := parseInt(c.Query("limit"), def)
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

// ParseSkip reads the skip query param used for offset pagination.
func ParseSkip(c *fiber.Ctx) int {
	skip := parseInt(c.Query("skip"), 0)
	if skip < 0 {
		skip = 0
	}
	return skip
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
