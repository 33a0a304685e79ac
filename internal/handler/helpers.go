package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/psycheck/psycheck-api/internal/middleware"
)

func subjectFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.SubjectKey); v != nil {
		if subject, ok := v.(string); ok {
			return strings.TrimSpace(subject)
		}
	}
	return ""
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
