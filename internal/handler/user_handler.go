package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/psycheck/psycheck-api/internal/service"
	"github.com/psycheck/psycheck-api/internal/utils"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *UserHandler) Register(router fiber.Router, readLimiter fiber.Handler) {
	router.Get("/user-details", readLimiter, h.details)
}

// details returns the caller's account. Reading the account applies the
// rolling credit refresh as a side effect.
func (h *UserHandler) details(c *fiber.Ctx) error {
	subject := subjectFromContext(c)
	if subject == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.service.Details(c.Context(), subject)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load user details")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "user retrieved", user)
}
