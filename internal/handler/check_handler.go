package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/psycheck/psycheck-api/internal/dto"
	"github.com/psycheck/psycheck-api/internal/service"
	"github.com/psycheck/psycheck-api/internal/utils"
)

// CheckHandler exposes the essay evaluation endpoints.
type CheckHandler struct {
	service   service.CheckService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCheckHandler constructs the handler.
func NewCheckHandler(service service.CheckService, validator *validator.Validate, logger zerolog.Logger) *CheckHandler {
	return &CheckHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "check_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *CheckHandler) Register(router fiber.Router, checkLimiter fiber.Handler, readLimiter fiber.Handler) {
	router.Post("/check-essay", checkLimiter, h.checkEssay)
	router.Get("/my-history", readLimiter, h.history)
	router.Get("/essay-results/:id", readLimiter, h.result)
}

func (h *CheckHandler) checkEssay(c *fiber.Ctx) error {
	var payload dto.CheckEssayRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	subject := subjectFromContext(c)
	if subject == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	test, failed, err := h.service.CheckEssay(c.Context(), subject, payload)
	if err != nil {
		return h.handleError(c, err, failed)
	}

	return utils.SendSuccess(c, "essay evaluated", test)
}

func (h *CheckHandler) history(c *fiber.Ctx) error {
	subject := subjectFromContext(c)
	if subject == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	tests, err := h.service.History(c.Context(), subject)
	if err != nil {
		return h.handleError(c, err, nil)
	}

	return utils.SendSuccess(c, "history retrieved", tests)
}

func (h *CheckHandler) result(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	subject := subjectFromContext(c)
	if subject == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	test, err := h.service.GetTest(c.Context(), subject, id)
	if err != nil {
		return h.handleError(c, err, nil)
	}

	return utils.SendSuccess(c, "result retrieved", test)
}

func (h *CheckHandler) handleError(c *fiber.Ctx, err error, failed *dto.EvaluationResult) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEssayTooShort), errors.Is(err, service.ErrEssayTooLong):
		return utils.SendErrorWithData(c, fiber.StatusUnprocessableEntity, err.Error(), failed)
	case errors.Is(err, service.ErrCreditsExhausted):
		return utils.SendError(c, fiber.StatusTooManyRequests, "credits exhausted")
	case errors.Is(err, service.ErrTestNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "test not found")
	case errors.Is(err, service.ErrTestForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrScoringBackend):
		h.logger.Error().Err(err).Msg("scoring backend failed")
		return utils.SendError(c, fiber.StatusBadGateway, "essay scoring failed")
	case errors.Is(err, service.ErrResultNotStored):
		h.logger.Error().Err(err).Msg("evaluation result lost after successful scoring call")
		return utils.SendError(c, fiber.StatusInternalServerError, "evaluation could not be stored")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("check operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
